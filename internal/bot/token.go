package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Callback tokens carried by inline buttons. Several tokens share the vac_
// prefix, so parsing order matters: vac_page_ must be tried before vac_.
const (
	tokenStartEvent    = "evt_"
	tokenAllVacancies  = "all_vacancies"
	tokenPagePrefix    = "vac_page_"
	tokenVacPrefix     = "vac_"
	tokenRespondPrefix = "respond_"
	tokenMain          = "main"
	tokenNoop          = "noop"
)

// Respond modes distinguish what the applicant responds to.
const (
	RespondModeEvent   = "evt"
	RespondModeVacancy = "vac"
)

// ErrBadToken marks a callback payload that does not parse into any action.
var ErrBadToken = errors.New("bad callback token")

type Action int

const (
	ActionEventInfo Action = iota
	ActionAllVacancies
	ActionCatalogPage
	ActionVacancyDetail
	ActionRespond
	ActionMain
	ActionNoop
)

// Token is the parsed form of a callback payload: exactly one action plus its
// parameters. Building tokens and parsing them back live side by side so the
// grammar cannot drift apart.
type Token struct {
	Action      Action
	EventKey    string
	Page        int
	VacancyID   int64
	RespondMode string
	RespondKey  string
}

// ParseToken maps a callback payload to a Token. The switch order encodes the
// token precedence, so overlapping prefixes cannot shadow each other.
func ParseToken(data string) (Token, error) {
	switch data {
	case tokenAllVacancies:
		return Token{Action: ActionAllVacancies}, nil
	case tokenMain:
		return Token{Action: ActionMain}, nil
	case tokenNoop:
		return Token{Action: ActionNoop}, nil
	}

	switch {
	case strings.HasPrefix(data, tokenStartEvent):
		key := strings.TrimPrefix(data, tokenStartEvent)
		if _, known := eventTitles[key]; !known {
			return Token{}, fmt.Errorf("%w: unknown event %q", ErrBadToken, key)
		}
		return Token{Action: ActionEventInfo, EventKey: key}, nil

	case strings.HasPrefix(data, tokenPagePrefix):
		page, err := strconv.Atoi(strings.TrimPrefix(data, tokenPagePrefix))
		if err != nil || page < 0 {
			return Token{}, fmt.Errorf("%w: bad page in %q", ErrBadToken, data)
		}
		return Token{Action: ActionCatalogPage, Page: page}, nil

	case strings.HasPrefix(data, tokenVacPrefix):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, tokenVacPrefix), 10, 64)
		if err != nil {
			return Token{}, fmt.Errorf("%w: bad vacancy id in %q", ErrBadToken, data)
		}
		return Token{Action: ActionVacancyDetail, VacancyID: id}, nil

	case strings.HasPrefix(data, tokenRespondPrefix):
		rest := strings.TrimPrefix(data, tokenRespondPrefix)
		mode, key, ok := strings.Cut(rest, "_")
		if !ok || key == "" {
			return Token{}, fmt.Errorf("%w: bad respond payload %q", ErrBadToken, data)
		}
		switch mode {
		case RespondModeEvent:
		case RespondModeVacancy:
			if _, err := strconv.ParseInt(key, 10, 64); err != nil {
				return Token{}, fmt.Errorf("%w: bad respond vacancy id in %q", ErrBadToken, data)
			}
		default:
			return Token{}, fmt.Errorf("%w: unknown respond mode %q", ErrBadToken, mode)
		}
		return Token{Action: ActionRespond, RespondMode: mode, RespondKey: key}, nil
	}

	return Token{}, fmt.Errorf("%w: %q", ErrBadToken, data)
}

func eventToken(key string) string {
	return tokenStartEvent + key
}

func pageToken(page int) string {
	return tokenPagePrefix + strconv.Itoa(page)
}

func vacancyToken(id int64) string {
	return tokenVacPrefix + strconv.FormatInt(id, 10)
}

func vacancyKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func respondToken(mode, key string) string {
	return tokenRespondPrefix + mode + "_" + key
}
