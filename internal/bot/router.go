package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/career-center-bot/internal/notify"
	"github.com/spigell/career-center-bot/internal/store"

	"go.uber.org/zap"
)

// Catalog is the vacancy side of the store consumed by the router.
type Catalog interface {
	CreateVacancy(ctx context.Context, title, description, city string) (int64, error)
	Vacancy(ctx context.Context, id int64) (*store.Vacancy, error)
	ListVacancies(ctx context.Context, page int) ([]*store.Vacancy, int, error)
}

// Moderation is the gating side of the store consumed by the router.
type Moderation interface {
	FlipToggle(ctx context.Context, name string) (bool, error)
	ToggleEnabled(ctx context.Context, name string) (bool, error)
	AddToBlacklist(ctx context.Context, userID int64) error
	Blacklisted(ctx context.Context, userID int64) (bool, error)
}

// Notifier fans a response notice out to the administrator's channels.
type Notifier interface {
	Notify(ctx context.Context, n notify.Notice) []notify.Outcome
}

type EventKind int

const (
	// KindCommand is a slash command message ("/start", admin commands).
	KindCommand EventKind = iota
	// KindCallback is an inline button press carrying an opaque token.
	KindCallback
)

// Event is one inbound interaction as the transport hands it over.
type Event struct {
	Kind EventKind
	// UserID identifies the caller for gating and admin checks.
	UserID int64
	// Payload is the command with its argument string, or the callback token.
	Payload string
	// Username and FullName describe the responder in notifications.
	Username string
	FullName string
}

// Router maps inbound events to renders and side effects. It holds no state
// of its own: everything is reconstructed from the event plus store reads, so
// concurrent invocations are safe.
type Router struct {
	catalog    Catalog
	moderation Moderation
	notifier   Notifier
	adminID    int64
	logger     *zap.Logger
}

func NewRouter(catalog Catalog, moderation Moderation, notifier Notifier, adminID int64, logger *zap.Logger) *Router {
	return &Router{
		catalog:    catalog,
		moderation: moderation,
		notifier:   notifier,
		adminID:    adminID,
		logger:     logger,
	}
}

// Handle produces at most one reply for an inbound event. A nil reply with a
// nil error means the event is deliberately suppressed. An error means the
// data layer failed and the transport should show a generic failure.
func (r *Router) Handle(ctx context.Context, ev Event) (*Reply, error) {
	switch ev.Kind {
	case KindCommand:
		return r.handleCommand(ctx, ev)
	case KindCallback:
		return r.handleCallback(ctx, ev)
	default:
		return nil, nil
	}
}

func (r *Router) handleCommand(ctx context.Context, ev Event) (*Reply, error) {
	command, args, _ := strings.Cut(ev.Payload, " ")

	switch command {
	case "start":
		blocked, err := r.moderation.Blacklisted(ctx, ev.UserID)
		if err != nil {
			return nil, err
		}
		if blocked {
			// Suppressed callers get nothing at all, not even an error.
			return nil, nil
		}
		return mainMenu(textWelcome), nil

	case "addvac", "toggle", "blacklist":
		if ev.UserID != r.adminID {
			// Not-admin callers learn nothing about these commands.
			return nil, nil
		}
		return r.handleAdmin(ctx, command, args)
	}

	return nil, nil
}

func (r *Router) handleCallback(ctx context.Context, ev Event) (*Reply, error) {
	token, err := ParseToken(ev.Payload)
	if err != nil {
		r.logger.Debug("dropping malformed callback",
			zap.Int64("user_id", ev.UserID),
			zap.String("payload", ev.Payload),
			zap.Error(err),
		)
		return alert(textUnknown, false), nil
	}

	switch token.Action {
	case ActionEventInfo:
		return r.eventInfo(ctx, token.EventKey)
	case ActionAllVacancies:
		return r.vacancyList(ctx, 0)
	case ActionCatalogPage:
		return r.vacancyList(ctx, token.Page)
	case ActionVacancyDetail:
		return r.vacancyDetail(ctx, token.VacancyID)
	case ActionRespond:
		return r.respond(ctx, ev, token)
	case ActionMain:
		return mainMenu(textMainMenu), nil
	case ActionNoop:
		return alert(textNoopHint, true), nil
	}

	return alert(textUnknown, false), nil
}

func (r *Router) eventInfo(ctx context.Context, key string) (*Reply, error) {
	enabled, err := r.moderation.ToggleEnabled(ctx, key)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return alert(textUnavailable, true), nil
	}

	return eventScreen(key), nil
}

func (r *Router) vacancyList(ctx context.Context, page int) (*Reply, error) {
	vacancies, total, err := r.catalog.ListVacancies(ctx, page)
	if err != nil {
		return nil, err
	}

	return vacancyListScreen(vacancies, page, total), nil
}

func (r *Router) vacancyDetail(ctx context.Context, id int64) (*Reply, error) {
	vacancy, err := r.catalog.Vacancy(ctx, id)
	if errors.Is(err, store.ErrVacancyNotFound) {
		return vacancyNotFoundScreen(), nil
	}
	if err != nil {
		return nil, err
	}

	return vacancyDetailScreen(vacancy), nil
}

// respond records the applicant's intent and fans the notification out. The
// blacklist gate suppresses the whole flow silently, matching the start
// screen behavior.
func (r *Router) respond(ctx context.Context, ev Event, token Token) (*Reply, error) {
	blocked, err := r.moderation.Blacklisted(ctx, ev.UserID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, nil
	}

	title := token.RespondKey
	if token.RespondMode == RespondModeVacancy {
		id, err := strconv.ParseInt(token.RespondKey, 10, 64)
		if err != nil {
			return alert(textUnknown, false), nil
		}

		vacancy, err := r.catalog.Vacancy(ctx, id)
		if errors.Is(err, store.ErrVacancyNotFound) {
			return vacancyNotFoundScreen(), nil
		}
		if err != nil {
			return nil, err
		}
		title = vacancy.Title
	}

	// All store reads are done: the fan-out may block on slow sinks without
	// holding any data-store resource.
	r.notifier.Notify(ctx, notify.Notice{
		Subject: "Новый отклик",
		Body: fmt.Sprintf("Новый отклик:\nusername: @%s\nВакансия: %s\nИмя: %s",
			ev.Username, title, ev.FullName),
	})

	return confirmationScreen(), nil
}
