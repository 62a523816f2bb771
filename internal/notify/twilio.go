package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	logutil "github.com/spigell/career-center-bot/internal/logger"

	"go.uber.org/zap"
)

const twilioAPIURL = "https://api.twilio.com"

// TwilioConfig carries the SMS channel credentials. The channel is offered
// only when all fields are present.
type TwilioConfig struct {
	AccountSID string
	Token      string
	From       string
}

// TwilioSink delivers notices as SMS through the Twilio Messages API.
type TwilioSink struct {
	accountSID string
	token      string
	from       string
	to         string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
}

// NewTwilio creates the SMS sink, or nil when the channel is not configured.
// An absent SMS configuration disables the channel without affecting others.
func NewTwilio(logger *zap.Logger, cfg *TwilioConfig, to string) *TwilioSink {
	if cfg == nil || cfg.AccountSID == "" || cfg.Token == "" || cfg.From == "" || to == "" {
		return nil
	}

	return &TwilioSink{
		accountSID: cfg.AccountSID,
		token:      cfg.Token,
		from:       cfg.From,
		to:         to,
		logger:     logutil.WithChannelFields(logger, "sms", to),
		APIURL:     twilioAPIURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *TwilioSink) Name() string { return "sms" }

func (s *TwilioSink) Send(ctx context.Context, n Notice) error {
	form := url.Values{}
	form.Set("To", s.to)
	form.Set("From", s.from)
	form.Set("Body", n.Body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.APIURL, s.accountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms notification: %w", err)
	}

	req.SetBasicAuth(s.accountSID, s.token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	s.logger.Debug("make request", zap.String("url", endpoint))

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("sms notification: bad status: %s", resp.Status)
	}

	return nil
}
