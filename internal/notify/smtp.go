package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	logutil "github.com/spigell/career-center-bot/internal/logger"

	"go.uber.org/zap"
)

// SMTPConfig carries the email channel settings. The channel is offered only
// when host, user and password are all present.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

// SMTPSink delivers notices as email over SMTP with STARTTLS.
type SMTPSink struct {
	cfg    *SMTPConfig
	to     string
	logger *zap.Logger
}

// NewSMTP creates the email sink, or nil when the configuration is
// incomplete. The caller decides whether the skip deserves a log line.
func NewSMTP(logger *zap.Logger, cfg *SMTPConfig, to string) *SMTPSink {
	if cfg == nil || cfg.Host == "" || cfg.User == "" || cfg.Password == "" || to == "" {
		return nil
	}

	if cfg.Port == 0 {
		cfg.Port = 587
	}

	return &SMTPSink{
		cfg:    cfg,
		to:     to,
		logger: logutil.WithChannelFields(logger, "email", to),
	}
}

func (s *SMTPSink) Name() string { return "email" }

func (s *SMTPSink) Send(ctx context.Context, n Notice) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))

	s.logger.Debug("sending email", zap.String("addr", addr))

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("email notification: %w", err)
	}

	// The smtp client has no context support, so the whole exchange is
	// bounded by the connection deadline instead.
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("email notification: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
		return fmt.Errorf("email notification: starttls: %w", err)
	}

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("email notification: auth: %w", err)
	}

	if err := client.Mail(s.cfg.User); err != nil {
		return fmt.Errorf("email notification: %w", err)
	}
	if err := client.Rcpt(s.to); err != nil {
		return fmt.Errorf("email notification: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("email notification: %w", err)
	}

	if _, err := w.Write([]byte(s.message(n))); err != nil {
		return fmt.Errorf("email notification: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("email notification: %w", err)
	}

	return client.Quit()
}

func (s *SMTPSink) message(n Notice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.cfg.User)
	fmt.Fprintf(&b, "To: %s\r\n", s.to)
	fmt.Fprintf(&b, "Subject: %s\r\n", n.Subject)
	b.WriteString("\r\n")
	b.WriteString(n.Body)
	b.WriteString("\r\n")

	return b.String()
}
