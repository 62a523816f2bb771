package cmd

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spigell/career-center-bot/internal/bot"
	"github.com/spigell/career-center-bot/internal/logger"
	"github.com/spigell/career-center-bot/internal/notify"
	"github.com/spigell/career-center-bot/internal/secrets"
	"github.com/spigell/career-center-bot/internal/store"
	"github.com/spigell/career-center-bot/internal/telegram"
	"github.com/spigell/career-center-bot/internal/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	// Shown when a request fails on the data layer. Applicants never see
	// internal error detail.
	genericFailureMsg = "Произошла ошибка. Попробуйте позже."

	pollRetryDelay = 3 * time.Second
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot",
	Run: func(_ *cobra.Command, _ []string) {
		run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// run is the main command for the bot.
func run() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the career-center-bot", zap.String("version", version))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.AdminID == 0 {
		logger.Fatal("administrator id is required under admin-id")
	}

	token, err := resolveToken(config)
	if err != nil {
		logger.Fatal(
			"loading telegram token",
			zap.Error(err),
			zap.String("hint", "set TELEGRAM_TOKEN_FILE environment variable or the 'token-file' key in the configuration file"),
		)
	}

	st, err := store.Open(config.Database)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err), zap.String("database", config.Database))
	}
	defer st.Close()

	tg := telegram.New(ctx, logger, token)

	dispatcher := notify.New(logger,
		notify.NewChat(tg, config.AdminID),
		smsSink(config, logger),
		emailSink(config, logger),
	)

	router := bot.NewRouter(st, st, dispatcher, config.AdminID, logger)

	logger.Info("starting the update loop", zap.Int64("admin_id", config.AdminID))

	poll(ctx, tg, router, logger)
}

// poll consumes updates until the context is canceled. Every update is
// handled in its own goroutine: the router assumes concurrent invocation and
// one slow applicant must not stall the rest.
func poll(ctx context.Context, tg *telegram.Client, router *bot.Router, logger *zap.Logger) {
	var offset int64

	for {
		if ctx.Err() != nil {
			logger.Info("exiting", zap.String("reason", "context canceled"))
			return
		}

		updates, err := tg.Updates(offset)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logger.Error("getting updates", zap.Error(err))
			// Back off before retrying; cancellation is rechecked on top.
			_ = utils.WaitFor(ctx, pollRetryDelay)
			continue
		}

		for _, update := range updates {
			if update.ID >= offset {
				offset = update.ID + 1
			}

			go handleUpdate(ctx, tg, router, logger, update)
		}
	}
}

func handleUpdate(ctx context.Context, tg *telegram.Client, router *bot.Router, logger *zap.Logger, update *telegram.Update) {
	switch {
	case update.Message != nil:
		handleMessage(ctx, tg, router, logger, update.Message)
	case update.CallbackQuery != nil:
		handleCallback(ctx, tg, router, logger, update.CallbackQuery)
	}
}

func handleMessage(ctx context.Context, tg *telegram.Client, router *bot.Router, logger *zap.Logger, msg *telegram.Message) {
	command, args := msg.Command()
	if command == "" || msg.From == nil {
		return
	}

	payload := command
	if args != "" {
		payload = command + " " + args
	}

	reply, err := router.Handle(ctx, bot.Event{
		Kind:     bot.KindCommand,
		UserID:   msg.From.ID,
		Payload:  payload,
		Username: msg.From.Username,
		FullName: msg.From.FullName(),
	})
	if err != nil {
		logger.Error("handling command", zap.String("command", command), zap.Error(err))
		if err := tg.SendMessage(msg.Chat.ID, genericFailureMsg, nil); err != nil {
			logger.Error("sending failure message", zap.Error(err))
		}
		return
	}

	if reply == nil {
		return
	}

	if err := tg.SendMessage(msg.Chat.ID, reply.Text, reply.Keyboard); err != nil {
		logger.Error("sending reply", zap.Error(err))
	}
}

func handleCallback(ctx context.Context, tg *telegram.Client, router *bot.Router, logger *zap.Logger, query *telegram.CallbackQuery) {
	reply, err := router.Handle(ctx, bot.Event{
		Kind:     bot.KindCallback,
		UserID:   query.From.ID,
		Payload:  query.Data,
		Username: query.From.Username,
		FullName: query.From.FullName(),
	})
	if err != nil {
		logger.Error("handling callback", zap.String("data", query.Data), zap.Error(err))
		if err := tg.AnswerCallbackQuery(query.ID, genericFailureMsg, true); err != nil {
			logger.Error("answering callback", zap.Error(err))
		}
		return
	}

	if reply != nil && reply.Alert != "" {
		// Transient popup, the current screen stays in place.
		if err := tg.AnswerCallbackQuery(query.ID, reply.Alert, reply.ShowAlert); err != nil {
			logger.Error("answering callback", zap.Error(err))
		}
		return
	}

	// The spinner on the pressed button stops only once the query is
	// answered, even when the reply is suppressed.
	if err := tg.AnswerCallbackQuery(query.ID, "", false); err != nil {
		logger.Error("answering callback", zap.Error(err))
	}

	if reply == nil || query.Message == nil {
		return
	}

	if err := tg.EditMessageText(query.Message.Chat.ID, query.Message.ID, reply.Text, reply.Keyboard); err != nil {
		logger.Error("editing message", zap.Error(err))
	}
}

func resolveToken(config *Config) (string, error) {
	if config == nil {
		return "", errors.New("config is required")
	}

	tokenFile := strings.TrimSpace(config.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("token-file"))
	}

	if tokenFile == "" {
		return "", errors.New("telegram token file is not configured")
	}

	return secrets.Load(secrets.Source{
		Name: "telegram token",
		File: tokenFile,
	})
}

// smsSink builds the Twilio channel, or nil when SMS is not configured.
// A missing SMS configuration is a silently disabled channel.
func smsSink(config *Config, logger *zap.Logger) notify.Sink {
	if config.Twilio == nil || config.AdminPhone == "" {
		return nil
	}

	tokenFile := strings.TrimSpace(config.Twilio.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("twilio.token-file"))
	}

	token, err := secrets.Load(secrets.Source{
		Name:  "twilio token",
		Value: config.Twilio.Token,
		File:  tokenFile,
	})
	if err != nil {
		logger.Warn("skipping sms notifications", zap.Error(err))
		return nil
	}

	sink := notify.NewTwilio(logger, &notify.TwilioConfig{
		AccountSID: config.Twilio.AccountSID,
		Token:      token,
		From:       config.Twilio.From,
	}, config.AdminPhone)
	if sink == nil {
		return nil
	}

	return sink
}

// emailSink builds the SMTP channel, or nil when email is not fully
// configured. Unlike SMS, the skip is logged.
func emailSink(config *Config, logger *zap.Logger) notify.Sink {
	if config.SMTP != nil {
		passwordFile := strings.TrimSpace(config.SMTP.PasswordFile)
		if passwordFile == "" {
			passwordFile = strings.TrimSpace(viper.GetString("smtp.password-file"))
		}

		password, err := secrets.Load(secrets.Source{
			Name:  "smtp password",
			Value: config.SMTP.Password,
			File:  passwordFile,
		})
		if err != nil {
			logger.Warn("skipping email notifications", zap.Error(err))
			return nil
		}

		if sink := notify.NewSMTP(logger, &notify.SMTPConfig{
			Host:     config.SMTP.Host,
			Port:     config.SMTP.Port,
			User:     config.SMTP.User,
			Password: password,
		}, config.AdminEmail); sink != nil {
			return sink
		}
	}

	logger.Warn("smtp is not fully configured, skipping email notifications")
	return nil
}
