package cmd

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/spigell/career-center-bot/internal/logger"
	"github.com/spigell/career-center-bot/internal/store"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var vacancyCmd = &cobra.Command{
	Use:   "vacancy",
	Short: "Manage the vacancy catalog from the terminal",
}

var vacancyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a vacancy to the catalog interactively",
	Run: func(_ *cobra.Command, _ []string) {
		addVacancy()
	},
}

func init() {
	rootCmd.AddCommand(vacancyCmd)
	vacancyCmd.AddCommand(vacancyAddCmd)
}

// addVacancy inserts a vacancy without going through the chat: useful for
// seeding the catalog before the bot is announced.
func addVacancy() {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		logger.Fatal("config is required")
	}

	st, err := store.Open(config.Database)
	if err != nil {
		logger.Fatal("opening the store", zap.Error(err), zap.String("database", config.Database))
	}
	defer st.Close()

	title, err := promptValue("Title")
	if err != nil {
		logger.Fatal("reading title", zap.Error(err))
	}

	description, err := promptValue("Description")
	if err != nil {
		logger.Fatal("reading description", zap.Error(err))
	}

	city, err := promptValue("City")
	if err != nil {
		logger.Fatal("reading city", zap.Error(err))
	}

	id, err := st.CreateVacancy(context.Background(), title, description, city)
	if err != nil {
		logger.Fatal("creating vacancy", zap.Error(err))
	}

	logger.Info("vacancy created",
		zap.Int64("vacancy_id", id),
		zap.String("title", title),
	)
}

func promptValue(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("value must not be empty")
			}
			return nil
		},
	}

	value, err := prompt.Run()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(value), nil
}
