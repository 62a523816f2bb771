package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "career-center-bot"
)

type Config struct {
	// AdminID is the only identifier allowed to run moderation commands and
	// the chat every notification is delivered to.
	AdminID    int64         `mapstructure:"admin-id"`
	AdminPhone string        `mapstructure:"admin-phone"`
	AdminEmail string        `mapstructure:"admin-email"`
	Database   string        `mapstructure:"database"`
	TokenFile  string        `mapstructure:"token-file"`
	Twilio     *TwilioConfig `mapstructure:"twilio"`
	SMTP       *SMTPConfig   `mapstructure:"smtp"`
}

type TwilioConfig struct {
	AccountSID string `mapstructure:"account-sid"`
	From       string
	Token      string
	TokenFile  string `mapstructure:"token-file"`
}

type SMTPConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	PasswordFile string `mapstructure:"password-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "career-center-bot serves a vacancy catalog over Telegram and relays applicant responses to the administrator",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("token-file", "TELEGRAM_TOKEN_FILE"); err != nil {
		log.Fatalf("binding TELEGRAM_TOKEN_FILE environment variable: %v", err)
	}

	if err := viper.BindEnv("twilio.token-file", "TWILIO_TOKEN_FILE"); err != nil {
		log.Fatalf("binding TWILIO_TOKEN_FILE environment variable: %v", err)
	}

	if err := viper.BindEnv("smtp.password-file", "SMTP_PASSWORD_FILE"); err != nil {
		log.Fatalf("binding SMTP_PASSWORD_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is career-center-bot.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the run and vacancy commands. If there is no
	// config, we can skip initialization
	if runCmd.CalledAs() == "" && vacancyAddCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config != nil && config.Database == "" {
		config.Database = "bot.db"
	}

	return config, nil
}
