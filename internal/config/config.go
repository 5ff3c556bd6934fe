// Package config provides Viper-based hierarchical configuration: built-in
// defaults, an optional YAML file, and environment variables (highest
// precedence). A .env file is honored when present so the sync commands can
// run outside a managed environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned when the classification-service credential is
// absent. The categorize command treats it as fatal at startup.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY environment variable is not set")

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Database struct {
		URL string `mapstructure:"url" yaml:"-"` // Never serialize credentials
	} `mapstructure:"database" yaml:"database"`

	Transparencia struct {
		BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	} `mapstructure:"transparencia" yaml:"transparencia"`

	OpenAI struct {
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	} `mapstructure:"openai" yaml:"openai"`

	Categorizer struct {
		RulesFile  string `mapstructure:"rules_file" yaml:"rules_file"`
		BatchLimit int    `mapstructure:"batch_limit" yaml:"batch_limit"`
	} `mapstructure:"categorizer" yaml:"categorizer"`
}

// Load initializes configuration with hierarchical loading.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.transparencia-sync")
	v.AddConfigPath(".transparencia-sync")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TSYNC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// Credentials are always read from unprefixed environment variables.
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind OPENAI_API_KEY environment variable: %v\n", err)
	}
	if err := v.BindEnv("database.url", "DATABASE_URL"); err != nil {
		fmt.Printf("Warning: failed to bind DATABASE_URL environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("database.url", "")

	v.SetDefault("transparencia.base_url",
		"https://transparencia.e-publica.net:443/epublica-portal/rest/araripina/api/v1")
	v.SetDefault("transparencia.timeout_seconds", 60)

	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openai.timeout_seconds", 30)

	v.SetDefault("categorizer.rules_file", "")
	v.SetDefault("categorizer.batch_limit", 1000)
}

func validate(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Transparencia.BaseURL == "" {
		return fmt.Errorf("transparencia.base_url must not be empty")
	}

	if config.Transparencia.TimeoutSeconds < 1 || config.Transparencia.TimeoutSeconds > 600 {
		return fmt.Errorf("transparencia.timeout_seconds must be between 1 and 600, got: %d",
			config.Transparencia.TimeoutSeconds)
	}

	if config.OpenAI.TimeoutSeconds < 1 || config.OpenAI.TimeoutSeconds > 300 {
		return fmt.Errorf("openai.timeout_seconds must be between 1 and 300, got: %d",
			config.OpenAI.TimeoutSeconds)
	}

	if config.Categorizer.BatchLimit < 1 {
		return fmt.Errorf("categorizer.batch_limit must be positive, got: %d",
			config.Categorizer.BatchLimit)
	}

	return nil
}

// LoadEnv loads environment variables from a .env file if one exists in the
// current or parent directory. Missing files are not an error.
func LoadEnv() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// ConfigureLogging builds a logrus logger from the Log section.
func ConfigureLogging(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if config.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
