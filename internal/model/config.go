package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	// Path is the SQLite database file path.
	Path string `mapstructure:"path" yaml:"path"`
}

// SMTPConfig holds outbound mail settings.
type SMTPConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`

	// Password may be left empty to fall back to the system keyring.
	Password string `mapstructure:"password" yaml:"password"`

	// From is the envelope sender; defaults to Username when empty.
	From string `mapstructure:"from" yaml:"from"`

	// TLS selects implicit TLS; otherwise STARTTLS is used.
	TLS bool `mapstructure:"tls" yaml:"tls"`

	// RatePerSec caps outbound sends per second.
	RatePerSec int `mapstructure:"rate_per_sec" yaml:"rate_per_sec"`
}

// ReminderConfig holds deadline-scan tuning.
type ReminderConfig struct {
	// Schedule is a cron spec for the periodic deadline check.
	Schedule string `mapstructure:"schedule" yaml:"schedule"`

	// LookaheadHours is how far ahead of now a due date still
	// qualifies for a reminder.
	LookaheadHours float64 `mapstructure:"lookahead_hours" yaml:"lookahead_hours"`

	// DedupeWindowHours suppresses repeat reminders for the same
	// task/user pair inside this window.
	DedupeWindowHours float64 `mapstructure:"dedupe_window_hours" yaml:"dedupe_window_hours"`

	// MaxIterations bounds the recurrence walk per task.
	MaxIterations int `mapstructure:"max_iterations" yaml:"max_iterations"`
}

// HTTPConfig holds the trigger/notification API settings.
type HTTPConfig struct {
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
}

// AppConfig is the top-level service configuration.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	SMTP     SMTPConfig     `mapstructure:"smtp" yaml:"smtp"`
	Reminder ReminderConfig `mapstructure:"reminder" yaml:"reminder"`
	HTTP     HTTPConfig     `mapstructure:"http" yaml:"http"`
	LogLevel string         `mapstructure:"log_level" yaml:"log_level"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/reminderd/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "reminderd", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{Path: "reminderd.db"},
		SMTP:     SMTPConfig{Port: "587", RatePerSec: 5},
		Reminder: ReminderConfig{
			Schedule:          "*/5 * * * *",
			LookaheadHours:    24,
			DedupeWindowHours: 23,
			MaxIterations:     1000,
		},
		HTTP:     HTTPConfig{ListenAddr: ":8085"},
		LogLevel: "info",
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("database.path", "reminderd.db")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("smtp.rate_per_sec", 5)
	v.SetDefault("reminder.schedule", "*/5 * * * *")
	v.SetDefault("reminder.lookahead_hours", 24)
	v.SetDefault("reminder.dedupe_window_hours", 23)
	v.SetDefault("reminder.max_iterations", 1000)
	v.SetDefault("http.listen_addr", ":8085")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Reminder.LookaheadHours < 0 {
		cfg.Reminder.LookaheadHours = 24
	}
	if cfg.Reminder.MaxIterations <= 0 {
		cfg.Reminder.MaxIterations = 1000
	}

	return cfg, nil
}
