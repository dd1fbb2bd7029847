package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reachly/reachly/internal/campaign"
)

type Config struct {
	Sender     campaign.SenderProfile `yaml:"sender"`
	Storage    StorageConfig          `yaml:"storage"`
	Generation GenerationConfig       `yaml:"generation"`
	SMTP       SMTPConfig             `yaml:"smtp"`
	Sending    SendingConfig          `yaml:"sending"`
	Server     ServerConfig           `yaml:"server"`
	Logging    LoggingConfig          `yaml:"logging"`
}

type StorageConfig struct {
	// ContactsPath is the SQLite contact directory database.
	ContactsPath string `yaml:"contacts_path"`
	// ActivityLogPath is the append-only activity log database.
	ActivityLogPath string `yaml:"activity_log_path"`
}

type GenerationConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type SMTPConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
	DKIM     DKIMConfig    `yaml:"dkim"`
}

type DKIMConfig struct {
	KeyFile  string `yaml:"key_file"`
	Domain   string `yaml:"domain"`
	Selector string `yaml:"selector"`
}

type SendingConfig struct {
	// MinDelay and MaxDelay bound the randomized pause between consecutive
	// sends.
	MinDelay time.Duration `yaml:"min_delay"`
	MaxDelay time.Duration `yaml:"max_delay"`
	// Limit caps how many contacts a bulk run processes; 0 means no cap.
	Limit int `yaml:"limit"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	// APITokenHash is a bcrypt hash of the API bearer token. Empty disables
	// authentication (local use only).
	APITokenHash string `yaml:"api_token_hash"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	setDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Storage.ContactsPath == "" {
		cfg.Storage.ContactsPath = "data/contacts.db"
	}
	if cfg.Storage.ActivityLogPath == "" {
		cfg.Storage.ActivityLogPath = "data/activity.db"
	}
	if cfg.Generation.BaseURL == "" {
		cfg.Generation.BaseURL = "https://api.openai.com"
	}
	if cfg.Generation.Timeout == 0 {
		cfg.Generation.Timeout = 60 * time.Second
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.SMTP.Timeout == 0 {
		cfg.SMTP.Timeout = 30 * time.Second
	}
	if cfg.Sending.MinDelay == 0 {
		cfg.Sending.MinDelay = campaign.DefaultMinDelay
	}
	if cfg.Sending.MaxDelay == 0 {
		cfg.Sending.MaxDelay = campaign.DefaultMaxDelay
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// Validate checks the configuration for inconsistencies.
func Validate(cfg *Config) error {
	if cfg.Sender.Email == "" {
		return fmt.Errorf("sender.email is required")
	}
	if cfg.Sender.Name == "" {
		return fmt.Errorf("sender.name is required")
	}
	if cfg.Sending.MinDelay < 0 || cfg.Sending.MaxDelay < 0 {
		return fmt.Errorf("sending delays must not be negative")
	}
	if cfg.Sending.MaxDelay < cfg.Sending.MinDelay {
		return fmt.Errorf("sending.max_delay must not be below sending.min_delay")
	}
	if cfg.Sending.Limit < 0 {
		return fmt.Errorf("sending.limit must not be negative")
	}
	dkim := cfg.SMTP.DKIM
	if dkim.KeyFile != "" && (dkim.Domain == "" || dkim.Selector == "") {
		return fmt.Errorf("smtp.dkim requires domain and selector when key_file is set")
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json")
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error")
	}
	return nil
}
