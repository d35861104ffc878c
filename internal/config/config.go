// Package config assembles runtime settings from defaults, an optional
// YAML or TOML file, and SIGNUP_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/alexanderramin/signup/internal/domain"
	"github.com/alexanderramin/signup/internal/validate"
	"gopkg.in/yaml.v3"
)

// APIConfig holds settings for the remote signup service.
type APIConfig struct {
	Endpoint   string `yaml:"endpoint" toml:"endpoint"`
	TimeoutMs  int    `yaml:"timeout_ms" toml:"timeout_ms"`
	MaxRetries int    `yaml:"max_retries" toml:"max_retries"`
	LogCalls   bool   `yaml:"log_calls" toml:"log_calls"`
}

// Timeout returns the per-request timeout.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// FormConfig holds validation settings.
type FormConfig struct {
	EmailDebounceMs    int `yaml:"email_debounce_ms" toml:"email_debounce_ms"`
	PasswordDebounceMs int `yaml:"password_debounce_ms" toml:"password_debounce_ms"`
	MinPasswordScore   int `yaml:"min_password_score" toml:"min_password_score"`
	EmailMaxLength     int `yaml:"email_max_length" toml:"email_max_length"`
}

func (c FormConfig) EmailDebounce() time.Duration {
	return time.Duration(c.EmailDebounceMs) * time.Millisecond
}

func (c FormConfig) PasswordDebounce() time.Duration {
	return time.Duration(c.PasswordDebounceMs) * time.Millisecond
}

type StorageConfig struct {
	DBPath string `yaml:"db_path" toml:"db_path"`
}

type LogConfig struct {
	File  string `yaml:"file" toml:"file"`
	Level string `yaml:"level" toml:"level"`
}

// Config is the full runtime configuration.
type Config struct {
	API     APIConfig     `yaml:"api" toml:"api"`
	Form    FormConfig    `yaml:"form" toml:"form"`
	Storage StorageConfig `yaml:"storage" toml:"storage"`
	Log     LogConfig     `yaml:"log" toml:"log"`
}

// DefaultConfig returns a Config with sensible defaults.
// Storage.DBPath is left empty; Load fills it from the home directory.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Endpoint:   "http://localhost:8080",
			TimeoutMs:  5000,
			MaxRetries: 1,
		},
		Form: FormConfig{
			EmailDebounceMs:    200,
			PasswordDebounceMs: 500,
			MinPasswordScore:   domain.DefaultMinPasswordScore,
			EmailMaxLength:     validate.DefaultEmailMaxLength,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration. path names an optional config file; when
// empty, SIGNUP_CONFIG is consulted. Environment variables win over the file.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("SIGNUP_CONFIG")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)

	if cfg.Storage.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.Storage.DBPath = filepath.Join(home, ".signup", "signup.db")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the form cannot work with.
func (c Config) Validate() error {
	if c.API.Endpoint == "" {
		return fmt.Errorf("api.endpoint is required")
	}
	if c.API.TimeoutMs <= 0 {
		return fmt.Errorf("api.timeout_ms must be positive, got %d", c.API.TimeoutMs)
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative, got %d", c.API.MaxRetries)
	}
	if c.Form.EmailDebounceMs < 0 || c.Form.PasswordDebounceMs < 0 {
		return fmt.Errorf("debounce windows must not be negative")
	}
	if !domain.ValidScore(c.Form.MinPasswordScore) {
		return fmt.Errorf("form.min_password_score must be within 0..%d, got %d",
			domain.MaxPasswordScore, c.Form.MinPasswordScore)
	}
	if c.Form.EmailMaxLength <= 0 {
		return fmt.Errorf("form.email_max_length must be positive, got %d", c.Form.EmailMaxLength)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing TOML config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing YAML config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (use .yaml, .yml or .toml)", filepath.Ext(path))
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SIGNUP_ENDPOINT"); v != "" {
		cfg.API.Endpoint = strings.TrimRight(v, "/")
	}
	envInt("SIGNUP_TIMEOUT_MS", &cfg.API.TimeoutMs, 1)
	envInt("SIGNUP_MAX_RETRIES", &cfg.API.MaxRetries, 0)
	if v := os.Getenv("SIGNUP_LOG_CALLS"); v != "" {
		cfg.API.LogCalls, _ = strconv.ParseBool(v)
	}

	envInt("SIGNUP_EMAIL_DEBOUNCE_MS", &cfg.Form.EmailDebounceMs, 0)
	envInt("SIGNUP_PASSWORD_DEBOUNCE_MS", &cfg.Form.PasswordDebounceMs, 0)
	envInt("SIGNUP_MIN_PASSWORD_SCORE", &cfg.Form.MinPasswordScore, 0)
	envInt("SIGNUP_EMAIL_MAX_LENGTH", &cfg.Form.EmailMaxLength, 1)

	if v := os.Getenv("SIGNUP_DB"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("SIGNUP_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("SIGNUP_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// envInt overwrites *dst with the integer in envName when it parses and is >= min.
func envInt(envName string, dst *int, min int) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min {
		return
	}
	*dst = n
}

// YAML renders the configuration the way a config file would hold it.
func (c Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	return string(out), nil
}
