package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/spendwise/internal/common"
	"github.com/Veraticus/spendwise/internal/llm"
	"github.com/Veraticus/spendwise/internal/service"
)

// EnvPrefix prefixes every environment override, e.g. SPENDWISE_DATABASE_PATH.
const EnvPrefix = "SPENDWISE"

// DefaultDatabasePath is used when database.path is unset.
const DefaultDatabasePath = "$HOME/.local/share/spendwise/spendwise.db"

// Config is the fully resolved application configuration.
type Config struct {
	Logging        LoggingConfig
	Database       DatabaseConfig
	Server         ServerConfig
	Classification ClassificationConfig
	LLM            llm.Config
	Expense        ExpenseConfig
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

// Addr returns host:port.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ClassificationConfig points at an optional keyword table override.
type ClassificationConfig struct {
	KeywordsFile string
}

// ExpenseConfig tunes expense writes.
type ExpenseConfig struct {
	Retry service.RetryOptions
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", 10*time.Second)
	v.SetDefault("llm.cache_ttl", 15*time.Minute)
	v.SetDefault("llm.rate_limit", 60)
	v.SetDefault("expense.write_retries", 3)
	v.SetDefault("expense.retry_delay", 50*time.Millisecond)
}

// Load reads configuration from v. Values come from the config file or
// SPENDWISE_ environment variables; the provider's usual API key variable
// (ANTHROPIC_API_KEY or OPENAI_API_KEY) fills llm.api_key when it is unset.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Database: DatabaseConfig{
			Path: ExpandPath(v.GetString("database.path")),
		},
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Classification: ClassificationConfig{
			KeywordsFile: ExpandPath(v.GetString("classification.keywords_file")),
		},
		LLM: llm.Config{
			Provider:  strings.ToLower(strings.TrimSpace(v.GetString("llm.provider"))),
			APIKey:    v.GetString("llm.api_key"),
			Model:     v.GetString("llm.model"),
			BaseURL:   v.GetString("llm.base_url"),
			Timeout:   v.GetDuration("llm.timeout"),
			CacheTTL:  v.GetDuration("llm.cache_ttl"),
			RateLimit: v.GetInt("llm.rate_limit"),
		},
		Expense: ExpenseConfig{
			Retry: service.RetryOptions{
				MaxAttempts:  v.GetInt("expense.write_retries"),
				InitialDelay: v.GetDuration("expense.retry_delay"),
				MaxDelay:     2 * time.Second,
			},
		},
	}

	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "anthropic":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RemoteClassification reports whether a remote classifier is configured.
func (c *Config) RemoteClassification() bool {
	return c.LLM.Provider != ""
}

// Validate checks the configuration for values the application cannot run with.
func (c *Config) Validate() error {
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, c.Logging.Format)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", common.ErrInvalidConfig, c.Server.Port)
	}
	if c.Expense.Retry.MaxAttempts < 1 {
		return fmt.Errorf("%w: expense.write_retries must be at least 1", common.ErrInvalidConfig)
	}

	switch c.LLM.Provider {
	case "":
	case "anthropic", "openai":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("%w: llm.api_key for provider %s", common.ErrMissingConfig, c.LLM.Provider)
		}
	default:
		return fmt.Errorf("%w: unsupported llm provider %q", common.ErrInvalidConfig, c.LLM.Provider)
	}
	if c.LLM.RateLimit < 0 {
		return fmt.Errorf("%w: llm.rate_limit cannot be negative", common.ErrInvalidConfig)
	}
	if c.LLM.CacheTTL < 0 {
		return fmt.Errorf("%w: llm.cache_ttl cannot be negative", common.ErrInvalidConfig)
	}

	return nil
}
