package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	OracleURL           string        `env:"ORACLE_URL"`
	OracleAPIToken      string        `env:"ORACLE_API_TOKEN"`
	OracleTimeout       time.Duration `env:"ORACLE_TIMEOUT" default:"5s"`
	OracleCacheTTL      time.Duration `env:"ORACLE_CACHE_TTL" default:"24h"`
	OracleProbeAttempts int           `env:"ORACLE_PROBE_ATTEMPTS" default:"3"`

	LexiconFile string `env:"LEXICON_FILE"`

	HistoryLimitDefault int `env:"HISTORY_LIMIT_DEFAULT" default:"20"`
	HistoryLimitMax     int `env:"HISTORY_LIMIT_MAX" default:"200"`

	ClassifyRateLimit float64 `env:"CLASSIFY_RATE_LIMIT" default:"10"`
	ClassifyRateBurst int     `env:"CLASSIFY_RATE_BURST" default:"20"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// OracleEnabled reports whether an external classifier endpoint is configured.
func (c *Config) OracleEnabled() bool {
	return c.OracleURL != ""
}

func validate(cfg *Config) error {
	if cfg.OracleTimeout <= 0 {
		return errors.New("ORACLE_TIMEOUT must be positive")
	}
	if cfg.OracleProbeAttempts < 1 {
		return errors.New("ORACLE_PROBE_ATTEMPTS must be at least 1")
	}
	if cfg.HistoryLimitDefault < 1 {
		return errors.New("HISTORY_LIMIT_DEFAULT must be at least 1")
	}
	if cfg.HistoryLimitMax < cfg.HistoryLimitDefault {
		return fmt.Errorf("HISTORY_LIMIT_MAX (%d) must not be below HISTORY_LIMIT_DEFAULT (%d)", cfg.HistoryLimitMax, cfg.HistoryLimitDefault)
	}
	if cfg.ClassifyRateLimit <= 0 || cfg.ClassifyRateBurst < 1 {
		return errors.New("CLASSIFY_RATE_LIMIT and CLASSIFY_RATE_BURST must be positive")
	}

	if cfg.OracleURL != "" {
		u, err := url.Parse(cfg.OracleURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("ORACLE_URL must be an absolute http(s) URL, got %q", cfg.OracleURL)
		}
	}

	if cfg.AppEnv == "production" && cfg.DatabaseURL != "" {
		u, err := url.Parse(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
		}
		mode := strings.ToLower(u.Query().Get("sslmode"))
		if mode == "disable" || mode == "allow" {
			return fmt.Errorf("DATABASE_URL uses sslmode=%s which is not allowed in production", mode)
		}
	}

	return nil
}
