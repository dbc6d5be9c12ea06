package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath       string
	BaseURL      string
	LogLevel     string
	ServerPort   string
	RequestDelay time.Duration
	MatchDelay   time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:       getEnv("DB_PATH", "vlr_matches.db"),
		BaseURL:      getEnv("VLR_BASE_URL", "https://www.vlr.gg"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		RequestDelay: getEnvMillis("REQUEST_DELAY_MS", 200),
		MatchDelay:   getEnvMillis("MATCH_DELAY_MS", 2000),
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("VLR_BASE_URL must not be empty")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("base_url", cfg.BaseURL).
		Str("log_level", cfg.LogLevel).
		Dur("request_delay", cfg.RequestDelay).
		Dur("match_delay", cfg.MatchDelay).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvMillis(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return time.Duration(fallback) * time.Millisecond
}

var Module = fx.Provide(Load)
