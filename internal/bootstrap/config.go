package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/visitrack/frontdesk/config"
)

// logLevel backs the default logger so the level can follow config once it is loaded.
var logLevel = new(slog.LevelVar)

// InitLogger installs a JSON logger at info level as the slog default.
func InitLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return logger
}

// SetLogLevel changes the level of loggers built by InitLogger.
func SetLogLevel(level slog.Level) { logLevel.Set(level) }

// LoadConfig loads configuration from environment variables, reading a
// .env file first when one exists.
func LoadConfig() (config.AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}
