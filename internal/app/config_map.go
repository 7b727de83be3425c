package app

import (
	"time"

	"modbot/internal/observability/health"
	"modbot/internal/storage"
	logx "modbot/pkg/logx"
)

func mapStorageConfig(cfg *Config) (storage.Config, error) {
	sc := storage.Config{Driver: cfg.Storage.Driver, Path: cfg.Storage.Path}
	if sc.Driver == "" {
		sc.Driver = "file"
	}
	if sc.Path == "" {
		switch sc.Driver {
		case "sqlite", "sqlite3":
			sc.Path = "./data/modbot.db"
		default:
			sc.Path = "./data"
		}
	}
	busy, err := durationOr("storage.busy_timeout", cfg.Storage.BusyTimeout, time.Second)
	if err != nil {
		return storage.Config{}, err
	}
	sc.BusyTimeout = busy
	return sc, nil
}

// mapLogConfig converts the logging section. telegramEnabled lets bootstrap
// hold the Telegram sink off until the target chat is set.
func mapLogConfig(cfg *Config, telegramEnabled bool) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
		Telegram: logx.TelegramConfig{
			Enabled:    telegramEnabled,
			ThreadID:   cfg.Logging.Telegram.ThreadID,
			MinLevel:   cfg.Logging.Telegram.MinLevel,
			RatePerSec: cfg.Logging.Telegram.RatePerSec,
		},
	}
}

func mapHealthConfig(cfg *Config) health.Config {
	return health.Config{
		Addr:        cfg.Health.Addr,
		Pprof:       cfg.Health.Pprof,
		Token:       cfg.Health.Token,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: time.Minute,
	}
}
