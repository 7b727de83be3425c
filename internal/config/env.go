package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE files into the process environment (".env" when
// no path is given). Missing files are skipped and variables that are already
// set are left alone.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// applyEnv overlays env-tagged fields. Unset variables keep the file value.
func applyEnv(cfg *Config, environ map[string]string) error {
	var err error
	if environ != nil {
		err = env.ParseWithOptions(cfg, env.Options{Environment: environ})
	} else {
		err = env.Parse(cfg)
	}
	if err != nil {
		return fmt.Errorf("env: %w", err)
	}
	return nil
}

func normalize(cfg *Config) {
	cfg.Telegram.Token = strings.TrimSpace(cfg.Telegram.Token)
	cfg.Telegram.APIURL = strings.TrimSpace(cfg.Telegram.APIURL)
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	cfg.Storage.Path = strings.TrimSpace(cfg.Storage.Path)
	cfg.Wiki.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Wiki.BaseURL), "/")

	if p := strings.TrimSpace(cfg.Health.Port); p != "" {
		cfg.Health.Port = p
		cfg.Health.Addr = ":" + p
	}
	cfg.Health.Addr = strings.TrimSpace(cfg.Health.Addr)
}
