package config

import (
	"strings"

	logx "modbot/pkg/logx"
)

// SummarizeConfigChange returns (1) the changed sections, (2) safe structured
// attrs for logging (never the token), and (3) the subset of changed sections
// that only take effect after a restart.
//
// Logging and telegram.log_chat_id are applied live; everything else is read
// once at startup.
func SummarizeConfigChange(oldCfg, newCfg *Config) ([]string, []logx.Field, []string) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 6)
	restart := make([]string, 0, 6)
	attrs := make([]logx.Field, 0, 16)

	ot, nt := oldCfg.Telegram, newCfg.Telegram
	if ot != nt {
		changed = append(changed, "telegram")
		attrs = append(attrs,
			logx.String("telegram.poll_timeout", strings.TrimSpace(nt.PollTimeout)),
			logx.Int64("telegram.owner_id", nt.OwnerID),
			logx.Bool("telegram.log_chat_set", nt.LogChatID != 0),
			logx.Bool("telegram.token_changed", ot.Token != nt.Token),
		)
		// The log chat alone is live.
		ot.LogChatID, nt.LogChatID = 0, 0
		if ot != nt {
			restart = append(restart, "telegram")
		}
	}

	if oldCfg.Logging != newCfg.Logging {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logx.level", newCfg.Logging.Level),
			logx.Bool("logx.console", newCfg.Logging.Console),
			logx.Bool("logx.file_enabled", newCfg.Logging.File.Enabled),
			logx.Bool("logx.telegram_enabled", newCfg.Logging.Telegram.Enabled),
		)
	}

	if oldCfg.Storage != newCfg.Storage {
		changed = append(changed, "storage")
		restart = append(restart, "storage")
		attrs = append(attrs,
			logx.String("storage.driver", newCfg.Storage.Driver),
			logx.String("storage.path", newCfg.Storage.Path),
		)
	}

	if oldCfg.Commands != newCfg.Commands {
		changed = append(changed, "commands")
		restart = append(restart, "commands")
		attrs = append(attrs,
			logx.Int("commands.workers", newCfg.Commands.Workers),
			logx.Int("commands.queue_size", newCfg.Commands.QueueSize),
		)
	}

	if oldCfg.Wiki != newCfg.Wiki {
		changed = append(changed, "wiki")
		restart = append(restart, "wiki")
		attrs = append(attrs, logx.String("wiki.base_url", newCfg.Wiki.BaseURL))
	}

	oh, nh := oldCfg.Health, newCfg.Health
	if oh.Disabled != nh.Disabled || oh.Addr != nh.Addr || oh.Pprof != nh.Pprof || oh.Token != nh.Token {
		changed = append(changed, "health")
		restart = append(restart, "health")
		attrs = append(attrs,
			logx.Bool("health.enabled", !nh.Disabled),
			logx.String("health.addr", nh.Addr),
			logx.Bool("health.pprof", nh.Pprof),
			logx.Bool("health.token_set", nh.Token != ""),
		)
	}

	return changed, attrs, restart
}
