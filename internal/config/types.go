package config

type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Logging  LoggingConfig  `json:"logging"`
	Storage  StorageConfig  `json:"storage"`
	Commands CommandsConfig `json:"commands"`
	Wiki     WikiConfig     `json:"wiki"`
	Health   HealthConfig   `json:"health"`
}

type TelegramConfig struct {
	Token string `json:"token" env:"TOKEN" validate:"required"`
	// OwnerID is the single account allowed to run owner-only commands.
	OwnerID int64 `json:"owner_id" env:"OWNER_ID" validate:"required"`
	// LogChatID receives WARN+ log lines when logging.telegram is enabled.
	LogChatID int64 `json:"log_chat_id,omitempty" env:"LOG_CHAT_ID"`
	// PollTimeout is a Go duration string (e.g. "10s", "2m").
	PollTimeout string `json:"poll_timeout"`
	// APIURL overrides the Bot API endpoint (local bot-api servers, tests).
	APIURL string `json:"api_url,omitempty" validate:"omitempty,url"`
}

type LoggingConfig struct {
	Level    string          `json:"level" env:"LOG_LEVEL" validate:"omitempty,oneof=trace debug info warn warning error"`
	Console  bool            `json:"console"`
	File     LoggingFile     `json:"file"`
	Telegram LoggingTelegram `json:"telegram"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path" validate:"required_if=Enabled true"`
}

type LoggingTelegram struct {
	Enabled    bool   `json:"enabled"`
	ThreadID   int    `json:"thread_id" validate:"gte=0"`
	MinLevel   string `json:"min_level"`
	RatePerSec int    `json:"rate_per_sec" validate:"gte=0"`
}

// StorageConfig selects where the admin/blacklist/admin-blacklist sets live.
//
// Example:
//
//	"storage": { "driver": "sqlite", "path": "./data/modbot.db" }
type StorageConfig struct {
	Driver      string `json:"driver" env:"STORAGE_DRIVER" validate:"omitempty,oneof=file json sqlite sqlite3 badger memory"`
	Path        string `json:"path" env:"STORAGE_PATH"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// CommandsConfig tunes the dispatcher. Zero values mean defaults.
type CommandsConfig struct {
	Workers   int    `json:"workers,omitempty" validate:"gte=0"`
	QueueSize int    `json:"queue_size,omitempty" validate:"gte=0"`
	Timeout   string `json:"timeout,omitempty"`
}

type WikiConfig struct {
	BaseURL string `json:"base_url,omitempty" env:"WIKI_BASE_URL" validate:"omitempty,url"`
	Timeout string `json:"timeout,omitempty"`
}

// HealthConfig controls the liveness HTTP server.
//
// The listener defaults to ":3000"; PORT in the environment overrides Addr.
type HealthConfig struct {
	Disabled bool   `json:"disabled,omitempty"`
	Addr     string `json:"addr,omitempty" validate:"omitempty,hostname_port"`
	Port     string `json:"-" env:"PORT" validate:"omitempty,numeric"`
	// Pprof mounts net/http/pprof under /debug/pprof/ on the same listener.
	Pprof bool   `json:"pprof,omitempty"`
	Token string `json:"token,omitempty"` // bearer token for pprof routes (do not log)
}
