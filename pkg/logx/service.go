package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	kit "modbot/internal/transport"
)

type Config struct {
	Level    string
	Console  bool
	File     FileConfig
	Telegram TelegramConfig
}

type FileConfig struct {
	Enabled bool
	Path    string
}

// TelegramConfig drives the log-chat sink. MinLevel defaults to warn and
// RatePerSec to 1.
type TelegramConfig struct {
	Enabled    bool
	ThreadID   int
	MinLevel   string
	RatePerSec int
}

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// Sender is the part of the chat adapter the log-chat sink needs.
type Sender interface {
	SendText(ctx context.Context, to kit.ChatTarget, text string, opt *kit.SendOptions) (kit.MessageRef, error)
}

// Service owns the live writer set. Apply rebuilds it; Loggers handed out
// earlier pick up the change on their next line.
type Service struct {
	mu   sync.Mutex
	root atomic.Pointer[zerolog.Logger]
	file *os.File
	chat *chatSink
}

// New applies cfg and returns the service and a logger bound to it.
func New(cfg Config, sender Sender) (*Service, Logger) {
	setGlobals()
	s := &Service{chat: newChatSink(sender)}
	s.Apply(cfg)
	return s, Logger{svc: s}
}

func setGlobals() {
	zerolog.ErrorFieldName = "err"
	zerolog.TimeFieldFormat = timeFormat
}

func consoleWriter() io.Writer {
	return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: timeFormat}
}

func (s *Service) current() zerolog.Logger {
	if zl := s.root.Load(); zl != nil {
		return *zl
	}
	return zerolog.Nop()
}

// SetTelegramTarget points the log-chat sink at a chat; 0 disables it.
// A zero threadID keeps the configured one.
func (s *Service) SetTelegramTarget(chatID int64, threadID int) {
	s.chat.target(chatID, threadID)
}

func (s *Service) Apply(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		_ = s.file.Close()
		s.file = nil
	}

	var ws []io.Writer
	if cfg.Console {
		ws = append(ws, consoleWriter())
	}
	if cfg.File.Enabled {
		path := strings.TrimSpace(cfg.File.Path)
		if path == "" {
			path = "./modbot.log"
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logx: open %q: %v\n", path, err)
		} else {
			s.file = f
			ws = append(ws, zerolog.SyncWriter(f))
		}
	}
	if s.chat.configure(cfg.Telegram) {
		ws = append(ws, s.chat)
	}
	if len(ws) == 0 {
		ws = append(ws, consoleWriter())
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(ws...)).
		Level(parseLevel(cfg.Level, LevelInfo)).
		With().Timestamp().Logger()
	s.root.Store(&zl)
}

func (s *Service) Close() error {
	s.mu.Lock()
	f := s.file
	s.file = nil
	s.mu.Unlock()

	s.chat.stop()
	if f != nil {
		return f.Close()
	}
	return nil
}

// chatSink forwards log lines at or above a level to a Telegram chat. Writes
// never block: lines over the rate or past a full queue are dropped.
type chatSink struct {
	sender  Sender
	pending chan chatLine

	mu       sync.Mutex
	to       kit.ChatTarget
	minLevel Level
	limiter  *rate.Limiter

	startOnce sync.Once
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

type chatLine struct {
	to   kit.ChatTarget
	text string
}

func newChatSink(sender Sender) *chatSink {
	return &chatSink{sender: sender, pending: make(chan chatLine, 256)}
}

// configure applies cfg and reports whether the sink should be attached.
func (c *chatSink) configure(cfg TelegramConfig) bool {
	c.mu.Lock()
	c.minLevel = parseLevel(cfg.MinLevel, LevelWarn)
	rps := max(1, cfg.RatePerSec)
	c.limiter = rate.NewLimiter(rate.Limit(rps), rps)
	if cfg.ThreadID != 0 {
		c.to.ThreadID = cfg.ThreadID
	}
	noChat := c.to.ChatID == 0
	c.mu.Unlock()

	if !cfg.Enabled || c.sender == nil {
		return false
	}
	if noChat {
		fmt.Fprintln(os.Stderr, "logx: telegram logging enabled but telegram.log_chat_id is not set")
	}
	c.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		c.mu.Lock()
		c.cancel = cancel
		c.mu.Unlock()
		c.wg.Add(1)
		go c.run(ctx)
	})
	return true
}

func (c *chatSink) target(chatID int64, threadID int) {
	c.mu.Lock()
	c.to.ChatID = chatID
	if threadID != 0 {
		c.to.ThreadID = threadID
	}
	c.mu.Unlock()
}

func (c *chatSink) run(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case l := <-c.pending:
			_, _ = c.sender.SendText(ctx, l.to, l.text, &kit.SendOptions{DisablePreview: true})
		}
	}
}

func (c *chatSink) stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
		c.wg.Wait()
	}
}

func (c *chatSink) Write(p []byte) (int, error) { return c.WriteLevel(LevelInfo, p) }

func (c *chatSink) WriteLevel(level Level, p []byte) (int, error) {
	c.mu.Lock()
	to, minLevel, lim := c.to, c.minLevel, c.limiter
	c.mu.Unlock()

	if to.ChatID == 0 || level < minLevel || lim == nil || !lim.Allow() {
		return len(p), nil
	}
	if text := formatTelegramLine(p); text != "" {
		select {
		case c.pending <- chatLine{to: to, text: text}:
		default:
		}
	}
	return len(p), nil
}

const telegramLineLimit = 3500

// formatTelegramLine turns one JSON log line into a compact chat message:
//
//	[WARN] storage load failed
//	err=open admins.json: permission denied
//	list=admins
//
// Keys are sorted so repeated failures render identically.
func formatTelegramLine(p []byte) string {
	var m map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(p), &m); err != nil {
		return truncate(strings.TrimSpace(string(p)), telegramLineLimit)
	}

	var b strings.Builder
	if lvl, _ := m["level"].(string); lvl != "" {
		b.WriteString("[" + strings.ToUpper(lvl) + "] ")
	}
	msg, _ := m["message"].(string)
	b.WriteString(msg)

	delete(m, "time")
	delete(m, "level")
	delete(m, "message")
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		limit := 600
		if k == "stack" {
			limit = 900
		}
		fmt.Fprintf(&b, "\n%s=%s", k, truncate(fmt.Sprint(m[k]), limit))
	}
	return truncate(b.String(), telegramLineLimit)
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n < 10 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
