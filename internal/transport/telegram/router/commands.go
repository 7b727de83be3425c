package router

import (
	"context"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"modbot/internal/access"
	"modbot/internal/eventbus"
	"modbot/internal/runtime/supervisor"
	kit "modbot/internal/transport"
	logx "modbot/pkg/logx"
)

type Access int

const (
	AccessEveryone Access = iota
	AccessAdmin
	AccessOwnerOnly
)

func (a Access) gate() access.Gate {
	switch a {
	case AccessAdmin:
		return access.AdminOnly
	case AccessOwnerOnly:
		return access.OwnerOnly
	default:
		return access.Everyone
	}
}

func (a Access) String() string {
	switch a {
	case AccessAdmin:
		return "admin"
	case AccessOwnerOnly:
		return "owner"
	default:
		return "everyone"
	}
}

type Command struct {
	Route       string   // single command word, e.g. "ban_temp"
	Aliases     []string // extra words routed to the same handler
	Description string
	Usage       string
	Access      Access

	Timeout time.Duration // optional per-command override
	Handle  HandlerFunc
}

type Request struct {
	Update  kit.Update
	Chat    kit.ChatTarget
	FromID  int64
	From    kit.User
	Command string   // canonical route
	Args    []string // tokenized arguments
	ArgText string   // everything after the command word, untokenized
	ReqID   string

	Adapter kit.Adapter
	Logger  logx.Logger
}

// Reply sends plain text to the chat the request came from.
func (r *Request) Reply(ctx context.Context, text string) error {
	_, err := r.Adapter.SendText(ctx, r.Chat, text, &kit.SendOptions{DisablePreview: true})
	return err
}

// ReplyOpts sends text with explicit options.
func (r *Request) ReplyOpts(ctx context.Context, text string, opt *kit.SendOptions) error {
	_, err := r.Adapter.SendText(ctx, r.Chat, text, opt)
	return err
}

// Gatekeeper is the permission side of the router: the pre-dispatch filter
// and per-command gates.
type Gatekeeper interface {
	Filter(senderID int64) access.Decision
	Check(g access.Gate, senderID int64) access.Decision
}

type Options struct {
	// BotUsername, when set, makes the router ignore "/cmd@otherbot".
	BotUsername string
	// Workers defaults to NumCPU (min 2).
	Workers int
	// QueueSize defaults to 256.
	QueueSize int

	Bus        eventbus.Bus
	Registry   *supervisor.Registry
	Supervisor *supervisor.Supervisor // app supervisor used for background menu updates
}

type CommandManager struct {
	mu    sync.RWMutex
	cmds  map[string]*Command // route and aliases -> command
	order []*Command          // registration order, canonical only

	log     logx.Logger
	adapter kit.Adapter
	gate    Gatekeeper
	opts    Options

	runMu   sync.Mutex
	running bool
	sup     *supervisor.Supervisor

	jobs      chan func()
	busyReply atomic.Bool
}

func NewCommandManager(log logx.Logger, adapter kit.Adapter, gate Gatekeeper, opts Options) *CommandManager {
	if log.IsZero() {
		log = logx.Nop()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	opts.BotUsername = strings.TrimPrefix(strings.TrimSpace(opts.BotUsername), "@")
	return &CommandManager{
		cmds:    map[string]*Command{},
		log:     log.With(logx.String("comp", "telegram.router")),
		adapter: adapter,
		gate:    gate,
		opts:    opts,
		jobs:    make(chan func(), opts.QueueSize),
	}
}

// Supervisor returns the command manager's internal supervisor (nil if not running).
func (m *CommandManager) Supervisor() *supervisor.Supervisor {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	if !m.running {
		return nil
	}
	return m.sup
}

func (m *CommandManager) setSupervisor(sup *supervisor.Supervisor, running bool) {
	m.runMu.Lock()
	m.sup = sup
	m.running = running
	m.runMu.Unlock()
}

// tryEnqueue is a panic-safe enqueue helper (handles the jobs channel being closed).
func (m *CommandManager) tryEnqueue(fn func()) (ok bool) {
	if fn == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	select {
	case m.jobs <- fn:
		return true
	default:
		return false
	}
}

// SetRegistry replaces the command set. /help is always added.
func (m *CommandManager) SetRegistry(cmds []Command) {
	helper := Command{
		Route:       "help",
		Description: "show this help",
		Usage:       "/help [command]",
		Access:      AccessEveryone,
		Handle: func(ctx context.Context, req *Request) error {
			return req.ReplyOpts(ctx, m.helpText(req.Args), &kit.SendOptions{DisablePreview: true, ParseMode: kit.ParseModeHTML})
		},
	}
	cmds = append(cmds, helper)

	byName := map[string]*Command{}
	order := make([]*Command, 0, len(cmds))
	for _, c := range cmds {
		route := strings.ToLower(strings.TrimSpace(c.Route))
		if route == "" || strings.Contains(route, " ") || c.Handle == nil {
			continue
		}
		cc := c // copy
		cc.Route = route
		if _, dup := byName[route]; dup {
			m.log.Warn("duplicate command ignored", logx.String("cmd", route))
			continue
		}
		byName[route] = &cc
		order = append(order, &cc)
		for _, a := range c.Aliases {
			a = strings.ToLower(strings.TrimSpace(a))
			if a == "" || strings.Contains(a, " ") {
				continue
			}
			if _, exists := byName[a]; !exists {
				byName[a] = &cc
			}
		}
	}

	m.mu.Lock()
	m.cmds = byName
	m.order = order
	m.mu.Unlock()

	// Best-effort Telegram /menu autocomplete update (non-blocking).
	if up, ok := m.adapter.(kit.CommandMenuUpdater); ok {
		menu := buildTelegramMenuCommands(order)
		run := func(parent context.Context) {
			ctx, cancel := context.WithTimeout(parent, 5*time.Second)
			defer cancel()
			if err := up.UpdateMenuCommands(ctx, menu); err != nil {
				m.log.Warn("menu update failed", logx.Err(err))
			}
		}
		if m.opts.Supervisor != nil {
			m.opts.Supervisor.Go("telegram.menu.update", func(ctx context.Context) error {
				run(ctx)
				return nil
			})
		} else {
			go run(context.Background())
		}
	}
}

func (m *CommandManager) lookup(word string) (Command, bool) {
	m.mu.RLock()
	c, ok := m.cmds[word]
	m.mu.RUnlock()
	if !ok || c == nil {
		return Command{}, false
	}
	return *c, true
}

func (m *CommandManager) DispatchLoop(ctx context.Context, updates <-chan kit.Update) error {
	workers := m.opts.Workers
	if workers <= 0 {
		workers = max(runtime.NumCPU(), 2)
	}

	// Internal supervisor keeps the worker pool resilient and observable.
	sup := supervisor.NewSupervisor(ctx,
		supervisor.WithLogger(m.log),
		supervisor.WithCancelOnError(false),
	)
	m.setSupervisor(sup, true)
	m.opts.Registry.Set("telegram.router", sup)

	m.log.Info("command dispatcher started", logx.Int("workers", workers), logx.Int("job_queue_cap", cap(m.jobs)))

	var closeOnce sync.Once
	closeJobs := func() {
		closeOnce.Do(func() {
			// Mark as not running before closing so enqueue can degrade gracefully.
			m.setSupervisor(sup, false)
			close(m.jobs)
		})
	}

	for i := 0; i < workers; i++ {
		idx := i
		name := "command.worker." + strconv.Itoa(idx)
		sup.GoRestart(name, func(c context.Context) error {
			for {
				select {
				case <-c.Done():
					return nil
				case job, ok := <-m.jobs:
					if !ok {
						return nil
					}
					if job == nil {
						continue
					}
					func() {
						defer func() {
							if r := recover(); r != nil {
								m.log.Error("panic in command job", logx.Int("worker", idx), logx.Any("panic", r), logx.String("stack", string(debug.Stack())))
							}
						}()
						job()
					}()
				}
			}
		},
			supervisor.WithRestartBackoff(200*time.Millisecond, 5*time.Second),
			supervisor.WithPublishFirstError(true),
			supervisor.WithStopOnCleanExit(true),
		)
	}

	defer func() {
		closeJobs()
		// Wait briefly for workers to drain.
		wctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		_ = sup.Wait(wctx)
		cancel()
		m.opts.Registry.Delete("telegram.router")
		m.setSupervisor(nil, false)
		m.log.Info("command dispatcher stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case up, ok := <-updates:
			if !ok {
				m.log.Info("updates channel closed")
				return nil
			}
			m.routeUpdate(ctx, up)
		}
	}
}

func (m *CommandManager) routeUpdate(root context.Context, up kit.Update) {
	if up.Kind != kit.UpdateMessage || up.Message == nil {
		return
	}
	msg := up.Message
	chat := kit.ChatTarget{ChatID: msg.ChatID, ThreadID: msg.ThreadID}

	word, mention, rest, isCmd := splitCommand(msg.Text)
	if isCmd && mention != "" && m.opts.BotUsername != "" && !strings.EqualFold(mention, m.opts.BotUsername) {
		// addressed to another bot in the group
		return
	}

	// The filter sees every message, commands or not.
	if d := m.gate.Filter(msg.FromID); !d.Allowed {
		m.denied(root, chat, msg.FromID, word, d)
		return
	}
	if !isCmd {
		return
	}

	cmd, ok := m.lookup(word)
	if !ok {
		m.notify(root, chat, "Unknown command. Try /help")
		return
	}
	if d := m.gate.Check(cmd.Access.gate(), msg.FromID); !d.Allowed {
		m.denied(root, chat, msg.FromID, cmd.Route, d)
		return
	}
	m.enqueueCommand(root, up, cmd, rest)
}

func (m *CommandManager) denied(ctx context.Context, chat kit.ChatTarget, from int64, cmd string, d access.Decision) {
	m.log.Debug("access denied",
		logx.Int64("from_id", from),
		logx.Int64("chat_id", chat.ChatID),
		logx.String("cmd", cmd),
		logx.String("reason", d.Reason.String()),
	)
	if m.opts.Bus != nil {
		m.opts.Bus.Publish(eventbus.Event{
			Type: eventbus.AccessDenied,
			Time: time.Now(),
			Data: eventbus.Action{ActorID: from, ChatID: chat.ChatID, Reason: d.Reason.String()},
		})
	}
	if notice := d.Reason.Notice(); notice != "" {
		m.notify(ctx, chat, notice)
	}
}

// notify queues a router reply on the worker pool, so a slow or rate-limited
// send never holds up dispatch. It is dropped when the queue is full.
func (m *CommandManager) notify(ctx context.Context, chat kit.ChatTarget, text string) {
	queued := m.tryEnqueue(func() {
		if _, err := m.adapter.SendText(ctx, chat, text, nil); err != nil {
			m.log.Debug("notice not delivered", logx.Int64("chat_id", chat.ChatID), logx.Err(err))
		}
	})
	if !queued {
		m.log.Warn("notice dropped (job queue full)", logx.Int64("chat_id", chat.ChatID))
	}
}

// busy answers a command that found the queue full. Only one such reply is
// in flight at a time; commands arriving meanwhile are dropped silently.
func (m *CommandManager) busy(ctx context.Context, chat kit.ChatTarget, cmd string) {
	m.log.Warn("command dropped (job queue full)", logx.Int64("chat_id", chat.ChatID), logx.String("cmd", cmd))
	if !m.busyReply.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer m.busyReply.Store(false)
		sctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_, _ = m.adapter.SendText(sctx, chat, "Busy, try again in a moment.", nil)
	}()
}

func (m *CommandManager) enqueueCommand(root context.Context, up kit.Update, cmd Command, rest string) {
	msg := up.Message
	rid := newReqID()
	reqLog := m.log.With(
		logx.String("rid", rid),
		logx.Int64("chat_id", msg.ChatID),
		logx.Int64("from_id", msg.FromID),
		logx.String("cmd", cmd.Route),
	)

	req := &Request{
		Update:  up,
		Chat:    kit.ChatTarget{ChatID: msg.ChatID, ThreadID: msg.ThreadID},
		FromID:  msg.FromID,
		From:    kit.User{ID: msg.FromID, Username: msg.FromUsername, FirstName: msg.FromFirstName},
		Command: cmd.Route,
		Args:    tokenizeCommandLine(rest),
		ArgText: rest,
		ReqID:   rid,
		Adapter: m.adapter,
		Logger:  reqLog,
	}

	final := Chain(
		cmd.Handle,
		recoverPanics,
		logOutcome,
		withTimeout(cmd.Timeout),
	)

	if !m.tryEnqueue(func() { _ = final(root, req) }) {
		m.busy(root, req.Chat, cmd.Route)
	}
}
