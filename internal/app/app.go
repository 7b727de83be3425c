package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"modbot/internal/access"
	"modbot/internal/eventbus"
	"modbot/internal/moderation"
	"modbot/internal/observability/health"
	"modbot/internal/storage"
	kit "modbot/internal/transport"
	telegram "modbot/internal/transport/telegram/adapter"
	"modbot/internal/transport/telegram/router"
	"modbot/internal/wiki"
	logx "modbot/pkg/logx"
)

// Platform is the adapter surface the app drives: the moderation calls plus
// bot identity.
type Platform interface {
	kit.Platform
	Username() string
}

type App struct {
	cfgm *ConfigManager
	sup  *Supervisor
	sups *SupervisorRegistry

	log   logx.Logger
	logs  *logx.Service
	bus   eventbus.Bus
	store storage.ListStore

	lists  *access.Lists
	policy *access.Policy
	wiki   *wiki.Client

	adapter Platform
	cmdm    *CommandManager
	health  *health.Service

	cmdTimeout  time.Duration
	wikiTimeout time.Duration

	updates chan kit.Update
}

// NewApp loads the config at cfgPath (the file may be absent when the
// environment supplies everything) and builds the app.
func NewApp(cfgPath string) (*App, error) {
	return New(NewConfigManager(cfgPath), nil)
}

// New builds the app from cfgm. A nil adapter means a Telegram adapter is
// created from the config.
func New(cfgm *ConfigManager, ad Platform) (*App, error) {
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	if ad == nil {
		bootLog := logx.NewConsole(cfg.Logging.Level)
		pollTimeout, err := durationOr("telegram.poll_timeout", cfg.Telegram.PollTimeout, 10*time.Second)
		if err != nil {
			return nil, err
		}
		tg, err := telegram.New(telegram.Config{
			Token:       cfg.Telegram.Token,
			PollTimeout: pollTimeout,
			APIURL:      cfg.Telegram.APIURL,
		}, bootLog)
		if err != nil {
			return nil, err
		}
		ad = tg
	}

	// Bootstrap with the Telegram sink off, set the target, then enable it,
	// so Apply() does not warn about a missing chat.
	logSvc, log := logx.New(mapLogConfig(cfg, false), ad)
	if cfg.Telegram.LogChatID != 0 {
		logSvc.SetTelegramTarget(cfg.Telegram.LogChatID, cfg.Logging.Telegram.ThreadID)
	}
	logSvc.Apply(mapLogConfig(cfg, cfg.Logging.Telegram.Enabled))
	appLog := log.With(logx.String("comp", "app"))

	sc, err := mapStorageConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(sc, log.With(logx.String("comp", "storage")))
	if err != nil {
		logSvc.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}
	appLog.Info("storage opened", logx.String("driver", sc.Driver), logx.String("path", sc.Path))

	lists := access.NewLists(store, log)

	cmdTimeout, err := durationOr("commands.timeout", cfg.Commands.Timeout, 0)
	if err != nil {
		return nil, err
	}
	wikiTimeout, err := durationOr("wiki.timeout", cfg.Wiki.Timeout, 10*time.Second)
	if err != nil {
		return nil, err
	}

	sups := NewSupervisorRegistry()
	return &App{
		cfgm:        cfgm,
		sups:        sups,
		log:         appLog,
		logs:        logSvc,
		bus:         eventbus.New(),
		store:       store,
		lists:       lists,
		policy:      access.NewPolicy(cfg.Telegram.OwnerID, lists),
		wiki:        wiki.New(cfg.Wiki.BaseURL, wikiTimeout),
		adapter:     ad,
		health:      newHealth(cfg, sups, log),
		cmdTimeout:  cmdTimeout,
		wikiTimeout: wikiTimeout,
		updates:     make(chan kit.Update, 256),
	}, nil
}

func newHealth(cfg *Config, sups *SupervisorRegistry, log logx.Logger) *health.Service {
	if cfg.Health.Disabled {
		return nil
	}
	return health.New(mapHealthConfig(cfg), sups, log.With(logx.String("comp", "health")))
}

// Policy exposes the access policy (owner, admins, blacklists).
func (a *App) Policy() *access.Policy { return a.policy }

// Done is closed when the app supervisor context is canceled (fatal error or Stop()).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error observed by the supervisor (if any).
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

func (a *App) Start(ctx context.Context) error {
	a.sup = NewSupervisor(ctx, WithLogger(a.log), WithCancelOnError(true))
	a.sups.Set("app", a.sup)

	loadCtx, cancel := context.WithTimeout(a.sup.Context(), 10*time.Second)
	a.lists.Load(loadCtx)
	cancel()
	a.log.Info("access lists loaded",
		logx.Int("admins", len(a.lists.Members(storage.ListAdmins))),
		logx.Int("blacklist", len(a.lists.Members(storage.ListBlacklist))),
		logx.Int("blacklisted_admins", len(a.lists.Members(storage.ListBlacklistedAdmins))),
	)

	cfg := a.cfgm.Get()
	a.cmdm = NewCommandManager(a.log, a.adapter, a.policy, router.Options{
		BotUsername: a.adapter.Username(),
		Workers:     cfg.Commands.Workers,
		QueueSize:   cfg.Commands.QueueSize,
		Bus:         a.bus,
		Registry:    a.sups,
		Supervisor:  a.sup,
	})
	a.cmdm.SetRegistry(moderation.Commands(moderation.Deps{
		Platform:    a.adapter,
		Lists:       a.lists,
		Wiki:        a.wiki,
		Bus:         a.bus,
		Log:         a.log.With(logx.String("comp", "moderation")),
		Timeout:     a.cmdTimeout,
		WikiTimeout: a.wikiTimeout,
	}))

	// Subscribe before any command can publish.
	a.startEventLog()

	if err := a.adapter.Start(a.sup.Context(), a.updates); err != nil {
		return err
	}
	if sp, ok := a.adapter.(interface{ Supervisor() *Supervisor }); ok {
		if sup := sp.Supervisor(); sup != nil {
			a.sups.Set("telegram.adapter", sup)
		}
	}

	a.sup.Go("commands.dispatch", func(c context.Context) error {
		return a.cmdm.DispatchLoop(c, a.updates)
	})

	if a.health != nil {
		a.health.Start(a.sup.Context())
		if sup := a.health.Supervisor(); sup != nil {
			a.sups.Set("health", sup)
		}
	}

	a.startConfigReload()

	a.log.Info("app started",
		logx.String("bot", a.adapter.Username()),
		logx.Int64("owner_id", a.policy.OwnerID()),
	)
	return nil
}

// startEventLog writes every moderation event to the log.
func (a *App) startEventLog() {
	events, unsub := a.bus.Subscribe(128)
	log := a.log.With(logx.String("comp", "audit"))
	a.sup.Go0("eventbus.log", func(c context.Context) {
		defer unsub()
		for {
			select {
			case <-c.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				logEvent(log, e)
			}
		}
	})
}

func logEvent(log logx.Logger, e eventbus.Event) {
	fields := []logx.Field{logx.String("type", e.Type), logx.Time("time", e.Time)}
	act, ok := e.Data.(eventbus.Action)
	if !ok {
		log.Debug("event", fields...)
		return
	}
	fields = append(fields,
		logx.Int64("actor_id", act.ActorID),
		logx.Int64("target_id", act.TargetID),
		logx.Int64("chat_id", act.ChatID),
	)
	if !act.Until.IsZero() {
		fields = append(fields, logx.Time("until", act.Until))
	}
	if e.Type == eventbus.AccessDenied {
		fields = append(fields, logx.String("reason", act.Reason))
		log.Debug("access denied", fields...)
		return
	}
	log.Info("moderation action", fields...)
}

// startConfigReload watches the config file and applies logging changes live.
// Other sections are reported as needing a restart.
func (a *App) startConfigReload() {
	if !a.cfgm.FileExists() {
		a.log.Info("no config file; hot reload disabled", logx.String("path", a.cfgm.Path()))
		return
	}
	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))

	sub := a.cfgm.Subscribe(8)
	a.sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		lastApplied := a.cfgm.Get()
		for {
			select {
			case <-c.Done():
				return
			case newCfg, ok := <-sub:
				if !ok {
					return
				}
				// Coalesce bursts: keep only the latest config in the channel.
				for drained := false; !drained; {
					select {
					case newer := <-sub:
						if newer != nil {
							newCfg = newer
						}
					default:
						drained = true
					}
				}
				a.applyConfig(lastApplied, newCfg)
				lastApplied = newCfg
			}
		}
	})

	a.sup.Go("config.watch", func(c context.Context) error {
		return a.cfgm.Watch(c)
	})
}

func (a *App) applyConfig(prev, next *Config) {
	sections, attrs, restart := SummarizeConfigChange(prev, next)
	if len(sections) == 0 {
		a.log.Info("config reloaded (no changes)")
		return
	}
	if len(restart) > 0 {
		a.log.Warn("config changed; restart required for changes to take effect",
			logx.String("sections", strings.Join(restart, ",")))
	}

	// update log target first (so Apply() doesn't warn when Telegram logging is enabled)
	a.logs.SetTelegramTarget(next.Telegram.LogChatID, next.Logging.Telegram.ThreadID)
	a.logs.Apply(mapLogConfig(next, next.Logging.Telegram.Enabled))

	fields := append([]logx.Field{logx.String("changed", strings.Join(sections, ","))}, attrs...)
	a.log.Info("config reloaded", fields...)
}

func (a *App) Stop(ctx context.Context, reason StopReason) error {
	if a.sup == nil {
		return nil
	}
	a.log.Info("stopping", logx.String("reason", string(reason)))

	// First, cancel the app run context so background loops start unwinding immediately.
	a.sup.Cancel()

	// step runs one shutdown step with an upper bound so one component can't stall the whole stop.
	step := func(name string, max time.Duration, fn func(context.Context) error) {
		start := time.Now()
		a.log.Debug("stop step begin", logx.String("name", name), logx.Duration("max", max))

		stepCtx := ctx
		if max > 0 {
			// respect the caller's deadline; never extend it
			if dl, ok := ctx.Deadline(); ok {
				if rem := time.Until(dl); rem < max {
					max = rem
				}
			}
			if max > 0 {
				var cancel context.CancelFunc
				stepCtx, cancel = context.WithTimeout(ctx, max)
				defer cancel()
			}
		}

		done := make(chan error, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- fmt.Errorf("panic in stop step %s: %v", name, r)
				}
			}()
			done <- fn(stepCtx)
		}()

		select {
		case err := <-done:
			if err != nil {
				a.log.Warn("stop step error", logx.String("name", name), logx.Err(err))
			}
			a.log.Debug("stop step end", logx.String("name", name), logx.Duration("took", time.Since(start)))
		case <-stepCtx.Done():
			a.log.Warn("stop step deadline reached (continuing)",
				logx.String("name", name),
				logx.Duration("elapsed", time.Since(start)),
			)
		}
	}

	step("adapter", 2*time.Second, func(c context.Context) error { return a.adapter.Stop(c) })
	step("health", time.Second, func(c context.Context) error {
		if a.health != nil {
			a.health.Stop(c)
		}
		return nil
	})
	// Wait for supervised goroutines (dispatcher drains in-flight commands).
	step("supervisor", 4*time.Second, func(c context.Context) error { return a.sup.Wait(c) })
	step("storage", time.Second, func(c context.Context) error { return a.store.Close() })

	a.log.Info("stopped")
	if a.logs != nil {
		_ = a.logs.Close()
	}
	return nil
}
