package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"modbot/internal/access"
	"modbot/internal/eventbus"
	"modbot/internal/storage"
	kit "modbot/internal/transport"
	"modbot/internal/transport/telegram/router"
	"modbot/internal/wiki"
	logx "modbot/pkg/logx"
)

// Replies shared by several commands.
const (
	msgUserNotFound   = "User not found."
	msgSaveFailed     = "Failed to save changes."
	msgBadDuration    = "Invalid duration format (example: 10m, 1h, 1d)"
	msgAdminNotListed = "Admin is not in the blacklist."
)

const (
	defaultTimeout     = 15 * time.Second
	defaultWikiTimeout = 10 * time.Second
)

// WikiClient is the encyclopedia lookup used by /wiki.
type WikiClient interface {
	Summary(ctx context.Context, query string) (wiki.Summary, error)
}

type Deps struct {
	Platform kit.Platform
	Lists    *access.Lists
	Wiki     WikiClient
	Bus      eventbus.Bus
	Log      logx.Logger

	// Now defaults to time.Now.
	Now func() time.Time
	// Timeout applies to moderation commands, WikiTimeout to /wiki.
	Timeout     time.Duration
	WikiTimeout time.Duration
}

type handlers struct {
	Deps
}

func newHandlers(d Deps) *handlers {
	if d.Log.IsZero() {
		d.Log = logx.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Timeout <= 0 {
		d.Timeout = defaultTimeout
	}
	if d.WikiTimeout <= 0 {
		d.WikiTimeout = defaultWikiTimeout
	}
	if d.Wiki == nil {
		d.Wiki = wiki.New("", d.WikiTimeout)
	}
	return &handlers{Deps: d}
}

// Commands returns the bot's command set. /help is added by the router.
func Commands(d Deps) []router.Command {
	h := newHandlers(d)
	return []router.Command{
		{
			Route:       "start",
			Description: "greeting",
			Access:      router.AccessEveryone,
			Handle:      h.start,
		},
		{
			Route:       "addadmin",
			Description: "add an admin",
			Usage:       "/addadmin <@username|id>",
			Access:      router.AccessOwnerOnly,
			Timeout:     h.Timeout,
			Handle:      h.addAdmin,
		},
		{
			Route:       "removeadmin",
			Description: "remove an admin",
			Usage:       "/removeadmin <@username|id>",
			Access:      router.AccessOwnerOnly,
			Timeout:     h.Timeout,
			Handle:      h.removeAdmin,
		},
		{
			Route:       "admins",
			Description: "list admins",
			Usage:       "/admins",
			Access:      router.AccessOwnerOnly,
			Timeout:     h.Timeout,
			Handle:      h.admins,
		},
		{
			Route:       "kick",
			Description: "kick a user",
			Usage:       "/kick <@username|id>",
			Access:      router.AccessAdmin,
			Timeout:     h.Timeout,
			Handle:      h.kick,
		},
		{
			Route:       "ban",
			Aliases:     []string{"blacklist"},
			Description: "ban permanently (blacklist)",
			Usage:       "/ban <@username|id>",
			Access:      router.AccessAdmin,
			Timeout:     h.Timeout,
			Handle:      h.ban,
		},
		{
			Route:       "ban_temp",
			Description: "temporary ban",
			Usage:       "/ban_temp <@username|id> <1m/1h/1d>",
			Access:      router.AccessAdmin,
			Timeout:     h.Timeout,
			Handle:      h.banTemp,
		},
		{
			Route:       "mute",
			Description: "mute for a while",
			Usage:       "/mute <@username|id> <1m/1h/1d>",
			Access:      router.AccessAdmin,
			Timeout:     h.Timeout,
			Handle:      h.mute,
		},
		{
			Route:       "unblacklist",
			Description: "remove from the blacklist",
			Usage:       "/unblacklist <@username|id>",
			Access:      router.AccessAdmin,
			Timeout:     h.Timeout,
			Handle:      h.unblacklist,
		},
		{
			Route:       "blacklist_admin",
			Description: "suspend an admin",
			Usage:       "/blacklist_admin <@username|id>",
			Access:      router.AccessOwnerOnly,
			Timeout:     h.Timeout,
			Handle:      h.blacklistAdmin,
		},
		{
			Route:       "unblacklist_admin",
			Description: "reinstate an admin",
			Usage:       "/unblacklist_admin <@username|id>",
			Access:      router.AccessOwnerOnly,
			Timeout:     h.Timeout,
			Handle:      h.unblacklistAdmin,
		},
		{
			Route:       "wiki",
			Description: "search Wikipedia",
			Usage:       "/wiki <query>",
			Access:      router.AccessEveryone,
			Timeout:     h.WikiTimeout,
			Handle:      h.wiki,
		},
	}
}

func usage(cmd string) string {
	switch cmd {
	case "mute":
		return "Usage: /mute @username|id 10m"
	case "ban_temp":
		return "Usage: /ban_temp @username|id 1h"
	default:
		return "Usage: /" + cmd + " @username or ID"
	}
}

func (h *handlers) publish(typ string, req *router.Request, target int64, until time.Time) {
	if h.Bus == nil {
		return
	}
	h.Bus.Publish(eventbus.Event{
		Type: typ,
		Time: h.Now(),
		Data: eventbus.Action{ActorID: req.FromID, TargetID: target, ChatID: req.Chat.ChatID, Until: until},
	})
}

// target resolves the first argument. It replies and returns false when the
// argument is missing or cannot be resolved.
func (h *handlers) target(ctx context.Context, req *router.Request, minArgs int, notFound string) (int64, bool) {
	if len(req.Args) < minArgs {
		_ = req.Reply(ctx, usage(req.Command))
		return 0, false
	}
	id, ok := Resolve(ctx, req.Args[0], h.Platform)
	if !ok {
		req.Logger.Debug("target not resolved", logx.String("target", req.Args[0]))
		_ = req.Reply(ctx, notFound)
		return 0, false
	}
	return id, true
}

func (h *handlers) start(ctx context.Context, req *router.Request) error {
	name := req.From.FirstName
	if name == "" {
		name = req.From.DisplayName()
	}
	return req.Reply(ctx, fmt.Sprintf("Hi, %s!\nI'm a moderation bot.\nUse /help to see the commands.", name))
}

func (h *handlers) admins(ctx context.Context, req *router.Request) error {
	ids := h.Lists.Members(storage.ListAdmins)
	if len(ids) == 0 {
		return req.Reply(ctx, "No admins yet.")
	}
	var b strings.Builder
	b.WriteString("Admins:\n")
	for _, id := range ids {
		u, err := h.Platform.UserInfo(ctx, id)
		if err != nil {
			fmt.Fprintf(&b, "- ID: %d\n", id)
			continue
		}
		fmt.Fprintf(&b, "- %s (%d)\n", u.DisplayName(), id)
	}
	return req.Reply(ctx, b.String())
}

// mutation describes one add/remove command over a list.
type mutation struct {
	list    storage.ListName
	add     bool
	event   string
	noop    string // reply when the change is already in effect; empty confirms anyway
	missing string // reply when the target cannot be resolved
}

// mutate resolves the target and applies the change. ok reports whether the
// caller should confirm; every other outcome has already been replied to.
func (h *handlers) mutate(ctx context.Context, req *router.Request, mu mutation) (id int64, ok bool, err error) {
	missing := mu.missing
	if missing == "" {
		missing = msgUserNotFound
	}
	id, ok = h.target(ctx, req, 1, missing)
	if !ok {
		return 0, false, nil
	}

	if mu.add {
		err = h.Lists.Add(ctx, mu.list, id)
	} else {
		err = h.Lists.Remove(ctx, mu.list, id)
	}
	switch {
	case errors.Is(err, access.ErrAlreadyMember), errors.Is(err, access.ErrNotMember):
		if mu.noop == "" {
			return id, true, nil
		}
		return id, false, req.Reply(ctx, mu.noop)
	case err != nil:
		_ = req.Reply(ctx, msgSaveFailed)
		return id, false, err
	}

	req.Logger.Info("list updated",
		logx.String("list", string(mu.list)),
		logx.Bool("add", mu.add),
		logx.Int64("target_id", id),
	)
	h.publish(mu.event, req, id, time.Time{})
	return id, true, nil
}

func (h *handlers) addAdmin(ctx context.Context, req *router.Request) error {
	id, ok, err := h.mutate(ctx, req, mutation{
		list:  storage.ListAdmins,
		add:   true,
		event: eventbus.AdminAdded,
		noop:  "User is already an admin.",
	})
	if !ok {
		return err
	}
	return req.Reply(ctx, fmt.Sprintf("✅ User with ID %d added to admins.", id))
}

func (h *handlers) removeAdmin(ctx context.Context, req *router.Request) error {
	id, ok, err := h.mutate(ctx, req, mutation{
		list:  storage.ListAdmins,
		event: eventbus.AdminRemoved,
		noop:  "User is not an admin.",
	})
	if !ok {
		return err
	}
	return req.Reply(ctx, fmt.Sprintf("✅ User with ID %d removed from admins.", id))
}

func (h *handlers) kick(ctx context.Context, req *router.Request) error {
	id, ok := h.target(ctx, req, 1, msgUserNotFound)
	if !ok {
		return nil
	}
	err := h.Platform.Kick(ctx, req.Chat.ChatID, id)
	switch {
	case errors.Is(err, kit.ErrStillBanned):
		req.Logger.Warn("kick left the user banned", logx.Int64("target_id", id), logx.Err(err))
		h.publish(eventbus.UserKicked, req, id, time.Time{})
		return req.Reply(ctx, fmt.Sprintf("⚠️ User %s was removed, but the ban could not be lifted, so they cannot rejoin yet.", req.Args[0]))
	case err != nil:
		req.Logger.Warn("kick failed", logx.Int64("target_id", id), logx.Err(err))
		return req.Reply(ctx, "Failed to kick the user.")
	}
	h.publish(eventbus.UserKicked, req, id, time.Time{})
	return req.Reply(ctx, fmt.Sprintf("✅ User %s was kicked.", req.Args[0]))
}

// ban blacklists the target. Removing them from the chat is best effort:
// the blacklist entry is what counts.
func (h *handlers) ban(ctx context.Context, req *router.Request) error {
	id, ok, err := h.mutate(ctx, req, mutation{
		list:  storage.ListBlacklist,
		add:   true,
		event: eventbus.UserBlacklisted,
		noop:  "User is already blacklisted.",
	})
	if !ok {
		return err
	}
	if err := h.Platform.BanUntil(ctx, req.Chat.ChatID, id, time.Time{}); err != nil {
		req.Logger.Debug("ban removal failed", logx.Int64("target_id", id), logx.Err(err))
	}
	return req.Reply(ctx, fmt.Sprintf("✅ User %s banned (blacklist).", req.Args[0]))
}

func (h *handlers) unblacklist(ctx context.Context, req *router.Request) error {
	_, ok, err := h.mutate(ctx, req, mutation{
		list:  storage.ListBlacklist,
		event: eventbus.UserUnblacklisted,
		noop:  "User is not blacklisted.",
	})
	if !ok {
		return err
	}
	return req.Reply(ctx, fmt.Sprintf("✅ User %s removed from the blacklist.", req.Args[0]))
}

func (h *handlers) blacklistAdmin(ctx context.Context, req *router.Request) error {
	id, ok, err := h.mutate(ctx, req, mutation{
		list:  storage.ListBlacklistedAdmins,
		add:   true,
		event: eventbus.AdminSuspended,
		noop:  "Admin is already blacklisted.",
	})
	if !ok {
		return err
	}
	return req.Reply(ctx, fmt.Sprintf("✅ Admin with ID %d blocked (cannot use commands).", id))
}

// unblacklistAdmin confirms even when the admin was not suspended.
func (h *handlers) unblacklistAdmin(ctx context.Context, req *router.Request) error {
	id, ok, err := h.mutate(ctx, req, mutation{
		list:    storage.ListBlacklistedAdmins,
		event:   eventbus.AdminReinstated,
		missing: msgAdminNotListed,
	})
	if !ok {
		return err
	}
	return req.Reply(ctx, fmt.Sprintf("✅ Admin with ID %d unblocked.", id))
}

// timed parses "<target> <duration>" and returns the target id and deadline.
func (h *handlers) timed(ctx context.Context, req *router.Request) (int64, time.Time, bool) {
	id, ok := h.target(ctx, req, 2, msgUserNotFound)
	if !ok {
		return 0, time.Time{}, false
	}
	secs, ok := ParseDuration(req.Args[1])
	if !ok {
		_ = req.Reply(ctx, msgBadDuration)
		return 0, time.Time{}, false
	}
	return id, expiry(h.Now(), secs), true
}

func (h *handlers) mute(ctx context.Context, req *router.Request) error {
	id, until, ok := h.timed(ctx, req)
	if !ok {
		return nil
	}
	if err := h.Platform.Restrict(ctx, req.Chat.ChatID, id, kit.NoRights(), until); err != nil {
		req.Logger.Warn("mute failed", logx.Int64("target_id", id), logx.Err(err))
		return req.Reply(ctx, "Failed to mute the user.")
	}
	h.publish(eventbus.UserMuted, req, id, until)
	return req.Reply(ctx, fmt.Sprintf("✅ User %s muted for %s (lifts %s).", req.Args[0], req.Args[1], humanize.RelTime(until, h.Now(), "ago", "from now")))
}

func (h *handlers) banTemp(ctx context.Context, req *router.Request) error {
	id, until, ok := h.timed(ctx, req)
	if !ok {
		return nil
	}
	if err := h.Platform.BanUntil(ctx, req.Chat.ChatID, id, until); err != nil {
		req.Logger.Warn("temporary ban failed", logx.Int64("target_id", id), logx.Err(err))
		return req.Reply(ctx, "Failed to temporarily ban the user.")
	}
	h.publish(eventbus.UserTempBanned, req, id, until)
	return req.Reply(ctx, fmt.Sprintf("✅ User %s banned for %s (lifts %s).", req.Args[0], req.Args[1], humanize.RelTime(until, h.Now(), "ago", "from now")))
}

func (h *handlers) wiki(ctx context.Context, req *router.Request) error {
	query := strings.TrimSpace(req.ArgText)
	if query == "" {
		return req.Reply(ctx, "Enter a query for Wikipedia.")
	}
	s, err := h.Wiki.Summary(ctx, query)
	switch {
	case errors.Is(err, wiki.ErrNotFound), errors.Is(err, wiki.ErrBadStatus):
		req.Logger.Debug("wiki lookup failed", logx.String("query", query), logx.Err(err))
		return req.Reply(ctx, "Failed to fetch data from Wikipedia.")
	case err != nil:
		req.Logger.Warn("wiki request failed", logx.String("query", query), logx.Err(err))
		return req.Reply(ctx, "Wikipedia request failed.")
	}

	text := renderSummary(s)
	if err := req.ReplyOpts(ctx, text, &kit.SendOptions{ParseMode: kit.ParseModeMarkdown}); err != nil {
		// Extracts may contain characters Markdown cannot parse.
		req.Logger.Debug("markdown reply rejected; sending plain", logx.Err(err))
		return req.Reply(ctx, plainSummary(s))
	}
	return nil
}

func renderSummary(s wiki.Summary) string {
	text := "*" + s.Title + "*\n" + s.Extract
	if s.PageURL != "" {
		text += "\n[Read more](" + s.PageURL + ")"
	}
	return text
}

func plainSummary(s wiki.Summary) string {
	parts := []string{s.Title, s.Extract}
	if s.PageURL != "" {
		parts = append(parts, s.PageURL)
	}
	return strings.Join(parts, "\n")
}
