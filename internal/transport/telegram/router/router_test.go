package router

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"modbot/internal/access"
	"modbot/internal/storage"
	kit "modbot/internal/transport"
	"modbot/internal/transport/mocks"
	logx "modbot/pkg/logx"
)

const (
	ownerID int64 = 1
	adminID int64 = 2
	userID  int64 = 3
	banned  int64 = 4
	chatID  int64 = -100
)

type fixture struct {
	m       *CommandManager
	adapter *mocks.MockAdapter
	lists   *access.Lists
	calls   map[string]int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	adapter := mocks.NewMockAdapter(ctrl)

	lists := access.NewLists(storage.NewMemory(), logx.Nop())
	ctx := context.Background()
	require.NoError(t, lists.Add(ctx, storage.ListAdmins, adminID))
	require.NoError(t, lists.Add(ctx, storage.ListBlacklist, banned))

	f := &fixture{adapter: adapter, lists: lists, calls: map[string]int{}}
	f.m = NewCommandManager(logx.Nop(), adapter, access.NewPolicy(ownerID, lists), Options{BotUsername: "modbot"})

	record := func(name string) HandlerFunc {
		return func(ctx context.Context, req *Request) error {
			f.calls[name]++
			return nil
		}
	}
	f.m.SetRegistry([]Command{
		{Route: "start", Access: AccessEveryone, Handle: record("start")},
		{Route: "ban", Aliases: []string{"blacklist"}, Usage: "/ban <@username|id>", Access: AccessAdmin, Handle: record("ban")},
		{Route: "addadmin", Access: AccessOwnerOnly, Handle: record("addadmin")},
	})
	return f
}

func msg(from int64, text string) kit.Update {
	return kit.Update{Kind: kit.UpdateMessage, Message: &kit.Message{ChatID: chatID, FromID: from, Text: text}}
}

// drain runs every job queued by routeUpdate on the caller's goroutine.
func (f *fixture) drain() {
	for {
		select {
		case job := <-f.m.jobs:
			job()
		default:
			return
		}
	}
}

func (f *fixture) expectReply(text string) {
	f.adapter.EXPECT().
		SendText(gomock.Any(), kit.ChatTarget{ChatID: chatID}, text, gomock.Any()).
		Return(kit.MessageRef{}, nil)
}

func TestRoute_BlacklistedSenderIsRejected(t *testing.T) {
	f := newFixture(t)
	f.expectReply(access.DenyBlacklisted.Notice())

	f.m.routeUpdate(context.Background(), msg(banned, "/start"))
	f.drain()
	require.Zero(t, f.calls["start"])
}

func TestRoute_BlacklistedPlainMessageGetsNotice(t *testing.T) {
	f := newFixture(t)
	f.expectReply(access.DenyBlacklisted.Notice())
	f.m.routeUpdate(context.Background(), msg(banned, "hello"))
	f.drain()
}

func TestRoute_NoticesDoNotBlockDispatch(t *testing.T) {
	f := newFixture(t)
	f.m = NewCommandManager(logx.Nop(), f.adapter, access.NewPolicy(ownerID, f.lists), Options{QueueSize: 2})

	// No SendText expectation yet: any reply sent from routeUpdate itself
	// fails the test.
	f.m.routeUpdate(context.Background(), msg(banned, "spam"))
	f.m.routeUpdate(context.Background(), msg(banned, "/start"))
	f.m.routeUpdate(context.Background(), msg(userID, "/nope"))
	f.m.routeUpdate(context.Background(), msg(banned, "more spam"))
	require.Len(t, f.m.jobs, 2, "notices past the queue capacity are dropped")

	f.expectReply(access.DenyBlacklisted.Notice())
	f.expectReply(access.DenyBlacklisted.Notice())
	f.drain()
}

func TestRoute_SuspendedAdminIsRejected(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.lists.Add(context.Background(), storage.ListBlacklistedAdmins, adminID))
	f.expectReply(access.DenySuspended.Notice())

	f.m.routeUpdate(context.Background(), msg(adminID, "/ban 5"))
	f.drain()
	require.Zero(t, f.calls["ban"])
}

func TestRoute_Gates(t *testing.T) {
	f := newFixture(t)

	f.expectReply(access.DenyNotOwner.Notice())
	f.m.routeUpdate(context.Background(), msg(userID, "/addadmin 42"))

	f.expectReply(access.DenyNotAdmin.Notice())
	f.m.routeUpdate(context.Background(), msg(userID, "/ban 42"))

	f.expectReply(access.DenyNotOwner.Notice())
	f.m.routeUpdate(context.Background(), msg(adminID, "/addadmin 42"))
	f.drain()
	require.Empty(t, f.calls)

	f.m.routeUpdate(context.Background(), msg(adminID, "/ban 42"))
	f.m.routeUpdate(context.Background(), msg(ownerID, "/blacklist 42"))
	f.m.routeUpdate(context.Background(), msg(ownerID, "/addadmin@modbot 42"))
	f.drain()
	require.Equal(t, 2, f.calls["ban"])
	require.Equal(t, 1, f.calls["addadmin"])
}

func TestRoute_IgnoresOtherBotsAndPlainText(t *testing.T) {
	f := newFixture(t)
	f.m.routeUpdate(context.Background(), msg(userID, "/start@otherbot"))
	f.m.routeUpdate(context.Background(), msg(userID, "just chatting"))
	f.drain()
	require.Empty(t, f.calls)
}

func TestRoute_UnknownCommand(t *testing.T) {
	f := newFixture(t)
	f.expectReply("Unknown command. Try /help")
	f.m.routeUpdate(context.Background(), msg(userID, "/nope"))
	f.drain()
}

func TestRoute_RequestCarriesArgs(t *testing.T) {
	f := newFixture(t)
	var got *Request
	f.m.SetRegistry([]Command{{Route: "wiki", Handle: func(ctx context.Context, req *Request) error {
		got = req
		return nil
	}}})

	up := msg(userID, "/wiki  Go  programming language")
	up.Message.FromFirstName = "Ann"
	f.m.routeUpdate(context.Background(), up)
	f.drain()

	require.NotNil(t, got)
	require.Equal(t, "wiki", got.Command)
	require.Equal(t, []string{"Go", "programming", "language"}, got.Args)
	require.Equal(t, "Go  programming language", got.ArgText)
	require.Equal(t, "Ann", got.From.FirstName)
	require.NotEmpty(t, got.ReqID)
}

func TestRoute_BusyWhenQueueFull(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < cap(f.m.jobs); i++ {
		require.True(t, f.m.tryEnqueue(func() {}))
	}
	release := make(chan struct{})
	sent := make(chan struct{})
	f.adapter.EXPECT().
		SendText(gomock.Any(), kit.ChatTarget{ChatID: chatID}, "Busy, try again in a moment.", gomock.Any()).
		DoAndReturn(func(context.Context, kit.ChatTarget, string, *kit.SendOptions) (kit.MessageRef, error) {
			close(sent)
			<-release
			return kit.MessageRef{}, nil
		})

	// The busy reply is stuck in flight; further overflow is dropped without
	// another send and without blocking.
	f.m.routeUpdate(context.Background(), msg(userID, "/start"))
	<-sent
	f.m.routeUpdate(context.Background(), msg(userID, "/start"))
	f.m.routeUpdate(context.Background(), msg(userID, "/start"))
	close(release)
	require.Eventually(t, func() bool { return !f.m.busyReply.Load() }, time.Second, 5*time.Millisecond)
}

func TestCommandChain_RecoversPanicAndBoundsTime(t *testing.T) {
	req := &Request{Logger: logx.Nop()}

	panicky := Chain(func(context.Context, *Request) error { panic("boom") }, recoverPanics, logOutcome)
	require.EqualError(t, panicky(context.Background(), req), "panic: boom")

	var deadline time.Time
	bounded := Chain(func(ctx context.Context, _ *Request) error {
		deadline, _ = ctx.Deadline()
		return nil
	}, withTimeout(time.Minute))
	require.NoError(t, bounded(context.Background(), req))
	require.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)

	unbounded := Chain(func(ctx context.Context, _ *Request) error {
		_, ok := ctx.Deadline()
		require.False(t, ok)
		return nil
	}, withTimeout(0))
	require.NoError(t, unbounded(context.Background(), req))
}

func TestHelp(t *testing.T) {
	f := newFixture(t)

	top := f.m.helpText(nil)
	require.Contains(t, top, "<code>/start</code>")
	require.Contains(t, top, "&lt;@username|id&gt;")
	// Everyone commands first, then owner, then admin.
	require.Less(t, strings.Index(top, "/start"), strings.Index(top, "Bot owner"))
	require.Less(t, strings.Index(top, "/addadmin"), strings.Index(top, "Admins"))

	detail := f.m.helpText([]string{"/blacklist"})
	require.Contains(t, detail, "/ban")
	require.Contains(t, detail, "Admins only")

	require.Contains(t, f.m.helpText([]string{"missing"}), "Unknown command")
}

func TestMenuCommands(t *testing.T) {
	cmds := []*Command{
		{Route: "start", Description: "greeting"},
		{Route: "ban_temp", Description: "temporary ban", Access: AccessAdmin},
		{Route: "admins", Description: "list admins", Access: AccessOwnerOnly},
	}
	got := buildTelegramMenuCommands(cmds)
	require.Equal(t, []kit.BotCommand{
		{Command: "start", Description: "greeting"},
		{Command: "ban_temp", Description: "🛡 temporary ban"},
		{Command: "admins", Description: "👑 list admins"},
	}, got)
}

func TestSanitizeTelegramCommand(t *testing.T) {
	require.Equal(t, "ban_temp", sanitizeTelegramCommand("Ban-Temp"))
	require.Equal(t, "cmd_1x", sanitizeTelegramCommand("1x"))
	require.Empty(t, sanitizeTelegramCommand("!!!"))
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		in                  string
		word, mention, rest string
		ok                  bool
	}{
		{"/start", "start", "", "", true},
		{"/Ban@ModBot 42", "ban", "ModBot", "42", true},
		{"/mute 5 10m", "mute", "", "5 10m", true},
		{"hello", "", "", "", false},
		{"/", "", "", "", false},
	}
	for _, tt := range tests {
		w, m, r, ok := splitCommand(tt.in)
		require.Equal(t, tt.ok, ok, tt.in)
		require.Equal(t, tt.word, w, tt.in)
		require.Equal(t, tt.mention, m, tt.in)
		require.Equal(t, tt.rest, r, tt.in)
	}
}

func TestTokenizeCommandLine(t *testing.T) {
	require.Equal(t, []string{"a", "b c", "-5m"}, tokenizeCommandLine(`a "b c" -5m`))
	require.Nil(t, tokenizeCommandLine("   "))
}
