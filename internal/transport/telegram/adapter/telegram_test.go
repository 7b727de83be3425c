package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	kit "modbot/internal/transport"
	logx "modbot/pkg/logx"
)

// fakeAPI is a minimal Bot API: it records called methods and answers from
// a per-method table. Queued answers are served first, one per call.
type fakeAPI struct {
	mu      sync.Mutex
	calls   []string
	bodies  map[string]string
	answers map[string]string
	queued  map[string][]string
}

func newFakeAPI(t *testing.T, answers map[string]string) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{answers: answers, bodies: map[string]string{}, queued: map[string][]string{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		b, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls = append(f.calls, method)
		f.bodies[method] = string(b)
		ans, ok := answers[method]
		if q := f.queued[method]; len(q) > 0 {
			ans, ok = q[0], true
			f.queued[method] = q[1:]
		}
		f.mu.Unlock()

		if !ok {
			ans = `{"ok":true,"result":true}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, ans)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeAPI) queue(method string, answers ...string) {
	f.mu.Lock()
	f.queued[method] = append(f.queued[method], answers...)
	f.mu.Unlock()
}

func (f *fakeAPI) body(method string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[method]
}

func (f *fakeAPI) methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newTestAdapter(t *testing.T, srv *httptest.Server) *Adapter {
	t.Helper()
	a, err := New(Config{Token: "123:abc", APIURL: srv.URL, Offline: true}, logx.Nop())
	require.NoError(t, err)
	return a
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := New(Config{Token: "  "}, logx.Nop())
	require.Error(t, err)
}

func TestLookupUser(t *testing.T) {
	_, srv := newFakeAPI(t, map[string]string{
		"getChat": `{"ok":true,"result":{"id":777,"type":"private","username":"bob","first_name":"Bob"}}`,
	})
	a := newTestAdapter(t, srv)

	u, err := a.LookupUser(context.Background(), "@bob")
	require.NoError(t, err)
	require.Equal(t, kit.User{ID: 777, Username: "bob", FirstName: "Bob"}, u)

	_, err = a.LookupUser(context.Background(), "bob")
	require.ErrorIs(t, err, kit.ErrUserNotFound)
}

func TestLookupUser_NotFound(t *testing.T) {
	_, srv := newFakeAPI(t, map[string]string{
		"getChat": `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`,
	})
	a := newTestAdapter(t, srv)

	_, err := a.UserInfo(context.Background(), 5)
	require.ErrorIs(t, err, kit.ErrUserNotFound)
}

func TestKick_BansThenLiftsBan(t *testing.T) {
	api, srv := newFakeAPI(t, nil)
	a := newTestAdapter(t, srv)

	require.NoError(t, a.Kick(context.Background(), -100, 5))
	// tele.Bot.Ban still posts the legacy kickChatMember name.
	require.Equal(t, []string{"kickChatMember", "unbanChatMember"}, api.methods())
	require.Contains(t, api.body("kickChatMember"), `"user_id":"5"`)
	require.Contains(t, api.body("unbanChatMember"), `"only_if_banned":"true"`)
}

const tooManyRequests = `{"ok":false,"error_code":429,"description":"Too Many Requests: retry after 1"}`

func TestKick_RetriesLiftingBan(t *testing.T) {
	api, srv := newFakeAPI(t, nil)
	api.queue("unbanChatMember", tooManyRequests)
	a := newTestAdapter(t, srv)

	require.NoError(t, a.Kick(context.Background(), -100, 5))
	require.Equal(t, []string{"kickChatMember", "unbanChatMember", "unbanChatMember"}, api.methods())
}

func TestKick_ReportsMemberStillBanned(t *testing.T) {
	api, srv := newFakeAPI(t, nil)
	api.queue("unbanChatMember", tooManyRequests, tooManyRequests)
	a := newTestAdapter(t, srv)

	err := a.Kick(context.Background(), -100, 5)
	require.ErrorIs(t, err, kit.ErrStillBanned)
	require.Equal(t, []string{"kickChatMember", "unbanChatMember", "unbanChatMember"}, api.methods())
}

func TestKick_BanFailureIsNotPartial(t *testing.T) {
	api, srv := newFakeAPI(t, map[string]string{
		"kickChatMember": `{"ok":false,"error_code":400,"description":"Bad Request: not enough rights to restrict/unrestrict chat member"}`,
	})
	a := newTestAdapter(t, srv)

	err := a.Kick(context.Background(), -100, 5)
	require.Error(t, err)
	require.NotErrorIs(t, err, kit.ErrStillBanned)
	require.Equal(t, []string{"kickChatMember"}, api.methods())
}

func TestRestrict_SendsUntilDate(t *testing.T) {
	api, srv := newFakeAPI(t, nil)
	a := newTestAdapter(t, srv)
	until := time.Unix(1_800_000_000, 0)

	require.NoError(t, a.Restrict(context.Background(), -100, 5, kit.NoRights(), until))
	require.Equal(t, []string{"restrictChatMember"}, api.methods())
	require.Contains(t, api.body("restrictChatMember"), "1800000000")
}

func TestModeration_CanceledContext(t *testing.T) {
	api, srv := newFakeAPI(t, nil)
	a := newTestAdapter(t, srv)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, a.BanUntil(ctx, -100, 5, time.Time{}), context.Canceled)
	require.ErrorIs(t, a.Kick(ctx, -100, 5), context.Canceled)
	require.Empty(t, api.methods())
}

func TestUpdateMenuCommands_SkipsUnchanged(t *testing.T) {
	api, srv := newFakeAPI(t, nil)
	a := newTestAdapter(t, srv)
	cmds := []kit.BotCommand{{Command: "start", Description: "greeting"}}

	require.NoError(t, a.UpdateMenuCommands(context.Background(), cmds))
	require.NoError(t, a.UpdateMenuCommands(context.Background(), cmds))
	require.Equal(t, []string{"setMyCommands"}, api.methods())

	var payload struct {
		Commands []struct {
			Command     string `json:"command"`
			Description string `json:"description"`
		} `json:"commands"`
	}
	require.NoError(t, json.Unmarshal([]byte(api.body("setMyCommands")), &payload))
	require.Len(t, payload.Commands, 1)
	require.Equal(t, "start", payload.Commands[0].Command)
}

func TestUpdateMenuCommands_APIError(t *testing.T) {
	_, srv := newFakeAPI(t, map[string]string{
		"setMyCommands": `{"ok":false,"error_code":400,"description":"Bad Request: BOT_COMMAND_INVALID"}`,
	})
	a := newTestAdapter(t, srv)
	err := a.UpdateMenuCommands(context.Background(), []kit.BotCommand{{Command: "x"}})
	require.ErrorContains(t, err, "BOT_COMMAND_INVALID")
}

func TestToMessage(t *testing.T) {
	require.Nil(t, toMessage(nil))
	require.Nil(t, toMessage(&tele.Message{Chat: &tele.Chat{ID: 1}}))

	m := toMessage(&tele.Message{
		ID:       10,
		Text:     "/start",
		ThreadID: 3,
		Chat:     &tele.Chat{ID: -100, Type: tele.ChatSuperGroup},
		Sender:   &tele.User{ID: 5, Username: "ann", FirstName: "Ann"},
	})
	require.Equal(t, &kit.Message{
		ID: 10, ChatID: -100, ThreadID: 3, FromID: 5,
		FromUsername: "ann", FromFirstName: "Ann", Text: "/start", IsGroup: true,
	}, m)
}

func TestToTeleRights(t *testing.T) {
	require.Equal(t, tele.Rights{}, toTeleRights(kit.NoRights()))
	require.True(t, toTeleRights(kit.Rights{CanPinMessages: true}).CanPinMessages)
	require.Zero(t, unixOrForever(time.Time{}))
}

func TestSplitTelegramText(t *testing.T) {
	require.Equal(t, []string{"short"}, splitTelegramText("short", 10, ""))

	long := strings.Repeat("a", 8) + "\n" + strings.Repeat("b", 8)
	require.Equal(t, []string{strings.Repeat("a", 8), strings.Repeat("b", 8)}, splitTelegramText(long, 10, ""))

	html := "<b>abcdefgh</b>"
	for _, chunk := range splitTelegramText(html, 6, "HTML") {
		require.LessOrEqual(t, len([]rune(chunk)), 6)
	}
}

func TestSendUpdate_DropsWhenFull(t *testing.T) {
	_, srv := newFakeAPI(t, nil)
	a := newTestAdapter(t, srv)

	out := make(chan kit.Update, 1)
	send := (chan<- kit.Update)(out)
	a.out.Store(&send)
	a.sendUpdate(kit.Update{Kind: kit.UpdateMessage})
	a.sendUpdate(kit.Update{Kind: kit.UpdateMessage})
	require.Len(t, out, 1)
	require.EqualValues(t, 1, a.dropped.Load())

	a.out.Store(nil)
	require.NotPanics(t, func() { a.sendUpdate(kit.Update{Kind: kit.UpdateMessage}) })
}
