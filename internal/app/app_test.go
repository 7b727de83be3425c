package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"modbot/internal/eventbus"
	"modbot/internal/storage"
	kit "modbot/internal/transport"
	"modbot/internal/transport/mocks"
	logx "modbot/pkg/logx"
)

const (
	ownerID int64 = 1
	chatID  int64 = -100
)

type namedPlatform struct {
	*mocks.MockPlatform
}

func (namedPlatform) Username() string { return "modbot" }

type sent struct {
	mu    sync.Mutex
	texts []string
}

func (s *sent) add(text string) {
	s.mu.Lock()
	s.texts = append(s.texts, text)
	s.mu.Unlock()
}

func (s *sent) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

func newTestApp(t *testing.T) (*App, *sent, string) {
	t.Helper()
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{
		"telegram": {"token": "123:abc", "owner_id": 1},
		"logging": {"level": "error"},
		"storage": {"driver": "file", "path": "`+filepath.ToSlash(dataDir)+`"},
		"commands": {"workers": 2},
		"health": {"disabled": true}
	}`), 0o600))

	ctrl := gomock.NewController(t)
	p := mocks.NewMockPlatform(ctrl)
	out := &sent{}
	p.EXPECT().Start(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	p.EXPECT().Stop(gomock.Any()).Return(nil).AnyTimes()
	p.EXPECT().SendText(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, to kit.ChatTarget, text string, _ *kit.SendOptions) (kit.MessageRef, error) {
			out.add(text)
			return kit.MessageRef{ChatID: to.ChatID}, nil
		}).AnyTimes()

	cfgm := NewConfigManager(cfgPath)
	cfgm.SetEnvironment(map[string]string{})
	a, err := New(cfgm, namedPlatform{p})
	require.NoError(t, err)
	return a, out, dataDir
}

func message(from int64, text string) kit.Update {
	return kit.Update{Kind: kit.UpdateMessage, Message: &kit.Message{
		ID:     1,
		ChatID: chatID,
		FromID: from,
		Text:   text,
	}}
}

func TestAppRoutesCommandsAndPersists(t *testing.T) {
	a, out, dataDir := newTestApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, a.Start(ctx))

	a.updates <- message(ownerID, "/addadmin 55")
	require.Eventually(t, func() bool {
		for _, s := range out.all() {
			if s == "✅ User with ID 55 added to admins." {
				return true
			}
		}
		return false
	}, 3*time.Second, 20*time.Millisecond)
	assert.True(t, a.Policy().IsAdmin(55))

	// Non-admins are turned away by the gate.
	a.updates <- message(77, "/kick 5")
	require.Eventually(t, func() bool {
		for _, s := range out.all() {
			if s == "You don't have permission to run this command." {
				return true
			}
		}
		return false
	}, 3*time.Second, 20*time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	require.NoError(t, a.Stop(stopCtx, StopAppStop))

	st, err := storage.Open(storage.Config{Driver: "file", Path: dataDir}, logx.Nop())
	require.NoError(t, err)
	defer st.Close()
	ids, err := st.Load(context.Background(), storage.ListAdmins)
	require.NoError(t, err)
	assert.Equal(t, []int64{55}, ids)
}

func TestAppReloadsListsOnStart(t *testing.T) {
	a, _, dataDir := newTestApp(t)

	st, err := storage.Open(storage.Config{Driver: "file", Path: dataDir}, logx.Nop())
	require.NoError(t, err)
	require.NoError(t, st.Save(context.Background(), storage.ListBlacklist, []int64{9}))
	require.NoError(t, st.Close())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, a.Start(ctx))
	assert.True(t, a.Policy().IsBlacklisted(9))

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	require.NoError(t, a.Stop(stopCtx, StopAppStop))
}

func TestNewFailsOnInvalidConfig(t *testing.T) {
	cfgm := NewConfigManager(filepath.Join(t.TempDir(), "missing.json"))
	cfgm.SetEnvironment(map[string]string{"TOKEN": "x"})
	_, err := New(cfgm, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.owner_id")
}

func TestApplyConfigSummaries(t *testing.T) {
	a, _, _ := newTestApp(t)
	defer a.store.Close()
	prev := a.cfgm.Get()
	next := *prev
	next.Logging.Level = "debug"
	next.Storage.Driver = "sqlite"

	sections, _, restart := SummarizeConfigChange(prev, &next)
	assert.Equal(t, []string{"logging", "storage"}, sections)
	assert.Equal(t, []string{"storage"}, restart)
	a.applyConfig(prev, &next)
	assert.True(t, a.log.Enabled(logx.LevelDebug))
}

func TestLogEventHandlesForeignPayloads(t *testing.T) {
	assert.NotPanics(t, func() {
		logEvent(logx.Nop(), eventbus.Event{Type: "x", Data: 42})
		logEvent(logx.Nop(), eventbus.Event{Type: eventbus.AccessDenied, Data: eventbus.Action{Reason: "not_admin"}})
		logEvent(logx.Nop(), eventbus.Event{Type: eventbus.UserMuted, Data: eventbus.Action{Until: time.Now()}})
	})
}
