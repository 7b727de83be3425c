package logx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	kit "modbot/internal/transport"
	"modbot/internal/transport/mocks"
)

func TestFormatTelegramLine(t *testing.T) {
	req := require.New(t)

	line := []byte(`{"level":"warn","time":"2026-01-02T03:04:05Z","message":"storage load failed","list":"admins","err":"boom"}` + "\n")
	got := formatTelegramLine(line)

	req.Equal("[WARN] storage load failed\nerr=boom\nlist=admins", got)
}

func TestFormatTelegramLineNotJSON(t *testing.T) {
	got := formatTelegramLine([]byte("  plain text  \n"))
	require.Equal(t, "plain text", got)
}

func TestFormatTelegramLineTruncates(t *testing.T) {
	long := strings.Repeat("x", 5000)
	got := formatTelegramLine([]byte(`{"level":"error","message":"` + long + `"}`))
	require.Len(t, got, telegramLineLimit)
	require.True(t, strings.HasSuffix(got, "..."))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{" WARNING ", LevelWarn},
		{"error", LevelError},
		{"nonsense", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, parseLevel(tt.in, LevelInfo), "input %q", tt.in)
	}
}

func TestZeroLoggerIsSafe(t *testing.T) {
	var l Logger
	require.True(t, l.IsZero())
	l.Info("dropped", String("k", "v"))
	require.False(t, l.With(Int("n", 1)).IsZero())
}

func TestTelegramSinkForwardsWarnings(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mocks.NewMockAdapter(ctrl)
	got := make(chan string, 4)
	sender.EXPECT().SendText(gomock.Any(), kit.ChatTarget{ChatID: -42, ThreadID: 7}, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ kit.ChatTarget, text string, _ *kit.SendOptions) (kit.MessageRef, error) {
			got <- text
			return kit.MessageRef{}, nil
		}).AnyTimes()

	svc, log := New(Config{Level: "debug", Telegram: TelegramConfig{Enabled: true, ThreadID: 7, RatePerSec: 10}}, sender)
	defer svc.Close()
	svc.SetTelegramTarget(-42, 0)

	log.Info("routine")
	log.Warn("storage load failed", String("list", "admins"))

	select {
	case text := <-got:
		require.True(t, strings.HasPrefix(text, "[WARN] storage load failed"), text)
		require.Contains(t, text, "list=admins")
	case <-time.After(2 * time.Second):
		t.Fatal("warning was not forwarded")
	}
	require.Empty(t, got, "info lines stay below the sink level")
}

func TestTelegramSinkSilentWithoutChat(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mocks.NewMockAdapter(ctrl)

	svc, log := New(Config{Telegram: TelegramConfig{Enabled: true}}, sender)
	log.Error("nowhere to go")
	require.NoError(t, svc.Close())
}

func TestApplyChangesLevelOfIssuedLoggers(t *testing.T) {
	svc, log := New(Config{Level: "error"}, nil)
	defer svc.Close()
	require.False(t, log.Enabled(LevelInfo))

	svc.Apply(Config{Level: "debug"})
	require.True(t, log.With(String("comp", "x")).Enabled(LevelDebug))
}
