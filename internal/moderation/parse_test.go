package moderation

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	kit "modbot/internal/transport"
	"modbot/internal/transport/mocks"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"10m", 600, true},
		{"2h", 7200, true},
		{"3d", 259200, true},
		{"1m", 60, true},
		{"10", 0, false},
		{"10x", 0, false},
		{"-5m", 0, false},
		{"1.5h", 0, false},
		{"0m", 0, false},
		{"10m ", 0, false},
		{"m", 0, false},
		{"", 0, false},
		{"99999999999999999999d", 0, false},
		{"153722867280912931m", 0, false}, // overflows int64 seconds
	}
	for _, tt := range tests {
		got, ok := ParseDuration(tt.in)
		require.Equal(t, tt.ok, ok, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}
}

func TestExpiry_Clamps(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	require.Equal(t, now.Add(10*time.Minute), expiry(now, 600))

	huge, ok := ParseDuration("100000000000d")
	require.True(t, ok)
	require.Equal(t, now.Add(time.Duration(math.MaxInt64)), expiry(now, huge))
}

func TestResolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	lookup := mocks.NewMockUserLookup(ctrl)
	ctx := context.Background()

	lookup.EXPECT().LookupUser(gomock.Any(), "@user").Return(kit.User{ID: 999, Username: "user"}, nil)
	lookup.EXPECT().LookupUser(gomock.Any(), "@missing").Return(kit.User{}, kit.ErrUserNotFound)
	lookup.EXPECT().LookupUser(gomock.Any(), "@flaky").Return(kit.User{}, errors.New("429 too many requests"))

	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12345", 12345, true},
		{"  12345 ", 12345, true},
		{"@user", 999, true},
		{"@missing", 0, false},
		{"@flaky", 0, false},
		{"", 0, false},
		{"   ", 0, false},
		{"user", 0, false},
		{"-5", 0, false},
		{"0", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tt := range tests {
		got, ok := Resolve(ctx, tt.in, lookup)
		require.Equal(t, tt.ok, ok, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}
}

func TestResolve_NilLookup(t *testing.T) {
	_, ok := Resolve(context.Background(), "@user", nil)
	require.False(t, ok)
}
