package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	logx "modbot/pkg/logx"
)

func openDriver(t *testing.T, driver string) ListStore {
	t.Helper()
	dir := t.TempDir()
	path := dir
	if driver == "sqlite" {
		path = filepath.Join(dir, "lists.db")
	}
	st, err := Open(Config{Driver: driver, Path: path}, logx.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestDrivers_RoundTrip(t *testing.T) {
	for _, driver := range []string{"file", "sqlite", "badger", "memory"} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			st := openDriver(t, driver)

			for _, name := range Lists() {
				ids, err := st.Load(ctx, name)
				require.NoError(t, err)
				require.Empty(t, ids)
			}

			require.NoError(t, st.Save(ctx, ListAdmins, []int64{42, 7, 42}))
			require.NoError(t, st.Save(ctx, ListBlacklist, []int64{-100}))

			got, err := st.Load(ctx, ListAdmins)
			require.NoError(t, err)
			require.Equal(t, []int64{7, 42}, got)

			got, err = st.Load(ctx, ListBlacklist)
			require.NoError(t, err)
			require.Equal(t, []int64{-100}, got)

			// Overwrite down to empty.
			require.NoError(t, st.Save(ctx, ListAdmins, nil))
			got, err = st.Load(ctx, ListAdmins)
			require.NoError(t, err)
			require.Empty(t, got)

			got, err = st.Load(ctx, ListBlacklistedAdmins)
			require.NoError(t, err)
			require.Empty(t, got)
		})
	}
}

func TestDrivers_UnknownList(t *testing.T) {
	for _, driver := range []string{"file", "sqlite", "badger", "memory"} {
		t.Run(driver, func(t *testing.T) {
			st := openDriver(t, driver)
			_, err := st.Load(context.Background(), ListName("owners"))
			require.ErrorIs(t, err, ErrUnknownList)
			require.ErrorIs(t, st.Save(context.Background(), ListName("owners"), []int64{1}), ErrUnknownList)
		})
	}
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	st, err := Open(Config{Driver: "file", Path: dir}, logx.Nop())
	require.NoError(t, err)
	require.NoError(t, st.Save(ctx, ListBlacklistedAdmins, []int64{3, 1}))
	require.NoError(t, st.Close())

	b, err := os.ReadFile(filepath.Join(dir, "blacklisted_admins.json"))
	require.NoError(t, err)
	require.JSONEq(t, `[1,3]`, string(b))

	st, err = Open(Config{Driver: "file", Path: dir}, logx.Nop())
	require.NoError(t, err)
	defer st.Close()
	got, err := st.Load(ctx, ListBlacklistedAdmins)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 3}, got)
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "admins.json"), []byte("{not json"), 0o600))

	st, err := Open(Config{Driver: "file", Path: dir}, logx.Nop())
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Load(context.Background(), ListAdmins)
	require.Error(t, err)

	// Other lists are unaffected.
	ids, err := st.Load(context.Background(), ListBlacklist)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestFileStore_Closed(t *testing.T) {
	st := openDriver(t, "file")
	require.NoError(t, st.Close())
	_, err := st.Load(context.Background(), ListAdmins)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, st.Save(context.Background(), ListAdmins, nil), ErrClosed)
}

func TestMemory_FailSave(t *testing.T) {
	m := NewMemory()
	boom := errors.New("disk full")
	m.FailSave = boom
	require.ErrorIs(t, m.Save(context.Background(), ListAdmins, []int64{1}), boom)

	ids, err := m.Load(context.Background(), ListAdmins)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "mongo"}, logx.Nop())
	require.Error(t, err)
}
