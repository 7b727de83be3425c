package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
)

var (
	ErrClosed      = errors.New("storage closed")
	ErrUnknownList = errors.New("unknown list")
)

// ListName names one persisted set of user ids.
type ListName string

const (
	ListAdmins            ListName = "admins"
	ListBlacklist         ListName = "blacklist"
	ListBlacklistedAdmins ListName = "blacklisted_admins"
)

// Lists returns every list the bot persists, in load order.
func Lists() []ListName {
	return []ListName{ListAdmins, ListBlacklist, ListBlacklistedAdmins}
}

func (n ListName) Validate() error {
	if !slices.Contains(Lists(), n) {
		return fmt.Errorf("%w: %q", ErrUnknownList, string(n))
	}
	return nil
}

// ListStore reads and writes whole lists.
//
// Load of a list that was never saved returns an empty slice and no error.
// Save overwrites the previous contents.
type ListStore interface {
	Load(ctx context.Context, name ListName) ([]int64, error)
	Save(ctx context.Context, name ListName, ids []int64) error
	Close() error
}

// Config configures storage.
//
// Driver values: "file" (default), "sqlite", "badger", "memory".
type Config struct {
	Driver      string
	Path        string        // directory (file, badger) or database file (sqlite)
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// normalize dedups and sorts ids so every driver writes the same bytes for
// the same set.
func normalize(ids []int64) []int64 {
	out := lo.Uniq(ids)
	slices.Sort(out)
	return out
}
