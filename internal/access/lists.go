package access

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/samber/lo"

	"modbot/internal/storage"
	logx "modbot/pkg/logx"
)

var (
	ErrAlreadyMember = errors.New("already a member")
	ErrNotMember     = errors.New("not a member")
)

// set is one persisted list. mu serializes the whole
// validate -> mutate -> save cycle, not just the map access.
type set struct {
	name storage.ListName
	mu   sync.RWMutex
	ids  map[int64]struct{}
}

func (s *set) has(id int64) bool {
	s.mu.RLock()
	_, ok := s.ids[id]
	s.mu.RUnlock()
	return ok
}

func (s *set) members() []int64 {
	s.mu.RLock()
	out := lo.Keys(s.ids)
	s.mu.RUnlock()
	slices.Sort(out)
	return out
}

// Lists holds the admin, blacklist and suspended-admin sets in memory and
// writes every change through to the store.
type Lists struct {
	store storage.ListStore
	log   logx.Logger
	sets  map[storage.ListName]*set
}

func NewLists(store storage.ListStore, log logx.Logger) *Lists {
	if log.IsZero() {
		log = logx.Nop()
	}
	l := &Lists{
		store: store,
		log:   log.With(logx.String("comp", "access")),
		sets:  make(map[storage.ListName]*set, 3),
	}
	for _, name := range storage.Lists() {
		l.sets[name] = &set{name: name, ids: map[int64]struct{}{}}
	}
	return l
}

// Load reads every list from the store. A list that cannot be read starts
// empty; the failure is logged and never returned.
func (l *Lists) Load(ctx context.Context) {
	for _, name := range storage.Lists() {
		s := l.sets[name]
		ids, err := l.store.Load(ctx, name)
		if err != nil {
			l.log.Warn("list load failed; starting empty", logx.String("list", string(name)), logx.Err(err))
			ids = nil
		}
		s.mu.Lock()
		s.ids = lo.SliceToMap(ids, func(id int64) (int64, struct{}) { return id, struct{}{} })
		s.mu.Unlock()
		l.log.Debug("list loaded", logx.String("list", string(name)), logx.Int("count", len(ids)))
	}
}

func (l *Lists) get(name storage.ListName) (*set, error) {
	s, ok := l.sets[name]
	if !ok {
		return nil, name.Validate()
	}
	return s, nil
}

func (l *Lists) Contains(name storage.ListName, id int64) bool {
	s, err := l.get(name)
	if err != nil {
		return false
	}
	return s.has(id)
}

// Members returns a sorted snapshot of the list.
func (l *Lists) Members(name storage.ListName) []int64 {
	s, err := l.get(name)
	if err != nil {
		return nil
	}
	return s.members()
}

// Add inserts id and persists the list. It returns ErrAlreadyMember without
// touching the store when id is present. If the save fails the insert is
// undone and the store error is returned.
func (l *Lists) Add(ctx context.Context, name storage.ListName, id int64) error {
	s, err := l.get(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return ErrAlreadyMember
	}
	s.ids[id] = struct{}{}
	if err := l.persistLocked(ctx, s); err != nil {
		delete(s.ids, id)
		return err
	}
	return nil
}

// Remove deletes id and persists the list, mirroring Add.
func (l *Lists) Remove(ctx context.Context, name storage.ListName, id int64) error {
	s, err := l.get(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; !ok {
		return ErrNotMember
	}
	delete(s.ids, id)
	if err := l.persistLocked(ctx, s); err != nil {
		s.ids[id] = struct{}{}
		return err
	}
	return nil
}

func (l *Lists) persistLocked(ctx context.Context, s *set) error {
	ids := lo.Keys(s.ids)
	slices.Sort(ids)
	if err := l.store.Save(ctx, s.name, ids); err != nil {
		l.log.Error("list save failed", logx.String("list", string(s.name)), logx.Err(err))
		return err
	}
	return nil
}
