package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/dgraph-io/badger/v4"

	logx "modbot/pkg/logx"
)

type badgerStore struct {
	db  *badger.DB
	log logx.Logger
}

func openBadger(cfg Config, log logx.Logger) (ListStore, error) {
	dir := strings.TrimSpace(cfg.Path)
	if dir == "" {
		return nil, errors.New("badger path is required")
	}
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &badgerStore{db: db, log: log}, nil
}

func listKey(name ListName) []byte {
	return []byte("list:" + string(name))
}

func (s *badgerStore) Load(ctx context.Context, name ListName) ([]int64, error) {
	if err := name.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ids := []int64{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(listKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ids)
		})
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return nil, ErrClosed
	}
	if err != nil {
		return nil, err
	}
	return normalize(ids), nil
}

func (s *badgerStore) Save(ctx context.Context, name ListName, ids []int64) error {
	if err := name.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(normalize(ids))
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(listKey(name), b)
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrClosed
	}
	if err == nil {
		s.log.Debug("list saved", logx.String("list", string(name)), logx.Int("count", len(ids)))
	}
	return err
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}
