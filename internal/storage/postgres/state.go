package postgres

import (
	"context"

	"angleYield/internal/storage"
)

// DBStateStore stores state in the adapter_state table.
type DBStateStore struct {
	Store *Store
	Name  string
}

func (s *DBStateStore) Load(ctx context.Context) (storage.RunState, bool, error) {
	if s == nil || s.Store == nil {
		return storage.RunState{}, false, nil
	}
	return s.Store.LoadRun(ctx, s.Name)
}

func (s *DBStateStore) Save(ctx context.Context, state storage.RunState) error {
	if s == nil || s.Store == nil {
		return nil
	}
	return s.Store.SaveRun(ctx, s.Name, state.LastRunAt, state.PoolCount)
}
