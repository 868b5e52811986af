package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunState is the last successful publication of an adapter.
type RunState struct {
	LastRunAt time.Time `json:"last_run_at"`
	PoolCount int       `json:"pool_count"`
}

// StateStore persists the last successful run.
type StateStore interface {
	Load(ctx context.Context) (RunState, bool, error)
	Save(ctx context.Context, state RunState) error
}

// FileStateStore stores state in a local JSON file.
type FileStateStore struct {
	Path string
}

func (s *FileStateStore) Load(ctx context.Context) (RunState, bool, error) {
	if s == nil || s.Path == "" {
		return RunState{}, false, nil
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return RunState{}, false, nil
		}
		return RunState{}, false, fmt.Errorf("read state: %w", err)
	}

	var state RunState
	if err := json.Unmarshal(data, &state); err != nil {
		return RunState{}, false, fmt.Errorf("parse state: %w", err)
	}
	return state, true, nil
}

func (s *FileStateStore) Save(ctx context.Context, state RunState) error {
	if s == nil || s.Path == "" {
		return nil
	}
	dir := filepath.Dir(s.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	state.LastRunAt = state.LastRunAt.UTC()
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state tmp: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}
