package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"angleYield/internal/model"
)

// StdoutPath selects standard output instead of a file.
const StdoutPath = "-"

// JsonlStorage writes pools as JSON lines. Each call replaces the file unless appendMode is set.
type JsonlStorage struct {
	path       string
	appendMode bool
	stdout     io.Writer
	mu         sync.Mutex
}

func NewJsonlStorage(path string, appendMode bool) *JsonlStorage {
	return &JsonlStorage{path: path, appendMode: appendMode, stdout: os.Stdout}
}

// PutPools writes one line per pool.
func (s *JsonlStorage) PutPools(_ context.Context, pools []model.Pool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == StdoutPath || s.path == "" {
		return writePools(s.stdout, pools)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if s.appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(s.path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	return writePools(file, pools)
}

func writePools(w io.Writer, pools []model.Pool) error {
	writer := bufio.NewWriter(w)
	for _, pool := range pools {
		line, err := json.Marshal(pool)
		if err != nil {
			return fmt.Errorf("marshal pool: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write pool: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
