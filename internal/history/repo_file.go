package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// fileLocks holds one mutex per absolute history file path so every FileRepo
// in the process pointing at the same file shares a lock.
var fileLocks sync.Map

// FileRepo stores entries as a single indented JSON array, rewritten on every mutation.
type FileRepo struct {
	path string
	mu   *sync.Mutex
}

// NewFileRepo returns a FileRepo backed by path. The file is created on first write.
func NewFileRepo(path string) *FileRepo {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}
	mu, _ := fileLocks.LoadOrStore(key, &sync.Mutex{})
	return &FileRepo{path: path, mu: mu.(*sync.Mutex)}
}

func (r *FileRepo) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

func (r *FileRepo) Append(ctx context.Context, in NewEntry) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.read()
	if err != nil {
		return Entry{}, err
	}
	entry := buildEntry(in)
	entries = append([]Entry{entry}, entries...)
	if err := r.write(entries); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (r *FileRepo) UpdateStatus(ctx context.Context, id string, status Status) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	if !status.Terminal() {
		return Entry{}, ErrInvalidStatus
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.read()
	if err != nil {
		return Entry{}, err
	}
	idx := -1
	for i := range entries {
		if entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Entry{}, ErrNotFound
	}
	entries[idx].Status = status
	if err := r.write(entries); err != nil {
		return Entry{}, err
	}
	return entries[idx], nil
}

// read loads the whole file. A missing or blank file is an empty history.
func (r *FileRepo) read() ([]Entry, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []Entry{}, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, r.path, err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// write replaces the file atomically through a temp file in the same directory.
func (r *FileRepo) write(entries []Entry) error {
	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		cleanup()
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}
