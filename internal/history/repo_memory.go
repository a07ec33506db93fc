package history

import (
	"context"
	"sync"
)

// MemoryRepo stores entries in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *MemoryRepo) Append(ctx context.Context, in NewEntry) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	entry := buildEntry(in)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append([]Entry{entry}, r.entries...)
	return entry, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id string, status Status) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}
	if !status.Terminal() {
		return Entry{}, ErrInvalidStatus
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries[i].Status = status
			return r.entries[i], nil
		}
	}
	return Entry{}, ErrNotFound
}
