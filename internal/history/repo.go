package history

import "context"

// Repo persists history entries, most recent first.
type Repo interface {
	List(ctx context.Context) ([]Entry, error)
	Append(ctx context.Context, in NewEntry) (Entry, error)
	UpdateStatus(ctx context.Context, id string, status Status) (Entry, error)
}
