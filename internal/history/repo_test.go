package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repoImplementations(t *testing.T) map[string]Repo {
	t.Helper()
	return map[string]Repo{
		"memory": NewMemoryRepo(),
		"file":   NewFileRepo(filepath.Join(t.TempDir(), "data", "history.json")),
	}
}

func TestRepoAppendPlacesNewestFirst(t *testing.T) {
	for name, repo := range repoImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			first, err := repo.Append(ctx, NewEntry{JobTitle: "Backend Engineer"})
			require.NoError(t, err)
			second, err := repo.Append(ctx, NewEntry{JobTitle: "Data Engineer"})
			require.NoError(t, err)
			assert.NotEqual(t, first.ID, second.ID)

			entries, err := repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, entries, 2)
			assert.Equal(t, second.ID, entries[0].ID)
			assert.Equal(t, first.ID, entries[1].ID)
			assert.Equal(t, StatusPending, entries[0].Status)
		})
	}
}

func TestRepoUpdateStatusChangesOnlyStatus(t *testing.T) {
	for name, repo := range repoImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created, err := repo.Append(ctx, NewEntry{
				JobTitle:       "Backend Engineer",
				Company:        "Acme",
				JobDescription: "Go, Postgres",
				TailoredResume: "RESUME",
				CoverLetter:    "LETTER",
			})
			require.NoError(t, err)

			updated, err := repo.UpdateStatus(ctx, created.ID, StatusSuccess)
			require.NoError(t, err)
			assert.Equal(t, StatusSuccess, updated.Status)

			want := created
			want.Status = StatusSuccess
			assert.Equal(t, want.ID, updated.ID)
			assert.True(t, want.CreatedAt.Equal(updated.CreatedAt))
			updated.CreatedAt = want.CreatedAt
			assert.Equal(t, want, updated)
		})
	}
}

func TestRepoUpdateStatusUnknownID(t *testing.T) {
	for name, repo := range repoImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := repo.Append(ctx, NewEntry{})
			require.NoError(t, err)

			_, err = repo.UpdateStatus(ctx, "missing", StatusFailure)
			assert.ErrorIs(t, err, ErrNotFound)

			entries, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, StatusPending, entries[0].Status)
		})
	}
}

func TestRepoRejectsInvalidStatus(t *testing.T) {
	for name, repo := range repoImplementations(t) {
		t.Run(name, func(t *testing.T) {
			created, err := repo.Append(context.Background(), NewEntry{})
			require.NoError(t, err)
			_, err = repo.UpdateStatus(context.Background(), created.ID, Status("Sent"))
			assert.ErrorIs(t, err, ErrInvalidStatus)
			assert.ErrorIs(t, err, ErrInvalidInput)

			_, err = repo.UpdateStatus(context.Background(), created.ID, StatusPending)
			assert.ErrorIs(t, err, ErrInvalidStatus)
		})
	}
}

func TestRepoNeverReturnsToPending(t *testing.T) {
	for name, repo := range repoImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created, err := repo.Append(ctx, NewEntry{})
			require.NoError(t, err)
			_, err = repo.UpdateStatus(ctx, created.ID, StatusSuccess)
			require.NoError(t, err)

			_, err = repo.UpdateStatus(ctx, created.ID, StatusPending)
			assert.ErrorIs(t, err, ErrInvalidStatus)

			entries, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, StatusSuccess, entries[0].Status)
		})
	}
}

func TestRepoLastWriteWins(t *testing.T) {
	for name, repo := range repoImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created, err := repo.Append(ctx, NewEntry{})
			require.NoError(t, err)
			_, err = repo.UpdateStatus(ctx, created.ID, StatusSuccess)
			require.NoError(t, err)
			_, err = repo.UpdateStatus(ctx, created.ID, StatusFailure)
			require.NoError(t, err)

			entries, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, StatusFailure, entries[0].Status)
		})
	}
}

func TestFileRepoConcurrentAppendsAreNotLost(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Separate repos on the same path share the process-wide lock.
			repo := NewFileRepo(path)
			_, err := repo.Append(ctx, NewEntry{JobTitle: fmt.Sprintf("Job %d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	entries, err := NewFileRepo(path).List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}

func TestFileRepoMissingFileIsEmpty(t *testing.T) {
	repo := NewFileRepo(filepath.Join(t.TempDir(), "none.json"))
	entries, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileRepoNeverOverwritesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	repo := NewFileRepo(path)

	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = repo.Append(context.Background(), NewEntry{})
	assert.ErrorIs(t, err, ErrCorrupt)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestFileRepoToleratesUnknownStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	doc := `[{"id":"a","jobTitle":"Backend Engineer","company":"Acme","date":"2026-10-13T09:00:00Z","status":"Archived"}]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	repo := NewFileRepo(path)

	entries, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, StatusPending, entries[0].Status)

	_, err = repo.Append(context.Background(), NewEntry{JobTitle: "Data Engineer"})
	require.NoError(t, err)
	entries, err = repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestFileRepoReadsLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	legacy := `[
  {"id":"b","jobTitle":"Data Engineer","company":"Unknown Company","date":"2026-10-14T09:00:00.000Z","status":"Draft","resumePreview":"..."},
  {"id":"a","jobTitle":"Backend Engineer","company":"Acme","date":"2026-10-13T09:00:00.000Z","status":"Sent","resumePreview":"..."}
]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))
	repo := NewFileRepo(path)

	entries, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, StatusPending, entries[0].Status)
	assert.Equal(t, StatusSuccess, entries[1].Status)

	updated, err := repo.UpdateStatus(context.Background(), "b", StatusFailure)
	require.NoError(t, err)
	assert.Equal(t, StatusFailure, updated.Status)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status": "FAILURE"`)
	assert.Contains(t, string(data), `"status": "SUCCESS"`)
}
