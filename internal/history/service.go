package history

import (
	"context"
	"time"

	"resume-tailor/internal/shared/telemetry"
)

// Service fronts a Repo for the tailoring and send pipelines and the dashboard.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

// List returns all entries, newest first. Read failures are logged and reported
// as an empty history.
func (s *Service) List(ctx context.Context) []Entry {
	entries, err := s.Repo.List(ctx)
	if err != nil {
		telemetry.Error("history.list_failed", map[string]any{"error": err})
		return []Entry{}
	}
	return entries
}

func (s *Service) Append(ctx context.Context, in NewEntry) (Entry, error) {
	return s.Repo.Append(ctx, in)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Entry, error) {
	return s.Repo.UpdateStatus(ctx, id, status)
}

// Dashboard summarizes the current history.
func (s *Service) Dashboard(ctx context.Context) Dashboard {
	return Summarize(s.List(ctx), s.now())
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
