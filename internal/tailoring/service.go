package tailoring

import (
	"context"
	"errors"
	"strings"
	"time"

	"resume-tailor/internal/history"
	"resume-tailor/internal/llm"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/telemetry"
)

// Recorder stores a PENDING history entry for a successful tailoring.
type Recorder interface {
	Append(ctx context.Context, in history.NewEntry) (history.Entry, error)
}

// Service runs the tailoring pipeline. A nil LLM means no usable API key was
// configured.
type Service struct {
	LLM       llm.Client
	History   Recorder
	Extractor MetadataExtractor
	Retry     RetryPolicy
	Provider  string
}

type Request struct {
	BaseResume     string
	JobDescription string
}

type Result struct {
	TailoredResume string
	CoverLetter    string
	EntryID        string
	Attempts       int
}

// Tailor generates a tailored resume and cover letter and records the attempt.
// Only successful generations are recorded.
func (s *Service) Tailor(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.BaseResume) == "" || strings.TrimSpace(req.JobDescription) == "" {
		return Result{}, ErrInvalidInput
	}
	if s.LLM == nil {
		telemetry.Error("tailor.misconfigured", map[string]any{"provider": s.Provider})
		return Result{}, ErrMisconfigured
	}

	start := time.Now()
	metrics.IncTailorStarted()

	prompt := BuildPrompt(req.JobDescription, req.BaseResume)
	raw, attempts, err := s.retryPolicy().Do(ctx, func(ctx context.Context) (string, error) {
		return s.LLM.GenerateJSON(ctx, prompt)
	})
	if err != nil {
		s.fail(start, attempts, err)
		return Result{}, err
	}

	out, err := ParseResponse(raw)
	if err != nil {
		s.fail(start, attempts, err)
		return Result{}, err
	}

	md := s.extractor().Extract(req.JobDescription)
	result := Result{
		TailoredResume: out.Resume,
		CoverLetter:    out.CoverLetter,
		Attempts:       attempts,
	}
	if s.History != nil {
		entry, err := s.History.Append(ctx, history.NewEntry{
			JobTitle:       md.JobTitle,
			Company:        md.Company,
			JobDescription: req.JobDescription,
			TailoredResume: out.Resume,
			CoverLetter:    out.CoverLetter,
		})
		if err != nil {
			telemetry.Error("tailor.history_append_failed", map[string]any{"error": err})
		} else {
			result.EntryID = entry.ID
		}
	}

	metrics.IncTailorSucceeded()
	metrics.ObserveTailorDurationMs(float64(time.Since(start).Milliseconds()))
	telemetry.Info("tailor.complete", map[string]any{
		"provider":    s.Provider,
		"attempts":    attempts,
		"entry_id":    result.EntryID,
		"job_title":   md.JobTitle,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return result, nil
}

func (s *Service) fail(start time.Time, attempts int, err error) {
	metrics.IncTailorFailed()
	metrics.ObserveTailorDurationMs(float64(time.Since(start).Milliseconds()))
	fields := map[string]any{
		"provider": s.Provider,
		"attempts": attempts,
		"error":    err,
	}
	var re *ResponseError
	if errors.As(err, &re) {
		fields["raw_len"] = len(re.Raw)
	}
	telemetry.Error("tailor.failed", fields)
}

func (s *Service) retryPolicy() RetryPolicy {
	if s.Retry.Attempts == 0 && s.Retry.BaseDelay == 0 {
		p := DefaultRetryPolicy()
		p.Sleep = s.Retry.Sleep
		return p
	}
	return s.Retry
}

func (s *Service) extractor() MetadataExtractor {
	if s.Extractor == nil {
		return FirstLineExtractor{}
	}
	return s.Extractor
}
