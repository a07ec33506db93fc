package tailoring

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-tailor/internal/history"
)

type scriptedLLM struct {
	mu      sync.Mutex
	outputs []string
	errs    []error
	prompts []string
}

func (s *scriptedLLM) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(s.outputs) {
		return s.outputs[i], nil
	}
	return s.outputs[len(s.outputs)-1], nil
}

func (s *scriptedLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

type failingRecorder struct{}

func (failingRecorder) Append(ctx context.Context, in history.NewEntry) (history.Entry, error) {
	return history.Entry{}, errors.New("disk full")
}

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func newService(model *scriptedLLM, repo Recorder) *Service {
	svc := &Service{History: repo, Retry: RetryPolicy{Attempts: 3, BaseDelay: 500 * time.Millisecond, Sleep: noSleep}}
	if model != nil {
		svc.LLM = model
	}
	return svc
}

const validOutput = "```json\n{\"resume\":\"JANE DOE\\nEXPERIENCE\\n- Shipped Go services\",\"coverLetter\":\"Dear hiring manager,\"}\n```"

func TestTailorRecordsPendingEntryOnce(t *testing.T) {
	repo := history.NewMemoryRepo()
	model := &scriptedLLM{outputs: []string{validOutput}}
	svc := newService(model, repo)

	res, err := svc.Tailor(context.Background(), Request{
		BaseResume:     "JANE DOE\nEngineer",
		JobDescription: "Senior Go Engineer\nCompany: Acme\nBuild APIs.",
	})
	require.NoError(t, err)
	assert.Equal(t, "JANE DOE\nEXPERIENCE\n- Shipped Go services", res.TailoredResume)
	assert.Equal(t, "Dear hiring manager,", res.CoverLetter)
	assert.NotEmpty(t, res.EntryID)
	assert.Equal(t, 1, res.Attempts)

	entries, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, res.EntryID, e.ID)
	assert.Equal(t, history.StatusPending, e.Status)
	assert.Equal(t, "Senior Go Engineer", e.JobTitle)
	assert.Equal(t, "Acme", e.Company)
	assert.Equal(t, res.TailoredResume, e.TailoredResume)
	assert.Equal(t, res.CoverLetter, e.CoverLetter)
	assert.Equal(t, res.TailoredResume, e.ResumePreview)

	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "Senior Go Engineer")
	assert.Contains(t, model.prompts[0], "JANE DOE\nEngineer")
}

func TestTailorValidatesInputBeforeConfiguration(t *testing.T) {
	svc := newService(nil, history.NewMemoryRepo())
	for _, req := range []Request{
		{BaseResume: "", JobDescription: "jd"},
		{BaseResume: "resume", JobDescription: "  "},
	} {
		_, err := svc.Tailor(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestTailorMisconfigured(t *testing.T) {
	repo := history.NewMemoryRepo()
	svc := newService(nil, repo)
	_, err := svc.Tailor(context.Background(), Request{BaseResume: "r", JobDescription: "jd"})
	assert.ErrorIs(t, err, ErrMisconfigured)

	entries, _ := repo.List(context.Background())
	assert.Empty(t, entries)
}

func TestTailorRetriesTransientFailures(t *testing.T) {
	repo := history.NewMemoryRepo()
	model := &scriptedLLM{
		errs:    []error{syscall.ECONNREFUSED, syscall.ETIMEDOUT, nil},
		outputs: []string{validOutput},
	}
	svc := newService(model, repo)

	res, err := svc.Tailor(context.Background(), Request{BaseResume: "r", JobDescription: "jd"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, model.calls())

	entries, _ := repo.List(context.Background())
	assert.Len(t, entries, 1)
}

func TestTailorFailuresNeverCreateEntries(t *testing.T) {
	cases := map[string]struct {
		model   *scriptedLLM
		wantErr error
		calls   int
	}{
		"non transient": {
			model:   &scriptedLLM{errs: []error{errors.New("Error 403: permission denied")}},
			wantErr: nil,
			calls:   1,
		},
		"malformed": {
			model:   &scriptedLLM{outputs: []string{"no json here"}},
			wantErr: ErrResponseFormat,
			calls:   1,
		},
		"missing field": {
			model:   &scriptedLLM{outputs: []string{`{"resume":"R"}`}},
			wantErr: ErrResponseShape,
			calls:   1,
		},
		"exhausted": {
			model:   &scriptedLLM{errs: []error{syscall.ECONNREFUSED, syscall.ECONNREFUSED, syscall.ECONNREFUSED}},
			wantErr: syscall.ECONNREFUSED,
			calls:   3,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			repo := history.NewMemoryRepo()
			svc := newService(tc.model, repo)

			_, err := svc.Tailor(context.Background(), Request{BaseResume: "r", JobDescription: "jd"})
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			assert.Equal(t, tc.calls, tc.model.calls())

			entries, _ := repo.List(context.Background())
			assert.Empty(t, entries)
		})
	}
}

func TestTailorReturnsContentWhenHistoryAppendFails(t *testing.T) {
	svc := newService(&scriptedLLM{outputs: []string{validOutput}}, failingRecorder{})

	res, err := svc.Tailor(context.Background(), Request{BaseResume: "r", JobDescription: "jd"})
	require.NoError(t, err)
	assert.Empty(t, res.EntryID)
	assert.NotEmpty(t, res.TailoredResume)
}

type fixedExtractor struct{}

func (fixedExtractor) Extract(string) Metadata {
	return Metadata{JobTitle: "Staff Engineer", Company: "Initech"}
}

func TestTailorUsesInjectedExtractor(t *testing.T) {
	repo := history.NewMemoryRepo()
	svc := newService(&scriptedLLM{outputs: []string{validOutput}}, repo)
	svc.Extractor = fixedExtractor{}

	_, err := svc.Tailor(context.Background(), Request{BaseResume: "r", JobDescription: "jd"})
	require.NoError(t, err)

	entries, _ := repo.List(context.Background())
	require.Len(t, entries, 1)
	assert.Equal(t, "Staff Engineer", entries[0].JobTitle)
	assert.Equal(t, "Initech", entries[0].Company)
}
