package history

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"resume-tailor/internal/shared/telemetry"
)

// Status is the delivery state of an application.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

const (
	PlaceholderTitle   = "Untitled Position"
	PlaceholderCompany = "Unknown Company"

	previewRunes = 200
)

// ParseStatus accepts the canonical values as well as the Draft/Sent/Failed
// names written by earlier history files.
func ParseStatus(raw string) (Status, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PENDING", "DRAFT":
		return StatusPending, true
	case "SUCCESS", "SENT":
		return StatusSuccess, true
	case "FAILURE", "FAILED":
		return StatusFailure, true
	}
	return "", false
}

// Terminal reports whether s is a delivery outcome. Only terminal statuses can
// be written by UpdateStatus; PENDING is set once, by Append.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailure
}

// UnmarshalJSON normalizes legacy names. An unrecognised value is read as
// PENDING so one bad entry does not make the whole history unreadable.
func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, ok := ParseStatus(raw)
	if !ok {
		telemetry.Warn("history.unknown_status", map[string]any{"status": raw})
		parsed = StatusPending
	}
	*s = parsed
	return nil
}

// Entry is one tailoring attempt and its delivery outcome.
type Entry struct {
	ID             string    `json:"id"`
	JobTitle       string    `json:"jobTitle"`
	Company        string    `json:"company"`
	CreatedAt      time.Time `json:"date"`
	Status         Status    `json:"status"`
	JobDescription string    `json:"jobDescription"`
	TailoredResume string    `json:"tailoredResume"`
	CoverLetter    string    `json:"coverLetter"`
	ResumePreview  string    `json:"resumePreview"`
}

// NewEntry carries the caller-provided fields of an entry; Append assigns the rest.
type NewEntry struct {
	JobTitle       string
	Company        string
	JobDescription string
	TailoredResume string
	CoverLetter    string
}

var now = func() time.Time { return time.Now().UTC() }

func buildEntry(in NewEntry) Entry {
	title := strings.TrimSpace(in.JobTitle)
	if title == "" {
		title = PlaceholderTitle
	}
	company := strings.TrimSpace(in.Company)
	if company == "" {
		company = PlaceholderCompany
	}
	return Entry{
		ID:             uuid.NewString(),
		JobTitle:       title,
		Company:        company,
		CreatedAt:      now(),
		Status:         StatusPending,
		JobDescription: in.JobDescription,
		TailoredResume: in.TailoredResume,
		CoverLetter:    in.CoverLetter,
		ResumePreview:  Preview(in.TailoredResume),
	}
}

// Preview returns the first 200 runes of text.
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= previewRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewRunes])
}
