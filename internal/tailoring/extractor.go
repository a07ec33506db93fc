package tailoring

import (
	"strings"
	"unicode/utf8"

	"resume-tailor/internal/history"
)

// Metadata labels a history entry.
type Metadata struct {
	JobTitle string
	Company  string
}

// MetadataExtractor derives a job title and company from a job description.
type MetadataExtractor interface {
	Extract(jobDescription string) Metadata
}

const maxTitleRunes = 50

// FirstLineExtractor uses the first non-empty line as the title (truncated to
// 50 runes) and a "Company:" line, if any, as the company.
type FirstLineExtractor struct{}

func (FirstLineExtractor) Extract(jobDescription string) Metadata {
	md := Metadata{JobTitle: history.PlaceholderTitle, Company: history.PlaceholderCompany}

	titleSet := false
	for _, line := range strings.Split(jobDescription, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !titleSet {
			md.JobTitle = truncateRunes(line, maxTitleRunes)
			titleSet = true
		}
		if len(line) > len("company:") && strings.EqualFold(line[:len("company:")], "company:") {
			if company := strings.TrimSpace(line[len("company:"):]); company != "" {
				md.Company = company
				break
			}
		}
	}
	return md
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
