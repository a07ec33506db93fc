package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Kind selects the layout used for a document.
type Kind string

const (
	KindResume      Kind = "resume"
	KindCoverLetter Kind = "coverLetter"
)

// Renderer lays out plain text as PDF.
type Renderer struct {
	style Style
}

func New(style Style) *Renderer {
	return &Renderer{style: style}
}

// Render dispatches on kind.
func (r *Renderer) Render(kind Kind, text string) ([]byte, error) {
	switch kind {
	case KindResume:
		return r.Resume(text)
	case KindCoverLetter:
		return r.CoverLetter(text)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Resume renders a resume: section headers bold and underlined, other lines
// wrapped to the body width.
func (r *Renderer) Resume(text string) ([]byte, error) {
	s := r.style
	pdf := r.newDoc()
	y := s.TopY

	for _, line := range strings.Split(CleanText(text), "\n") {
		if y > s.PageBreakY {
			pdf.AddPage()
			y = s.TopY
		}
		if IsHeader(line) {
			pdf.SetFont(s.FontFamily, "B", s.HeaderSize)
			pdf.Text(s.MarginX, y, strings.TrimSpace(line))
			pdf.Line(s.MarginX, y+s.RuleOffset, s.RuleEndX, y+s.RuleOffset)
			y += s.HeaderAdvance
			continue
		}

		pdf.SetFont(s.FontFamily, "", s.BodySize)
		for _, wrapped := range splitLine(pdf, line, s.BodyWidth) {
			if y > s.PageBreakY {
				pdf.AddPage()
				y = s.TopY
			}
			pdf.Text(s.MarginX, y, wrapped)
			y += s.LineHeight
		}
	}
	return output(pdf)
}

// CoverLetter renders a letter as wrapped body text.
func (r *Renderer) CoverLetter(text string) ([]byte, error) {
	s := r.style
	pdf := r.newDoc()
	pdf.SetFont(s.FontFamily, "", s.BodySize)
	y := s.LetterTopY

	for _, line := range strings.Split(CleanText(text), "\n") {
		for _, wrapped := range splitLine(pdf, line, s.LetterWidth) {
			if y > s.PageBreakY {
				pdf.AddPage()
				pdf.SetFont(s.FontFamily, "", s.BodySize)
				y = s.LetterTopY
			}
			pdf.Text(s.LetterX, y, wrapped)
			y += s.LineHeight
		}
	}
	return output(pdf)
}

func (r *Renderer) newDoc() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetLineWidth(r.style.RuleWidth)
	pdf.AddPage()
	return pdf
}

// splitLine wraps line to width. A blank line still occupies one row.
func splitLine(pdf *fpdf.Fpdf, line string, width float64) []string {
	if strings.TrimSpace(line) == "" {
		return []string{""}
	}
	parts := pdf.SplitText(line, width)
	if len(parts) == 0 {
		return []string{""}
	}
	return parts
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// IsHeader reports whether line looks like a section heading: longer than two
// characters once trimmed, entirely upper case with at least one letter, and
// not a bullet.
func IsHeader(line string) bool {
	t := strings.TrimSpace(line)
	if len(t) <= 2 || strings.HasPrefix(t, "-") {
		return false
	}
	if t != strings.ToUpper(t) {
		return false
	}
	return strings.ContainsAny(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
}

// CleanText drops characters the core PDF fonts cannot encode and normalizes
// line endings.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\t", "    ")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || (r >= 0x20 && r < 0x7f) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
