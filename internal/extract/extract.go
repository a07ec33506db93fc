package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// ErrUnsupported is returned for payloads that are neither PDF, DOCX nor UTF-8 text.
var ErrUnsupported = errors.New("unsupported file type")

var (
	pageBreak   = regexp.MustCompile(`----------------Page \(\d+\) Break----------------`)
	newlineRuns = regexp.MustCompile(`\n+`)
)

// Text extracts the plain text of an uploaded resume and cleans it.
// Libraries used: github.com/ledongthuc/pdf (PDF) and github.com/nguyenthenguyen/docx (DOCX).
func Text(ctx context.Context, data []byte, mimeType, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	kind := Detect(data, mimeType, fileName)

	var (
		raw string
		err error
	)
	switch kind {
	case MimePDF:
		raw, err = extractPDF(data)
	case MimeDOCX:
		raw, err = extractDOCX(data)
	case MimeText:
		raw = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, kind)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", kind, err)
	}
	return Clean(raw), nil
}

// Clean drops page-break markers, collapses newline runs and trims.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = pageBreak.ReplaceAllString(text, "\n")
	text = newlineRuns.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

// Detect resolves the document kind from the declared MIME type, the file
// extension and the leading bytes. Anything that is not PDF or DOCX is text
// when it is valid UTF-8.
func Detect(data []byte, mimeType, fileName string) string {
	declared := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	ext := strings.ToLower(filepath.Ext(fileName))

	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return MimePDF
	}
	if declared == MimePDF || ext == ".pdf" {
		// Declared as PDF without the magic number; let the parser decide.
		return MimePDF
	}

	sniffed := http.DetectContentType(data)
	if sniffed == "application/zip" || declared == MimeDOCX || declared == "application/zip" || ext == ".docx" {
		if isDOCX(data) {
			return MimeDOCX
		}
	}

	if utf8.Valid(data) {
		return MimeText
	}
	if declared == "" {
		return sniffed
	}
	return declared
}

func isDOCX(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()
	return stripDocxXML(doc.Editable().GetContent()), nil
}

// stripDocxXML keeps character data and turns paragraph and break ends into newlines.
func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteString("\t")
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
