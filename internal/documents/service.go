package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-tailor/internal/extract"
	"resume-tailor/internal/shared/storage/object"
	"resume-tailor/internal/shared/telemetry"
)

var ErrInvalidInput = errors.New("invalid input")

// Service extracts resume text from uploads and archives the originals.
type Service struct {
	Store object.Store
}

// Parse extracts the text of an upload. When a store is configured the file
// and its extracted text are archived; archive failures are logged only.
func (s *Service) Parse(ctx context.Context, up Upload) (Parsed, error) {
	if up.Data == nil {
		return Parsed{}, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}

	kind := extract.Detect(up.Data, up.ContentType, up.FileName)
	text, err := extract.Text(ctx, up.Data, up.ContentType, up.FileName)
	if err != nil {
		return Parsed{}, err
	}

	out := Parsed{Text: text, Kind: kind}
	if s.Store != nil {
		key, err := s.archive(ctx, up, kind, text)
		if err != nil {
			telemetry.Warn("documents.archive_failed", map[string]any{
				"file_name": up.FileName,
				"error":     err,
			})
		} else {
			out.Key = key
		}
	}

	telemetry.Info("documents.parsed", map[string]any{
		"kind":       kind,
		"size_bytes": len(up.Data),
		"text_len":   len(text),
		"key":        out.Key,
	})
	return out, nil
}

func (s *Service) archive(ctx context.Context, up Upload, kind, text string) (string, error) {
	name := up.FileName
	if strings.TrimSpace(name) == "" {
		name = "resume"
	}
	key, err := object.UploadKey(up.Data, name)
	if err != nil {
		return "", err
	}
	if _, err := s.Store.Put(ctx, key, kind, bytes.NewReader(up.Data)); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	if _, err := s.Store.Put(ctx, object.ExtractedKey(key), "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		return "", fmt.Errorf("store extracted text: %w", err)
	}
	return key, nil
}
