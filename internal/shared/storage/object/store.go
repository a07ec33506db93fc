package object

import (
	"context"
	"fmt"
	"io"
	"path"

	"resume-tailor/internal/shared/util"
)

// Store archives uploaded resumes and their extracted text.
type Store interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// UploadKey derives a content-addressed key for an uploaded file, so the same
// resume uploaded twice lands on the same object.
func UploadKey(content []byte, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join("uploads", util.HashKey(content), name), nil
}

// ExtractedKey is the key the extracted text of an upload is stored under.
func ExtractedKey(uploadKey string) string {
	return uploadKey + ".extracted.txt"
}
