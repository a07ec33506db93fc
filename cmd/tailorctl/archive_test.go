package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"resume-tailor/internal/shared/storage/object"
	localstore "resume-tailor/internal/shared/storage/object/local"
)

func TestCopyArchivedReadsExtractedText(t *testing.T) {
	ctx := context.Background()
	store := localstore.New(t.TempDir())
	key, err := object.UploadKey([]byte("%PDF-1.4"), "resume.pdf")
	if err != nil {
		t.Fatalf("upload key: %v", err)
	}
	if _, err := store.Put(ctx, key, "application/pdf", strings.NewReader("%PDF-1.4")); err != nil {
		t.Fatalf("put upload: %v", err)
	}
	if _, err := store.Put(ctx, object.ExtractedKey(key), "text/plain", strings.NewReader("JANE DOE")); err != nil {
		t.Fatalf("put extracted: %v", err)
	}

	var out bytes.Buffer
	if err := copyArchived(ctx, store, key, true, &out); err != nil {
		t.Fatalf("copy extracted: %v", err)
	}
	if out.String() != "JANE DOE" {
		t.Fatalf("unexpected extracted text %q", out.String())
	}

	out.Reset()
	if err := copyArchived(ctx, store, key, false, &out); err != nil {
		t.Fatalf("copy upload: %v", err)
	}
	if out.String() != "%PDF-1.4" {
		t.Fatalf("unexpected upload body %q", out.String())
	}
}

func TestCopyArchivedMissingKey(t *testing.T) {
	store := localstore.New(t.TempDir())
	var out bytes.Buffer
	err := copyArchived(context.Background(), store, "uploads/missing/resume.pdf", false, &out)
	if err == nil {
		t.Fatal("expected error for missing key")
	}
	if !strings.Contains(err.Error(), "uploads/missing/resume.pdf") {
		t.Fatalf("error should name the key: %v", err)
	}
}
