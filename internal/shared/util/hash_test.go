package util

import (
	"strings"
	"testing"
)

func TestHashKey(t *testing.T) {
	content := []byte("JANE DOE\nEXPERIENCE")
	got := HashKey(content)
	if got != HashKey(content) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}

func TestSanitizeFileName(t *testing.T) {
	got, err := SanitizeFileName(" my/cv\\final.pdf ")
	if err != nil {
		t.Fatalf("SanitizeFileName: %v", err)
	}
	if got != "my_cv_final.pdf" {
		t.Fatalf("unexpected name %q", got)
	}
	got, err = SanitizeFileName("Jane\r\nBcc: x\"cv\".pdf")
	if err != nil || got != "JaneBcc: xcv.pdf" {
		t.Fatalf("unexpected result %q, %v", got, err)
	}
	long := strings.Repeat("a", 200) + ".pdf"
	if got, _ := SanitizeFileName(long); len(got) != 128 || !strings.HasSuffix(got, ".pdf") {
		t.Fatalf("expected 128 chars keeping the extension, got %d", len(got))
	}
	for _, bad := range []string{"", "  ", "../x.pdf", "\n\t"} {
		if _, err := SanitizeFileName(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
