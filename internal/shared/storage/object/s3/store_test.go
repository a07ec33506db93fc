package s3

import (
	"testing"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "user/file.pdf", want: "user/file.pdf"},
		{name: "simple prefix", prefix: "root", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "user/file.pdf", want: "root/user/file.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/user/file.pdf", want: "root/user/file.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "user/file.pdf", want: "root/sub/user/file.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestPutInputEncryption(t *testing.T) {
	withKMS := &Store{bucket: "archive", prefix: "resumes", kmsKeyID: "kms-1"}
	in := withKMS.putInput("uploads/a/cv.pdf", "application/pdf", nil)
	if *in.Key != "resumes/uploads/a/cv.pdf" {
		t.Fatalf("unexpected key %q", *in.Key)
	}
	if in.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || *in.SSEKMSKeyId != "kms-1" {
		t.Fatalf("expected kms encryption, got %v", in.ServerSideEncryption)
	}

	plain := &Store{bucket: "archive"}
	in = plain.putInput("k", "", nil)
	if in.ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256 encryption, got %v", in.ServerSideEncryption)
	}
	if *in.ContentType != "application/octet-stream" {
		t.Fatalf("unexpected content type %q", *in.ContentType)
	}
}
