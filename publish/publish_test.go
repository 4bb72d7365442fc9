package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/crucible-build/shrinkwrap/metrics"
)

type fakePutter struct {
	keys    []string
	bodies  map[string][]byte
	failKey string
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	key := *params.Key
	if f.failKey != "" && key == f.failKey {
		return nil, errors.New("access denied")
	}
	buf := make([]byte, 0)
	tmp := make([]byte, 4096)
	for {
		n, err := params.Body.Read(tmp)
		buf = append(buf, tmp[:n]...)
		if err != nil {
			break
		}
	}
	if f.bodies == nil {
		f.bodies = make(map[string][]byte)
	}
	f.keys = append(f.keys, key)
	f.bodies[key] = buf
	return &s3.PutObjectOutput{}, nil
}

func writeReport(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write report file: %v", err)
	}
	return p
}

func TestPublishFiles_UploadsExistingReports(t *testing.T) {
	dir := t.TempDir()
	mapping := writeReport(t, dir, "mapping.txt", "a.B -> a.a:\n")
	seeds := writeReport(t, dir, "seeds.txt", "a.B\n")

	fake := &fakePutter{}
	p := newPublisherWithClient(fake, S3Config{Bucket: "reports", Prefix: "shrinkwrap"}, metrics.NewCollector("inv-20260831-120000-000000001", "proguard.jar"))

	keys, err := p.PublishFiles(context.Background(), "inv-20260831-120000-000000001", []string{mapping, seeds})
	if err != nil {
		t.Fatalf("unexpected publish error: %v", err)
	}

	want := []string{
		"shrinkwrap/inv-20260831-120000-000000001/mapping.txt",
		"shrinkwrap/inv-20260831-120000-000000001/seeds.txt",
	}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d: %v", len(want), len(keys), keys)
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("key %d: expected %q, got %q", i, k, keys[i])
		}
	}
	if got := string(fake.bodies[want[0]]); got != "a.B -> a.a:\n" {
		t.Errorf("uploaded body mismatch: %q", got)
	}
}

func TestPublishFiles_SkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	mapping := writeReport(t, dir, "mapping.txt", "x")
	missing := filepath.Join(dir, "usage.txt")

	fake := &fakePutter{}
	collector := metrics.NewCollector("inv-1", "proguard.jar")
	p := newPublisherWithClient(fake, S3Config{Bucket: "reports"}, collector)

	keys, err := p.PublishFiles(context.Background(), "inv-1", []string{missing, mapping})
	if err != nil {
		t.Fatalf("unexpected publish error: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("expected 1 key, got %v", keys)
	}
	if keys[0] != "inv-1/mapping.txt" {
		t.Errorf("unexpected key: %q", keys[0])
	}

	snap := collector.Snapshot()
	if snap.PublishSuccess != 1 || snap.PublishFailure != 0 {
		t.Errorf("unexpected publish counters: %+v", snap)
	}
}

func TestPublishFiles_UploadFailure(t *testing.T) {
	dir := t.TempDir()
	mapping := writeReport(t, dir, "mapping.txt", "x")
	seeds := writeReport(t, dir, "seeds.txt", "y")

	fake := &fakePutter{failKey: "inv-1/seeds.txt"}
	collector := metrics.NewCollector("inv-1", "proguard.jar")
	p := newPublisherWithClient(fake, S3Config{Bucket: "reports"}, collector)

	keys, err := p.PublishFiles(context.Background(), "inv-1", []string{mapping, seeds})
	if err == nil {
		t.Fatal("expected an upload error")
	}

	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("expected *UploadError, got %T", err)
	}
	if uploadErr.Key != "inv-1/seeds.txt" {
		t.Errorf("unexpected failing key: %q", uploadErr.Key)
	}
	if len(keys) != 1 || keys[0] != "inv-1/mapping.txt" {
		t.Errorf("expected the successful key to be retained, got %v", keys)
	}

	snap := collector.Snapshot()
	if snap.PublishSuccess != 1 || snap.PublishFailure != 1 {
		t.Errorf("unexpected publish counters: %+v", snap)
	}
}

func TestS3ConfigValidate(t *testing.T) {
	cfg := S3Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for empty bucket")
	}
	cfg.Bucket = "reports"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseS3Path(t *testing.T) {
	tests := []struct {
		dest   string
		bucket string
		prefix string
	}{
		{"reports", "reports", ""},
		{"reports/shrinkwrap", "reports", "shrinkwrap"},
		{"reports/a/b", "reports", "a/b"},
	}
	for _, tt := range tests {
		bucket, prefix := ParseS3Path(tt.dest)
		if bucket != tt.bucket || prefix != tt.prefix {
			t.Errorf("ParseS3Path(%q) = (%q, %q), expected (%q, %q)",
				tt.dest, bucket, prefix, tt.bucket, tt.prefix)
		}
	}
}
