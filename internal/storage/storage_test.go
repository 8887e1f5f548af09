package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLocalStore_Put(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStore(root, "http://localhost:9091/")
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	url, err := s.Put(context.Background(), "saree.png", "image/png", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "http://localhost:9091/products/1700000000000-saree.png" {
		t.Fatalf("unexpected url: %s", url)
	}

	data, err := os.ReadFile(filepath.Join(root, "products", "1700000000000-saree.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "bytes" {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestLocalStore_FilenameEscapes(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStore(root, "http://localhost:9091")

	// path traversal in the filename must not leave the storage root
	if _, err := s.Put(context.Background(), "../../etc/passwd", "image/png", strings.NewReader("x")); err != nil {
		t.Fatalf("put: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(root, "products"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one stored object: %v %v", entries, err)
	}
	if !strings.HasSuffix(entries[0].Name(), "-passwd") {
		t.Fatalf("unexpected object name: %s", entries[0].Name())
	}
}

func TestLocalStore_CancelledContext(t *testing.T) {
	s := NewLocalStore(t.TempDir(), "http://localhost:9091")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Put(ctx, "a.png", "image/png", strings.NewReader("x")); err == nil {
		t.Fatalf("expected context error")
	}
}
