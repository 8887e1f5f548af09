// Package storage is the object-storage collaborator the upload endpoint hands
// validated files to.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ObjectStore принимает байты провалидированного файла и возвращает публичный URL.
type ObjectStore interface {
	Put(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

// LocalStore сохраняет объекты на диск под префиксом products/.
type LocalStore struct {
	root    string
	baseURL string
	now     func() time.Time
}

func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/"), now: time.Now}
}

var _ ObjectStore = (*LocalStore)(nil)

// Put writes the object under products/<unix-millis>-<name> and returns its URL.
// The timestamp prefix keeps repeated uploads of the same filename distinct.
func (s *LocalStore) Put(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := fmt.Sprintf("%d-%s", s.now().UnixMilli(), sanitizeFilename(filename))

	dir := filepath.Join(s.root, "products")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, key))
	if err != nil {
		return "", fmt.Errorf("create object: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}

	return s.baseURL + path.Join("/products", url.PathEscape(key)), nil
}

// sanitizeFilename keeps the base name only so a crafted filename cannot
// escape the storage root.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "upload"
	}
	return name
}
