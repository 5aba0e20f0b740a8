package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/urbannest/internal/filex"
)

// LocalURLPrefix is the path the HTTP layer serves LocalStore files under.
const LocalURLPrefix = "/uploads/"

// LocalStore keeps objects as files below a root directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	root, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &LocalStore{root: root}, nil
}

// Root is the absolute directory holding the objects.
func (s *LocalStore) Root() string {
	return s.root
}

// Put writes body to a temp file next to the target and renames it into
// place, so readers never see a partial image.
func (s *LocalStore) Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error) {
	path, err := filex.SafeJoin(s.root, key)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := body.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return "", fmt.Errorf("seek: %w", err)
	}

	n, err := io.Copy(tmp, body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("write: %w", err)
	}
	if size >= 0 && n != size {
		return "", fmt.Errorf("short write: %d of %d bytes", n, size)
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename: %w", err)
	}

	return LocalURLPrefix + key, nil
}
