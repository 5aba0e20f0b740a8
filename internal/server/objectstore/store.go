// Package objectstore persists uploaded listing images and returns the
// public URL they are served from.
package objectstore

import (
	"context"
	"fmt"
	"io"

	sc "github.com/dmitrijs2005/urbannest/internal/server/config"
)

// CacheControl is sent with every stored image. Keys are never reused, so
// objects are immutable.
const CacheControl = "public, max-age=31536000"

// Store writes one object and returns its public URL.
type Store interface {
	Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error)
}

// New builds the store selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *sc.Config) (Store, error) {
	switch cfg.StorageBackend {
	case sc.StorageLocal, "":
		return NewLocalStore(cfg.UploadDir)
	case sc.StorageS3:
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
