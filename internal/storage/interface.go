package storage

import (
	"context"
	"io"
)

// Archive keeps durable copies of audio recordings independent of the
// remote service.
type Archive interface {
	Upload(ctx context.Context, key string, data io.Reader) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
