// Package blob stores preview image bytes. Previews are content-addressed:
// the key is derived from the bytes, so re-uploading the same file reuses the
// same object.
package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("panigaleclub-blob")

// ErrNotFound is returned when no object exists under a key.
var ErrNotFound = errors.New("blob not found")

// Store persists preview bytes under opaque keys.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	Delete(ctx context.Context, key string) error
}

// Key derives the content-addressed object key for data.
func Key(data []byte) string {
	sum := sha256.Sum256(data)
	return "previews/" + hex.EncodeToString(sum[:])
}
