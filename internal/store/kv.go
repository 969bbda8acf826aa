// Package store holds all session-scoped state behind one typed facade.
// Every collection a member session owns (auth flag, image records, album
// records) lives under a logical key, text-serialized as JSON. Components
// never touch raw values; they go through the typed accessors on Store so
// read-modify-write stays in one place.
package store

import (
	"context"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("panigaleclub-store")

// Logical keys within a session.
const (
	KeyAuth   = "auth"
	KeyImages = "userImages"
	KeyAlbums = "userAlbums"
)

// KV is the raw per-session key/value backend. Values are opaque serialized
// text. Get reports (value, present, error); absence is not an error.
type KV interface {
	Get(ctx context.Context, sessionID, key string) (string, bool, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID, key string) error
	// DropSession removes every key the session owns, ending its lifecycle.
	DropSession(ctx context.Context, sessionID string) error
	Close() error
}
