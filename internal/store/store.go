package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/rossocorsa/panigaleclub/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Store exposes typed accessors for the three session collections on top of a
// raw KV backend. Malformed or missing serialized data is treated as an empty
// collection: logged, never surfaced to the caller.
type Store struct {
	kv KV
}

// New wraps a KV backend.
func New(kv KV) *Store {
	return &Store{kv: kv}
}

// Close releases the underlying backend.
func (s *Store) Close() error {
	return s.kv.Close()
}

// Images loads the session's stored image collection.
func (s *Store) Images(ctx context.Context, sessionID string) ([]models.Image, error) {
	var images []models.Image
	if err := s.load(ctx, sessionID, KeyImages, &images); err != nil {
		return nil, err
	}
	if images == nil {
		images = []models.Image{}
	}
	return images, nil
}

// SaveImages replaces the session's stored image collection.
func (s *Store) SaveImages(ctx context.Context, sessionID string, images []models.Image) error {
	return s.save(ctx, sessionID, KeyImages, images)
}

// Albums loads the session's album collection.
func (s *Store) Albums(ctx context.Context, sessionID string) ([]models.Album, error) {
	var albums []models.Album
	if err := s.load(ctx, sessionID, KeyAlbums, &albums); err != nil {
		return nil, err
	}
	if albums == nil {
		albums = []models.Album{}
	}
	return albums, nil
}

// SaveAlbums replaces the session's album collection.
func (s *Store) SaveAlbums(ctx context.Context, sessionID string, albums []models.Album) error {
	return s.save(ctx, sessionID, KeyAlbums, albums)
}

// Auth loads the session's authentication state. An absent or unreadable
// record means "not logged in".
func (s *Store) Auth(ctx context.Context, sessionID string) (models.AuthState, error) {
	var state models.AuthState
	if err := s.load(ctx, sessionID, KeyAuth, &state); err != nil {
		return models.AuthState{}, err
	}
	return state, nil
}

// SaveAuth stores the session's authentication state.
func (s *Store) SaveAuth(ctx context.Context, sessionID string, state models.AuthState) error {
	return s.save(ctx, sessionID, KeyAuth, state)
}

// DropSession destroys all state the session owns.
func (s *Store) DropSession(ctx context.Context, sessionID string) error {
	ctx, span := tracer.Start(ctx, "store.drop_session",
		trace.WithAttributes(attribute.String("session_id", sessionID)),
	)
	defer span.End()

	if err := s.kv.DropSession(ctx, sessionID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to drop session state: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context, sessionID, key string, out interface{}) error {
	ctx, span := tracer.Start(ctx, "store.load",
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
			attribute.String("key", key),
		),
	)
	defer span.End()

	raw, ok, err := s.kv.Get(ctx, sessionID, key)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if !ok {
		span.SetAttributes(attribute.Bool("found", false))
		return nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		// Malformed stored data is swallowed and treated as absence.
		log.Printf("Warning: discarding malformed %s for session %s: %v", key, sessionID, err)
		span.SetAttributes(attribute.Bool("malformed", true))
		return nil
	}
	span.SetAttributes(attribute.Bool("found", true))
	return nil
}

func (s *Store) save(ctx context.Context, sessionID, key string, value interface{}) error {
	ctx, span := tracer.Start(ctx, "store.save",
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
			attribute.String("key", key),
		),
	)
	defer span.End()

	data, err := json.Marshal(value)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, sessionID, key, string(data)); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
