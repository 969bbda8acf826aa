// Package albums manages the flat list of named albums a member session owns.
package albums

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rossocorsa/panigaleclub/internal/models"
	"github.com/rossocorsa/panigaleclub/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("panigaleclub-albums")

var (
	// ErrEmptyName is returned by Create when the trimmed name is empty.
	ErrEmptyName = errors.New("album name must not be empty")
	// ErrNotFound is returned when no album matches the given id.
	ErrNotFound = errors.New("album not found")
)

// Manager performs album CRUD against the session store. Album names are not
// unique: two albums may carry the same name.
type Manager struct {
	store *store.Store
}

// NewManager creates an album manager on top of the session store.
func NewManager(s *store.Store) *Manager {
	return &Manager{store: s}
}

// List returns the session's albums with image counts recomputed from the
// current image collection.
func (m *Manager) List(ctx context.Context, sessionID string) ([]models.Album, error) {
	ctx, span := tracer.Start(ctx, "albums.list",
		trace.WithAttributes(attribute.String("session_id", sessionID)),
	)
	defer span.End()

	albums, err := m.store.Albums(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	images, err := m.store.Images(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	albums = Recount(albums, images)
	span.SetAttributes(attribute.Int("album_count", len(albums)))
	return albums, nil
}

// Create appends a new album with a fresh id, the trimmed name, the current
// timestamp and an image count of zero. An empty trimmed name is an error and
// leaves the collection unchanged.
func (m *Manager) Create(ctx context.Context, sessionID, name string) (*models.Album, error) {
	ctx, span := tracer.Start(ctx, "albums.create",
		trace.WithAttributes(attribute.String("session_id", sessionID)),
	)
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	albums, err := m.store.Albums(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	album := models.Album{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	albums = append(albums, album)

	if err := m.store.SaveAlbums(ctx, sessionID, albums); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("album_id", album.ID))
	return &album, nil
}

// Rename updates the name of the album with the given id, leaving every other
// field untouched. An empty trimmed name or a missing album is a silent no-op.
func (m *Manager) Rename(ctx context.Context, sessionID, albumID, newName string) (*models.Album, error) {
	ctx, span := tracer.Start(ctx, "albums.rename",
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
			attribute.String("album_id", albumID),
		),
	)
	defer span.End()

	newName = strings.TrimSpace(newName)
	if newName == "" || albumID == "" {
		span.SetAttributes(attribute.Bool("noop", true))
		return nil, nil
	}

	albums, err := m.store.Albums(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var renamed *models.Album
	for i := range albums {
		if albums[i].ID == albumID {
			albums[i].Name = newName
			renamed = &albums[i]
			break
		}
	}
	if renamed == nil {
		span.SetAttributes(attribute.Bool("noop", true))
		return nil, nil
	}

	if err := m.store.SaveAlbums(ctx, sessionID, albums); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return renamed, nil
}

// Delete removes the album with the given id. It never touches any image's
// album set: images referencing the deleted album keep the dangling id.
func (m *Manager) Delete(ctx context.Context, sessionID, albumID string) (*models.Album, error) {
	ctx, span := tracer.Start(ctx, "albums.delete",
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
			attribute.String("album_id", albumID),
		),
	)
	defer span.End()

	albums, err := m.store.Albums(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var deleted *models.Album
	kept := albums[:0]
	for i := range albums {
		if albums[i].ID == albumID {
			removed := albums[i]
			deleted = &removed
			continue
		}
		kept = append(kept, albums[i])
	}
	if deleted == nil {
		return nil, ErrNotFound
	}

	if err := m.store.SaveAlbums(ctx, sessionID, kept); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return deleted, nil
}

// Recount returns albums with ImageCount set to the number of images whose
// album set contains the album's id. Counts are always derived this way; the
// stored value is never incrementally trusted.
func Recount(albums []models.Album, images []models.Image) []models.Album {
	for i := range albums {
		count := 0
		for j := range images {
			if images[j].InAlbum(albums[i].ID) {
				count++
			}
		}
		albums[i].ImageCount = count
	}
	return albums
}
