// Package gallery implements the members' image gallery: filtering, selection
// and the bulk operations over the session's stored image collection.
package gallery

import (
	"context"
	"errors"

	"github.com/rossocorsa/panigaleclub/internal/albums"
	"github.com/rossocorsa/panigaleclub/internal/models"
	"github.com/rossocorsa/panigaleclub/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("panigaleclub-gallery")

// FilterAll is the identity filter value.
const FilterAll = "all"

// ErrNoTargetAlbum is returned by BulkAddToAlbum when no album was chosen.
var ErrNoTargetAlbum = errors.New("no target album chosen")

// Gallery runs bulk operations on the image collection. Every successful
// mutation recomputes album image counts as a derived side effect.
type Gallery struct {
	store *store.Store
}

// New creates a gallery over the session store.
func New(s *store.Store) *Gallery {
	return &Gallery{store: s}
}

// List returns the session's images narrowed by the album filter. FilterAll
// (or an empty filter) returns everything; any other value restricts to images
// whose album set contains it.
func (g *Gallery) List(ctx context.Context, sessionID, filter string) ([]models.Image, error) {
	ctx, span := tracer.Start(ctx, "gallery.list",
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
			attribute.String("filter", filter),
		),
	)
	defer span.End()

	images, err := g.store.Images(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	filtered := FilterImages(images, filter)
	span.SetAttributes(attribute.Int("image_count", len(filtered)))
	return filtered, nil
}

// BulkDelete removes every image whose id is in ids.
func (g *Gallery) BulkDelete(ctx context.Context, sessionID string, ids []string) (int, error) {
	ctx, span := tracer.Start(ctx, "gallery.bulk_delete",
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
			attribute.Int("selection_size", len(ids)),
		),
	)
	defer span.End()

	selected := idSet(ids)
	removed := 0
	err := g.mutate(ctx, sessionID, func(images []models.Image) []models.Image {
		kept := images[:0]
		for i := range images {
			if selected[images[i].ID] {
				removed++
				continue
			}
			kept = append(kept, images[i])
		}
		return kept
	})
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	span.SetAttributes(attribute.Int("removed", removed))
	return removed, nil
}

// BulkAddToAlbum adds albumID to the album set of every selected image. The
// add is idempotent: an image already in the album is left alone. Choosing no
// target album is an error.
func (g *Gallery) BulkAddToAlbum(ctx context.Context, sessionID string, ids []string, albumID string) error {
	ctx, span := tracer.Start(ctx, "gallery.bulk_add_to_album",
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
			attribute.String("album_id", albumID),
			attribute.Int("selection_size", len(ids)),
		),
	)
	defer span.End()

	if albumID == "" {
		return ErrNoTargetAlbum
	}

	selected := idSet(ids)
	err := g.mutate(ctx, sessionID, func(images []models.Image) []models.Image {
		for i := range images {
			if selected[images[i].ID] && !images[i].InAlbum(albumID) {
				images[i].Albums = append(images[i].Albums, albumID)
			}
		}
		return images
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// BulkSetVisibility unconditionally overwrites the visibility of every
// selected image.
func (g *Gallery) BulkSetVisibility(ctx context.Context, sessionID string, ids []string, v models.Visibility) error {
	ctx, span := tracer.Start(ctx, "gallery.bulk_set_visibility",
		trace.WithAttributes(
			attribute.String("session_id", sessionID),
			attribute.String("visibility", string(v)),
			attribute.Int("selection_size", len(ids)),
		),
	)
	defer span.End()

	selected := idSet(ids)
	err := g.mutate(ctx, sessionID, func(images []models.Image) []models.Image {
		for i := range images {
			if selected[images[i].ID] {
				images[i].Visibility = v
			}
		}
		return images
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// mutate loads the image collection, applies fn, saves the result, then
// recomputes and saves every album's image count.
func (g *Gallery) mutate(ctx context.Context, sessionID string, fn func([]models.Image) []models.Image) error {
	images, err := g.store.Images(ctx, sessionID)
	if err != nil {
		return err
	}
	images = fn(images)
	if err := g.store.SaveImages(ctx, sessionID, images); err != nil {
		return err
	}

	list, err := g.store.Albums(ctx, sessionID)
	if err != nil {
		return err
	}
	list = albums.Recount(list, images)
	return g.store.SaveAlbums(ctx, sessionID, list)
}

// FilterImages narrows images to the album filter; FilterAll and the empty
// string are the identity filter.
func FilterImages(images []models.Image, filter string) []models.Image {
	if filter == "" || filter == FilterAll {
		return images
	}
	filtered := make([]models.Image, 0, len(images))
	for i := range images {
		if images[i].InAlbum(filter) {
			filtered = append(filtered, images[i])
		}
	}
	return filtered
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
