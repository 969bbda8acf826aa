package albums

import (
	"context"
	"testing"

	"github.com/rossocorsa/panigaleclub/internal/models"
	"github.com/rossocorsa/panigaleclub/internal/store"
)

func newTestManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()
	s := store.New(store.NewMemoryKV())
	return NewManager(s), s
}

func TestManager_Create(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	sid := "session-1"

	t.Run("creates album with fresh id and zero count", func(t *testing.T) {
		album, err := m.Create(ctx, sid, "Trackdays")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if album.ID == "" {
			t.Error("Expected non-empty ID")
		}
		if album.Name != "Trackdays" {
			t.Errorf("Name = %v, want Trackdays", album.Name)
		}
		if album.ImageCount != 0 {
			t.Errorf("ImageCount = %v, want 0", album.ImageCount)
		}
		if album.CreatedAt.IsZero() {
			t.Error("CreatedAt should not be zero")
		}
	})

	t.Run("trims the name", func(t *testing.T) {
		album, err := m.Create(ctx, sid, "  Mugello  ")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if album.Name != "Mugello" {
			t.Errorf("Name = %v, want Mugello", album.Name)
		}
	})

	t.Run("rejects empty name and leaves collection unchanged", func(t *testing.T) {
		before, err := m.List(ctx, sid)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}

		if _, err := m.Create(ctx, sid, "   "); err != ErrEmptyName {
			t.Errorf("Create() error = %v, want ErrEmptyName", err)
		}

		after, err := m.List(ctx, sid)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(after) != len(before) {
			t.Errorf("Got %d albums, want %d", len(after), len(before))
		}
	})

	t.Run("allows duplicate names", func(t *testing.T) {
		first, err := m.Create(ctx, sid, "Misano")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		second, err := m.Create(ctx, sid, "Misano")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if first.ID == second.ID {
			t.Error("Duplicate names should still get distinct ids")
		}
	})
}

func TestManager_List(t *testing.T) {
	m, s := newTestManager(t)
	ctx := context.Background()
	sid := "session-1"

	album, err := m.Create(ctx, sid, "Trackdays")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("recomputes image counts from the image collection", func(t *testing.T) {
		images := []models.Image{
			{ID: "img-1", Albums: []string{album.ID}},
			{ID: "img-2", Albums: []string{album.ID, "other"}},
			{ID: "img-3", Albums: []string{}},
		}
		if err := s.SaveImages(ctx, sid, images); err != nil {
			t.Fatalf("SaveImages() error = %v", err)
		}

		list, err := m.List(ctx, sid)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("Got %d albums, want 1", len(list))
		}
		if list[0].ImageCount != 2 {
			t.Errorf("ImageCount = %v, want 2", list[0].ImageCount)
		}
	})

	t.Run("empty session lists no albums", func(t *testing.T) {
		list, err := m.List(ctx, "session-empty")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(list) != 0 {
			t.Errorf("Got %d albums, want 0", len(list))
		}
	})
}

func TestManager_Rename(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	sid := "session-1"

	album, err := m.Create(ctx, sid, "Trackdays")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("renames existing album", func(t *testing.T) {
		renamed, err := m.Rename(ctx, sid, album.ID, "Rennstrecke")
		if err != nil {
			t.Fatalf("Rename() error = %v", err)
		}
		if renamed == nil {
			t.Fatal("Expected album, got nil")
		}
		if renamed.Name != "Rennstrecke" {
			t.Errorf("Name = %v, want Rennstrecke", renamed.Name)
		}
		if renamed.ID != album.ID {
			t.Errorf("ID = %v, want %v", renamed.ID, album.ID)
		}
	})

	t.Run("blank name is a silent no-op", func(t *testing.T) {
		renamed, err := m.Rename(ctx, sid, album.ID, "   ")
		if err != nil {
			t.Fatalf("Rename() error = %v", err)
		}
		if renamed != nil {
			t.Error("Expected nil for blank rename")
		}

		list, err := m.List(ctx, sid)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if list[0].Name != "Rennstrecke" {
			t.Errorf("Name = %v, want Rennstrecke", list[0].Name)
		}
	})

	t.Run("missing album is a silent no-op", func(t *testing.T) {
		renamed, err := m.Rename(ctx, sid, "no-such-album", "Whatever")
		if err != nil {
			t.Fatalf("Rename() error = %v", err)
		}
		if renamed != nil {
			t.Error("Expected nil for missing album")
		}
	})
}

func TestManager_Delete(t *testing.T) {
	m, s := newTestManager(t)
	ctx := context.Background()
	sid := "session-1"

	album, err := m.Create(ctx, sid, "Trackdays")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	images := []models.Image{
		{ID: "img-1", Albums: []string{album.ID}},
	}
	if err := s.SaveImages(ctx, sid, images); err != nil {
		t.Fatalf("SaveImages() error = %v", err)
	}

	t.Run("removes the album but not the images", func(t *testing.T) {
		deleted, err := m.Delete(ctx, sid, album.ID)
		if err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if deleted.ID != album.ID {
			t.Errorf("ID = %v, want %v", deleted.ID, album.ID)
		}

		list, err := m.List(ctx, sid)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(list) != 0 {
			t.Errorf("Got %d albums, want 0", len(list))
		}

		// The image keeps its reference to the deleted album.
		stored, err := s.Images(ctx, sid)
		if err != nil {
			t.Fatalf("Images() error = %v", err)
		}
		if len(stored) != 1 {
			t.Fatalf("Got %d images, want 1", len(stored))
		}
		if !stored[0].InAlbum(album.ID) {
			t.Error("Image should keep the dangling album reference")
		}
	})

	t.Run("missing album is an error", func(t *testing.T) {
		if _, err := m.Delete(ctx, sid, album.ID); err != ErrNotFound {
			t.Errorf("Delete() error = %v, want ErrNotFound", err)
		}
	})
}

func TestRecount(t *testing.T) {
	albums := []models.Album{
		{ID: "a", ImageCount: 99},
		{ID: "b", ImageCount: 99},
	}
	images := []models.Image{
		{ID: "1", Albums: []string{"a"}},
		{ID: "2", Albums: []string{"a", "b"}},
		{ID: "3", Albums: []string{"gone"}},
	}

	recounted := Recount(albums, images)
	if recounted[0].ImageCount != 2 {
		t.Errorf("album a ImageCount = %v, want 2", recounted[0].ImageCount)
	}
	if recounted[1].ImageCount != 1 {
		t.Errorf("album b ImageCount = %v, want 1", recounted[1].ImageCount)
	}
}
