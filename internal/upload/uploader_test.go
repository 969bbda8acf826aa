package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/rossocorsa/panigaleclub/internal/blob"
	"github.com/rossocorsa/panigaleclub/internal/models"
	"github.com/rossocorsa/panigaleclub/internal/store"
)

// A 1x1 transparent PNG.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func pngBytes(t *testing.T) []byte {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(tinyPNG)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return data
}

func fastTiming() Timing {
	return Timing{
		Tick:        time.Millisecond,
		Stagger:     time.Millisecond,
		CommitDelay: time.Millisecond,
		ClearDelay:  5 * time.Millisecond,
	}
}

func newTestUploader(t *testing.T) (*Uploader, *store.Store) {
	t.Helper()
	s := store.New(store.NewMemoryKV())
	u := New(s, blob.NewMemoryStore(), fastTiming(), 64)
	t.Cleanup(u.Close)
	return u, s
}

func TestUploader_Add(t *testing.T) {
	u, _ := newTestUploader(t)
	ctx := context.Background()
	sid := "session-1"

	t.Run("accepts image files", func(t *testing.T) {
		entry, err := u.Add(ctx, sid, "bike.png", "image/png", pngBytes(t))
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if entry.ID == "" {
			t.Error("Expected non-empty entry id")
		}
		if entry.Progress != 0 {
			t.Errorf("Progress = %v, want 0", entry.Progress)
		}
		if entry.Visibility != models.VisibilityMembers {
			t.Errorf("Visibility = %v, want members", entry.Visibility)
		}
		if entry.PreviewKey == "" {
			t.Error("Expected a preview key")
		}
	})

	t.Run("rejects non-image files per file", func(t *testing.T) {
		_, err := u.Add(ctx, sid, "notes.pdf", "application/pdf", []byte("%PDF"))
		var typeErr *UnsupportedTypeError
		if !errors.As(err, &typeErr) {
			t.Fatalf("Add() error = %v, want UnsupportedTypeError", err)
		}
		if typeErr.Name != "notes.pdf" {
			t.Errorf("Name = %v, want notes.pdf", typeErr.Name)
		}
		// The rejection does not disturb the rest of the batch.
		if got := len(u.Entries(sid)); got != 1 {
			t.Errorf("Got %d entries, want 1", got)
		}
	})

	t.Run("undecodable image-typed payload is still accepted", func(t *testing.T) {
		entry, err := u.Add(ctx, sid, "broken.jpg", "image/jpeg", []byte("not a real jpeg"))
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if entry.PreviewKey == "" {
			t.Error("Expected a preview key for the raw bytes")
		}
	})
}

func TestUploader_PendingBatchOps(t *testing.T) {
	u, _ := newTestUploader(t)
	ctx := context.Background()
	sid := "session-1"

	first, err := u.Add(ctx, sid, "a.png", "image/png", pngBytes(t))
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	second, err := u.Add(ctx, sid, "b.png", "image/png", pngBytes(t))
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	t.Run("sets visibility on one entry", func(t *testing.T) {
		if err := u.SetVisibility(sid, second.ID, models.VisibilityPublic); err != nil {
			t.Fatalf("SetVisibility() error = %v", err)
		}
		entries := u.Entries(sid)
		if entries[1].Visibility != models.VisibilityPublic {
			t.Errorf("Visibility = %v, want public", entries[1].Visibility)
		}
	})

	t.Run("removes one entry", func(t *testing.T) {
		if err := u.Remove(sid, first.ID); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		if got := len(u.Entries(sid)); got != 1 {
			t.Errorf("Got %d entries, want 1", got)
		}
	})

	t.Run("unknown entry id is an error", func(t *testing.T) {
		if err := u.Remove(sid, "no-such-entry"); err != ErrEntryNotFound {
			t.Errorf("Remove() error = %v, want ErrEntryNotFound", err)
		}
		if err := u.SetVisibility(sid, "no-such-entry", models.VisibilityPublic); err != ErrEntryNotFound {
			t.Errorf("SetVisibility() error = %v, want ErrEntryNotFound", err)
		}
	})

	t.Run("clears the batch", func(t *testing.T) {
		if err := u.Clear(sid); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if got := len(u.Entries(sid)); got != 0 {
			t.Errorf("Got %d entries, want 0", got)
		}
	})
}

func TestUploader_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("empty batch is an error", func(t *testing.T) {
		u, _ := newTestUploader(t)
		if err := u.Start(ctx, "session-1"); err != ErrEmptyBatch {
			t.Errorf("Start() error = %v, want ErrEmptyBatch", err)
		}
	})

	t.Run("commits every entry with its chosen visibility", func(t *testing.T) {
		u, s := newTestUploader(t)
		sid := "session-1"

		if _, err := u.Add(ctx, sid, "a.png", "image/png", pngBytes(t)); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		entry, err := u.Add(ctx, sid, "b.png", "image/png", pngBytes(t))
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if err := u.SetVisibility(sid, entry.ID, models.VisibilityPublic); err != nil {
			t.Fatalf("SetVisibility() error = %v", err)
		}

		if err := u.Start(ctx, sid); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		if !u.Uploading(sid) {
			t.Error("Uploading should be true after Start")
		}

		images := waitForImages(t, s, sid, 2)
		var public int
		for _, img := range images {
			if img.UploadDate.IsZero() {
				t.Error("UploadDate should be set")
			}
			if img.Albums == nil || len(img.Albums) != 0 {
				t.Errorf("Albums = %v, want empty set", img.Albums)
			}
			if img.Visibility == models.VisibilityPublic {
				public++
			}
		}
		if public != 1 {
			t.Errorf("Got %d public images, want 1", public)
		}

		// The pending batch clears shortly after the commit.
		deadline := time.Now().Add(2 * time.Second)
		for len(u.Entries(sid)) > 0 || u.Uploading(sid) {
			if time.Now().After(deadline) {
				t.Fatal("Batch did not clear in time")
			}
			time.Sleep(time.Millisecond)
		}
	})

	t.Run("locks the batch while uploading", func(t *testing.T) {
		u, _ := newTestUploader(t)
		// Slow ticks keep the batch in flight for the duration of the test.
		u.timing = Timing{Tick: time.Hour, Stagger: 0, CommitDelay: time.Hour, ClearDelay: time.Hour}
		sid := "session-1"

		entry, err := u.Add(ctx, sid, "a.png", "image/png", pngBytes(t))
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if err := u.Start(ctx, sid); err != nil {
			t.Fatalf("Start() error = %v", err)
		}

		if err := u.Start(ctx, sid); err != ErrBatchInProgress {
			t.Errorf("second Start() error = %v, want ErrBatchInProgress", err)
		}
		if _, err := u.Add(ctx, sid, "b.png", "image/png", pngBytes(t)); err != ErrBatchInProgress {
			t.Errorf("Add() error = %v, want ErrBatchInProgress", err)
		}
		if err := u.Remove(sid, entry.ID); err != ErrBatchInProgress {
			t.Errorf("Remove() error = %v, want ErrBatchInProgress", err)
		}
		if err := u.Clear(sid); err != ErrBatchInProgress {
			t.Errorf("Clear() error = %v, want ErrBatchInProgress", err)
		}
		if err := u.SetVisibility(sid, entry.ID, models.VisibilityPublic); err != ErrBatchInProgress {
			t.Errorf("SetVisibility() error = %v, want ErrBatchInProgress", err)
		}
	})

	t.Run("abort discards the running batch", func(t *testing.T) {
		u, s := newTestUploader(t)
		u.timing = Timing{Tick: time.Hour, Stagger: 0, CommitDelay: time.Hour, ClearDelay: time.Hour}
		sid := "session-1"

		if _, err := u.Add(ctx, sid, "a.png", "image/png", pngBytes(t)); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if err := u.Start(ctx, sid); err != nil {
			t.Fatalf("Start() error = %v", err)
		}

		u.Abort(sid)
		if got := len(u.Entries(sid)); got != 0 {
			t.Errorf("Got %d entries after abort, want 0", got)
		}
		images, err := s.Images(ctx, sid)
		if err != nil {
			t.Fatalf("Images() error = %v", err)
		}
		if len(images) != 0 {
			t.Errorf("Got %d stored images after abort, want 0", len(images))
		}
	})
}

// waitForImages polls the store until the session holds count images.
func waitForImages(t *testing.T, s *store.Store, sid string, count int) []models.Image {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		images, err := s.Images(context.Background(), sid)
		if err != nil {
			t.Fatalf("Images() error = %v", err)
		}
		if len(images) == count {
			return images
		}
		if time.Now().After(deadline) {
			t.Fatalf("Got %d stored images, want %d", len(images), count)
		}
		time.Sleep(time.Millisecond)
	}
}
