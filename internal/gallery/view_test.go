package gallery

import (
	"context"
	"testing"

	"github.com/rossocorsa/panigaleclub/internal/models"
)

func TestViews_ToggleSelect(t *testing.T) {
	g, _ := newTestGallery(t)
	views := NewViews(g)
	sid := "session-1"

	views.ToggleSelect(sid, "img-1")
	if got := views.Get(sid).Selected; len(got) != 1 || got[0] != "img-1" {
		t.Errorf("Selected = %v, want [img-1]", got)
	}

	views.ToggleSelect(sid, "img-1")
	if got := views.Get(sid).Selected; len(got) != 0 {
		t.Errorf("Selected = %v, want empty", got)
	}
}

func TestViews_SetFilter(t *testing.T) {
	g, _ := newTestGallery(t)
	views := NewViews(g)
	sid := "session-1"

	t.Run("defaults to all", func(t *testing.T) {
		if got := views.Get(sid).Filter; got != FilterAll {
			t.Errorf("Filter = %v, want %v", got, FilterAll)
		}
	})

	t.Run("keeps the selection across filter changes", func(t *testing.T) {
		views.ToggleSelect(sid, "img-1")
		views.SetFilter(sid, "alb")

		view := views.Get(sid)
		if view.Filter != "alb" {
			t.Errorf("Filter = %v, want alb", view.Filter)
		}
		if len(view.Selected) != 1 {
			t.Errorf("Selected = %v, want [img-1]", view.Selected)
		}
	})

	t.Run("empty filter resets to all", func(t *testing.T) {
		views.SetFilter(sid, "")
		if got := views.Get(sid).Filter; got != FilterAll {
			t.Errorf("Filter = %v, want %v", got, FilterAll)
		}
	})
}

func TestViews_ToggleSelectAll(t *testing.T) {
	g, s := newTestGallery(t)
	views := NewViews(g)
	ctx := context.Background()
	sid := "session-1"

	seedImages(t, s, sid, []models.Image{
		{ID: "1", Albums: []string{"alb"}},
		{ID: "2", Albums: []string{}},
		{ID: "3", Albums: []string{}},
	})

	t.Run("selects every filtered image", func(t *testing.T) {
		if err := views.ToggleSelectAll(ctx, sid); err != nil {
			t.Fatalf("ToggleSelectAll() error = %v", err)
		}
		if got := views.Get(sid).Selected; len(got) != 3 {
			t.Errorf("Selected = %v, want all 3", got)
		}
	})

	t.Run("clears when the selection size matches", func(t *testing.T) {
		if err := views.ToggleSelectAll(ctx, sid); err != nil {
			t.Fatalf("ToggleSelectAll() error = %v", err)
		}
		if got := views.Get(sid).Selected; len(got) != 0 {
			t.Errorf("Selected = %v, want empty", got)
		}
	})

	t.Run("compares by size only", func(t *testing.T) {
		// One image selected, filter narrowed to the one-image album: the
		// counts match, so the toggle clears even though the selected image is
		// not the filtered one.
		views.ToggleSelect(sid, "2")
		views.SetFilter(sid, "alb")

		if err := views.ToggleSelectAll(ctx, sid); err != nil {
			t.Fatalf("ToggleSelectAll() error = %v", err)
		}
		if got := views.Get(sid).Selected; len(got) != 0 {
			t.Errorf("Selected = %v, want empty", got)
		}
	})
}

func TestViews_Reset(t *testing.T) {
	g, _ := newTestGallery(t)
	views := NewViews(g)
	sid := "session-1"

	views.SetFilter(sid, "alb")
	views.ToggleSelect(sid, "img-1")
	views.Reset(sid)

	view := views.Get(sid)
	if view.Filter != FilterAll {
		t.Errorf("Filter = %v, want %v", view.Filter, FilterAll)
	}
	if len(view.Selected) != 0 {
		t.Errorf("Selected = %v, want empty", view.Selected)
	}
}
