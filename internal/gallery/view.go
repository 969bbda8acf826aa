package gallery

import (
	"context"
	"sync"
)

// View tracks the gallery's per-session browse state: the active album filter
// and the current selection. It is deliberately not persisted to the session
// store; it resets when the member navigates away.
type View struct {
	Filter   string   `json:"filter"`
	Selected []string `json:"selected"`
}

// Views holds one View per session id.
type Views struct {
	mu      sync.Mutex
	gallery *Gallery
	views   map[string]*View
}

// NewViews creates the per-session view registry.
func NewViews(g *Gallery) *Views {
	return &Views{
		gallery: g,
		views:   make(map[string]*View),
	}
}

// Get returns a copy of the session's view state.
func (v *Views) Get(sessionID string) View {
	v.mu.Lock()
	defer v.mu.Unlock()
	view := v.view(sessionID)
	out := View{Filter: view.Filter, Selected: append([]string(nil), view.Selected...)}
	return out
}

// SetFilter changes the album filter. Changing the filter intentionally does
// not deselect.
func (v *Views) SetFilter(sessionID, filter string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if filter == "" {
		filter = FilterAll
	}
	v.view(sessionID).Filter = filter
}

// ToggleSelect toggles membership of imageID in the selection.
func (v *Views) ToggleSelect(sessionID, imageID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	view := v.view(sessionID)
	for i, id := range view.Selected {
		if id == imageID {
			view.Selected = append(view.Selected[:i], view.Selected[i+1:]...)
			return
		}
	}
	view.Selected = append(view.Selected, imageID)
}

// ToggleSelectAll clears the selection when it already has as many entries as
// the filtered set, otherwise replaces it with the full filtered set. The
// comparison is by size only, not set equality.
func (v *Views) ToggleSelectAll(ctx context.Context, sessionID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	view := v.view(sessionID)

	filtered, err := v.gallery.List(ctx, sessionID, view.Filter)
	if err != nil {
		return err
	}

	if len(view.Selected) == len(filtered) {
		view.Selected = nil
		return nil
	}
	ids := make([]string, len(filtered))
	for i := range filtered {
		ids[i] = filtered[i].ID
	}
	view.Selected = ids
	return nil
}

// ClearSelection empties the selection, as after a bulk delete.
func (v *Views) ClearSelection(sessionID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view(sessionID).Selected = nil
}

// Reset discards the session's view state entirely (explicit navigation away
// from the gallery, or logout).
func (v *Views) Reset(sessionID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.views, sessionID)
}

// view returns the live view for the session, creating it on first use.
// Callers must hold v.mu.
func (v *Views) view(sessionID string) *View {
	view, ok := v.views[sessionID]
	if !ok {
		view = &View{Filter: FilterAll}
		v.views[sessionID] = view
	}
	return view
}
