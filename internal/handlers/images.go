package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rossocorsa/panigaleclub/internal/blob"
	"github.com/rossocorsa/panigaleclub/internal/gallery"
	"github.com/rossocorsa/panigaleclub/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ImageHandler serves the members' gallery: listing, per-session view state
// (filter and selection) and the bulk operations driven by that selection.
type ImageHandler struct {
	gallery *gallery.Gallery
	views   *gallery.Views
	blobs   blob.Store
}

// NewImageHandler creates the image handler.
func NewImageHandler(g *gallery.Gallery, v *gallery.Views, blobs blob.Store) *ImageHandler {
	return &ImageHandler{gallery: g, views: v, blobs: blobs}
}

type galleryView struct {
	Images   []models.Image `json:"images"`
	Filter   string         `json:"filter"`
	Selected []string       `json:"selected"`
}

// List handles GET /api/images, applying the session's current album filter.
func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	view := h.views.Get(sid)

	images, err := h.gallery.List(r.Context(), sid, view.Filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error", "Failed to load images.")
		return
	}
	respondData(w, http.StatusOK, galleryView{
		Images:   images,
		Filter:   view.Filter,
		Selected: view.Selected,
	})
}

// Preview handles GET /api/images/{id}/preview, streaming the stored
// thumbnail bytes.
func (h *ImageHandler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "image_preview", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	sid := sessionID(r)
	imageID := mux.Vars(r)["id"]
	span.SetAttributes(attribute.String("image_id", imageID))

	images, err := h.gallery.List(ctx, sid, gallery.FilterAll)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error", "Failed to load images.")
		return
	}
	var key string
	for _, img := range images {
		if img.ID == imageID {
			key = img.PreviewKey
			break
		}
	}
	if key == "" {
		respondError(w, http.StatusNotFound, "Error", "Image not found.")
		return
	}

	data, contentType, err := h.blobs.Get(ctx, key)
	if errors.Is(err, blob.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Error", "Preview not found.")
		return
	}
	if err != nil {
		span.RecordError(err)
		respondError(w, http.StatusInternalServerError, "Error", "Failed to load preview.")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type filterRequest struct {
	Filter string `json:"filter"`
}

// SetFilter handles PUT /api/images/filter. Switching the filter keeps the
// current selection.
func (h *ImageHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)

	var req filterRequest
	if err := decodeJSON(r, &req); err != nil || req.Filter == "" {
		respondError(w, http.StatusBadRequest, "Error", "A filter is required.")
		return
	}
	h.views.SetFilter(sid, req.Filter)
	respondData(w, http.StatusOK, h.views.Get(sid))
}

// ToggleSelect handles POST /api/images/{id}/select.
func (h *ImageHandler) ToggleSelect(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	h.views.ToggleSelect(sid, mux.Vars(r)["id"])
	respondData(w, http.StatusOK, h.views.Get(sid))
}

// ToggleSelectAll handles POST /api/images/select-all. Whether it selects or
// clears depends on the selection count matching the filtered image count.
func (h *ImageHandler) ToggleSelectAll(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	if err := h.views.ToggleSelectAll(r.Context(), sid); err != nil {
		respondError(w, http.StatusInternalServerError, "Error", "Failed to load images.")
		return
	}
	respondData(w, http.StatusOK, h.views.Get(sid))
}

// ClearSelection handles DELETE /api/images/selection.
func (h *ImageHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	h.views.ClearSelection(sid)
	respondData(w, http.StatusOK, h.views.Get(sid))
}

// BulkDelete handles POST /api/images/bulk/delete, removing every selected
// image and clearing the selection.
func (h *ImageHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	view := h.views.Get(sid)
	if len(view.Selected) == 0 {
		respondError(w, http.StatusBadRequest, "No images selected", "Select at least one image first.")
		return
	}

	removed, err := h.gallery.BulkDelete(r.Context(), sid, view.Selected)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error", "Failed to delete images.")
		return
	}
	h.views.ClearSelection(sid)
	respondJSON(w, http.StatusOK, envelope{
		Notices: []models.Notice{models.InfoNotice("Images deleted",
			fmt.Sprintf("%d image(s) have been deleted.", removed))},
	})
}

type bulkAlbumRequest struct {
	AlbumID string `json:"albumId"`
}

// BulkAddToAlbum handles POST /api/images/bulk/album. The selection stays in
// place afterwards.
func (h *ImageHandler) BulkAddToAlbum(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	view := h.views.Get(sid)
	if len(view.Selected) == 0 {
		respondError(w, http.StatusBadRequest, "No images selected", "Select at least one image first.")
		return
	}

	var req bulkAlbumRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Error", "Invalid request body.")
		return
	}

	err := h.gallery.BulkAddToAlbum(r.Context(), sid, view.Selected, req.AlbumID)
	if errors.Is(err, gallery.ErrNoTargetAlbum) {
		respondError(w, http.StatusBadRequest, "No album selected", "Please choose an album first.")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error", "Failed to add images to album.")
		return
	}
	respondJSON(w, http.StatusOK, envelope{
		Notices: []models.Notice{models.InfoNotice("Added to album",
			fmt.Sprintf("%d image(s) added to the album.", len(view.Selected)))},
	})
}

// BulkSetVisibility handles POST /api/images/bulk/visibility.
func (h *ImageHandler) BulkSetVisibility(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	view := h.views.Get(sid)
	if len(view.Selected) == 0 {
		respondError(w, http.StatusBadRequest, "No images selected", "Select at least one image first.")
		return
	}

	var req visibilityRequest
	if err := decodeJSON(r, &req); err != nil || !req.Visibility.Valid() {
		respondError(w, http.StatusBadRequest, "Error", "Visibility must be members or public.")
		return
	}

	if err := h.gallery.BulkSetVisibility(r.Context(), sid, view.Selected, req.Visibility); err != nil {
		respondError(w, http.StatusInternalServerError, "Error", "Failed to change visibility.")
		return
	}
	respondJSON(w, http.StatusOK, envelope{
		Notices: []models.Notice{models.InfoNotice("Visibility changed",
			fmt.Sprintf("%d image(s) are now %s.", len(view.Selected), req.Visibility))},
	})
}
