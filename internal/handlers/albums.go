package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rossocorsa/panigaleclub/internal/albums"
	"github.com/rossocorsa/panigaleclub/internal/models"
)

// AlbumHandler exposes album CRUD for the members area.
type AlbumHandler struct {
	manager *albums.Manager
}

// NewAlbumHandler creates the album handler.
func NewAlbumHandler(m *albums.Manager) *AlbumHandler {
	return &AlbumHandler{manager: m}
}

// List handles GET /api/albums with image counts recomputed.
func (h *AlbumHandler) List(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	list, err := h.manager.List(r.Context(), sid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error", "Failed to load albums.")
		return
	}
	respondData(w, http.StatusOK, list)
}

type albumRequest struct {
	Name string `json:"name"`
}

// Create handles POST /api/albums.
func (h *AlbumHandler) Create(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)

	var req albumRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Error", "Invalid request body.")
		return
	}

	album, err := h.manager.Create(r.Context(), sid, req.Name)
	if errors.Is(err, albums.ErrEmptyName) {
		respondError(w, http.StatusBadRequest, "Error", "Please enter an album name.")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error", "Failed to create album.")
		return
	}
	respondJSON(w, http.StatusCreated, envelope{
		Data: album,
		Notices: []models.Notice{models.InfoNotice("Album created",
			fmt.Sprintf("The album %q has been created.", album.Name))},
	})
}

// Rename handles PUT /api/albums/{id}. A blank name or unknown album leaves
// everything untouched and succeeds.
func (h *AlbumHandler) Rename(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	albumID := mux.Vars(r)["id"]

	var req albumRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Error", "Invalid request body.")
		return
	}

	album, err := h.manager.Rename(r.Context(), sid, albumID, req.Name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error", "Failed to rename album.")
		return
	}
	if album == nil {
		respondData(w, http.StatusOK, nil)
		return
	}
	respondJSON(w, http.StatusOK, envelope{
		Data: album,
		Notices: []models.Notice{models.InfoNotice("Album renamed",
			fmt.Sprintf("The album is now called %q.", album.Name))},
	})
}

// Delete handles DELETE /api/albums/{id}. Images keep their album references;
// counts simply drop the deleted album.
func (h *AlbumHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	albumID := mux.Vars(r)["id"]

	album, err := h.manager.Delete(r.Context(), sid, albumID)
	if errors.Is(err, albums.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Error", "Album not found.")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error", "Failed to delete album.")
		return
	}
	respondJSON(w, http.StatusOK, envelope{
		Notices: []models.Notice{models.InfoNotice("Album deleted",
			fmt.Sprintf("The album %q has been deleted.", album.Name))},
	})
}
