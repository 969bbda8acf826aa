package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rossocorsa/panigaleclub/internal/catalog"
	"github.com/rossocorsa/panigaleclub/internal/lightbox"
	"github.com/rossocorsa/panigaleclub/internal/models"
)

// CatalogHandler serves the public lightbox gallery. No session required.
type CatalogHandler struct{}

// NewCatalogHandler creates the catalog handler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

type catalogView struct {
	Images     []models.CatalogImage `json:"images"`
	Categories []string              `json:"categories"`
	Category   string                `json:"category"`
}

// List handles GET /api/catalog, optionally filtered by ?category=.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	lb := lightbox.New(catalog.Images())
	category := r.URL.Query().Get("category")
	if category != "" {
		lb.SetCategory(category)
	}
	respondData(w, http.StatusOK, catalogView{
		Images:     lb.Filtered(),
		Categories: lb.Categories(),
		Category:   lb.Category(),
	})
}

// Navigate handles GET /api/catalog/{id}/{direction}: the previous or next
// image within the current category, wrapping around at the ends.
func (h *CatalogHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Error", "Invalid image id.")
		return
	}
	direction := vars["direction"]
	if direction != "prev" && direction != "next" {
		respondError(w, http.StatusBadRequest, "Error", "Direction must be prev or next.")
		return
	}

	lb := lightbox.New(catalog.Images())
	if category := r.URL.Query().Get("category"); category != "" {
		lb.SetCategory(category)
	}
	if err := lb.Open(id); err != nil {
		respondError(w, http.StatusNotFound, "Error", "Image not found.")
		return
	}
	if err := lb.Navigate(direction); err != nil {
		if errors.Is(err, lightbox.ErrClosed) {
			respondError(w, http.StatusNotFound, "Error", "Image not found.")
			return
		}
		respondError(w, http.StatusBadRequest, "Error", "Invalid navigation.")
		return
	}
	current, ok := lb.Current()
	if !ok {
		respondError(w, http.StatusNotFound, "Error", "Image not found.")
		return
	}
	respondData(w, http.StatusOK, current)
}
