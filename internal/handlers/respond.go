// Package handlers exposes the club's HTTP surface: the public lightbox
// catalog and the session-gated members API for uploads, albums and the
// image gallery.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/rossocorsa/panigaleclub/internal/models"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("panigaleclub-handlers")

// envelope is the uniform response body: payload fields plus optional
// transient notices for the client to surface and dismiss.
type envelope struct {
	Data     interface{}     `json:"data,omitempty"`
	Notices  []models.Notice `json:"notices,omitempty"`
	Redirect string          `json:"redirect,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Warning: failed to encode response: %v", err)
	}
}

func respondData(w http.ResponseWriter, status int, data interface{}, notices ...models.Notice) {
	respondJSON(w, status, envelope{Data: data, Notices: notices})
}

func respondError(w http.ResponseWriter, status int, title, detail string) {
	respondJSON(w, status, envelope{Notices: []models.Notice{models.ErrorNotice(title, detail)}})
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
