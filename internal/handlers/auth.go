package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rossocorsa/panigaleclub/internal/auth"
	"github.com/rossocorsa/panigaleclub/internal/gallery"
	"github.com/rossocorsa/panigaleclub/internal/models"
	"github.com/rossocorsa/panigaleclub/internal/upload"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AuthHandler serves login, logout and the session probe.
type AuthHandler struct {
	sessions *Sessions
	gate     *auth.Gate
	uploader *upload.Uploader
	views    *gallery.Views
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(s *Sessions, gate *auth.Gate, uploader *upload.Uploader, views *gallery.Views) *AuthHandler {
	return &AuthHandler{sessions: s, gate: gate, uploader: uploader, views: views}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "login", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Error", "Invalid request body.")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Error", "Please enter email and password.")
		return
	}

	sid := h.sessions.ID(w, r)
	span.SetAttributes(attribute.String("session_id", sid))

	if err := h.gate.Login(ctx, sid, req.Email, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Login failed",
				"Invalid email or password too short (min. 6 characters).")
			return
		}
		span.RecordError(err)
		respondError(w, http.StatusInternalServerError, "Error", "Login is temporarily unavailable.")
		return
	}

	respondJSON(w, http.StatusOK, envelope{
		Data:     models.AuthState{IsLoggedIn: true, UserEmail: req.Email},
		Notices:  []models.Notice{models.InfoNotice("Logged in", "Welcome to the members area!")},
		Redirect: "/members",
	})
}

// Logout handles POST /api/logout: state is destroyed unconditionally, any
// running upload batch is aborted, and the cookie is expired.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "logout", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	if sid, ok := h.sessions.Peek(r); ok {
		h.uploader.Abort(sid)
		h.views.Reset(sid)
		if err := h.gate.Logout(ctx, sid); err != nil {
			span.RecordError(err)
		}
	}
	h.sessions.Clear(w, r)

	respondJSON(w, http.StatusOK, envelope{
		Notices:  []models.Notice{models.InfoNotice("Logged out", "See you on the next ride.")},
		Redirect: "/login",
	})
}

// Session handles GET /api/session, reporting the current auth state.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.sessions.Peek(r)
	if !ok {
		respondData(w, http.StatusOK, models.AuthState{})
		return
	}
	state, err := h.gate.State(r.Context(), sid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error", "Could not read session state.")
		return
	}
	respondData(w, http.StatusOK, state)
}
