package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/rossocorsa/panigaleclub/internal/auth"
	"github.com/rossocorsa/panigaleclub/internal/models"
)

const (
	sessionCookie = "panigale_session"
	sessionIDKey  = "sid"
)

type contextKey string

const ctxSessionID contextKey = "session_id"

// Sessions issues and reads the session cookie. The cookie carries only an
// opaque session id; all state lives in the session store.
type Sessions struct {
	store *sessions.CookieStore
}

// NewSessions builds the cookie store with the configured secret.
func NewSessions(secret string) *Sessions {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: cs}
}

// ID returns the request's session id, minting one (and setting the cookie)
// when the request carries none.
func (s *Sessions) ID(w http.ResponseWriter, r *http.Request) string {
	session, _ := s.store.Get(r, sessionCookie)
	if sid, ok := session.Values[sessionIDKey].(string); ok && sid != "" {
		return sid
	}
	sid := uuid.New().String()
	session.Values[sessionIDKey] = sid
	if err := session.Save(r, w); err != nil {
		log.Printf("Warning: failed to save session cookie: %v", err)
	}
	return sid
}

// Peek returns the session id without minting a new one.
func (s *Sessions) Peek(r *http.Request) (string, bool) {
	session, _ := s.store.Get(r, sessionCookie)
	sid, ok := session.Values[sessionIDKey].(string)
	return sid, ok && sid != ""
}

// Clear expires the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) {
	session, _ := s.store.Get(r, sessionCookie)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		log.Printf("Warning: failed to clear session cookie: %v", err)
	}
}

// sessionID pulls the authenticated session id that RequireMember stashed on
// the request context.
func sessionID(r *http.Request) string {
	sid, _ := r.Context().Value(ctxSessionID).(string)
	return sid
}

// RequireMember gates the members area: requests without an authenticated
// session get an access-denied notice and are pointed back at the login page.
func RequireMember(s *Sessions, gate *auth.Gate, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, ok := s.Peek(r)
		if ok {
			state, err := gate.State(r.Context(), sid)
			if err != nil {
				respondError(w, http.StatusInternalServerError, "Error", "Could not read session state.")
				return
			}
			if state.IsLoggedIn {
				ctx := context.WithValue(r.Context(), ctxSessionID, sid)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}
		respondJSON(w, http.StatusUnauthorized, envelope{
			Notices:  []models.Notice{models.ErrorNotice("Access denied", "Please log in to view the members area.")},
			Redirect: "/login",
		})
	})
}
