// Package auth is the members-area gate. The credential check is an explicit
// placeholder, not a security boundary: any address containing "@" with a
// password of six or more characters is accepted after a simulated delay.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rossocorsa/panigaleclub/internal/models"
	"github.com/rossocorsa/panigaleclub/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("panigaleclub-auth")

// ErrInvalidCredentials is returned when the login predicate fails. No state
// changes on failure.
var ErrInvalidCredentials = errors.New("invalid email or password too short")

// MinPasswordLength is the demo password rule.
const MinPasswordLength = 6

// Valid is the login predicate.
func Valid(email, password string) bool {
	return strings.Contains(email, "@") && len(password) >= MinPasswordLength
}

// Gate performs login and logout against the session store.
type Gate struct {
	store *store.Store
	delay time.Duration
}

// NewGate creates the auth gate. delay simulates the login round trip.
func NewGate(s *store.Store, delay time.Duration) *Gate {
	return &Gate{store: s, delay: delay}
}

// Login validates the credentials and, after the simulated delay, marks the
// session as authenticated with the given email.
func (g *Gate) Login(ctx context.Context, sessionID, email, password string) error {
	ctx, span := tracer.Start(ctx, "auth.login",
		trace.WithAttributes(attribute.String("session_id", sessionID)),
	)
	defer span.End()

	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if !Valid(email, password) {
		span.SetAttributes(attribute.Bool("accepted", false))
		return ErrInvalidCredentials
	}

	state := models.AuthState{IsLoggedIn: true, UserEmail: email}
	if err := g.store.SaveAuth(ctx, sessionID, state); err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttributes(attribute.Bool("accepted", true))
	return nil
}

// Logout clears the session unconditionally, destroying all state it owns.
func (g *Gate) Logout(ctx context.Context, sessionID string) error {
	ctx, span := tracer.Start(ctx, "auth.logout",
		trace.WithAttributes(attribute.String("session_id", sessionID)),
	)
	defer span.End()
	return g.store.DropSession(ctx, sessionID)
}

// State returns the session's authentication state; absent state means not
// logged in.
func (g *Gate) State(ctx context.Context, sessionID string) (models.AuthState, error) {
	return g.store.Auth(ctx, sessionID)
}
