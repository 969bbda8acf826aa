package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rossocorsa/panigaleclub/internal/store"
)

func newTestGate(t *testing.T) (*Gate, *store.Store) {
	t.Helper()
	s := store.New(store.NewMemoryKV())
	return NewGate(s, 0), s
}

func TestValid(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		password string
		want     bool
	}{
		{"accepts email with @ and long password", "rider@club.it", "123456", true},
		{"rejects short password", "rider@club.it", "12345", false},
		{"rejects email without @", "rider.club.it", "123456", false},
		{"rejects both empty", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Valid(tc.email, tc.password); got != tc.want {
				t.Errorf("Valid(%q, %q) = %v, want %v", tc.email, tc.password, got, tc.want)
			}
		})
	}
}

func TestGate_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("marks the session as logged in", func(t *testing.T) {
		g, _ := newTestGate(t)
		if err := g.Login(ctx, "session-1", "rider@club.it", "123456"); err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		state, err := g.State(ctx, "session-1")
		if err != nil {
			t.Fatalf("State() error = %v", err)
		}
		if !state.IsLoggedIn {
			t.Error("IsLoggedIn should be true")
		}
		if state.UserEmail != "rider@club.it" {
			t.Errorf("UserEmail = %v, want rider@club.it", state.UserEmail)
		}
	})

	t.Run("rejected credentials leave the session untouched", func(t *testing.T) {
		g, _ := newTestGate(t)
		if err := g.Login(ctx, "session-1", "rider@club.it", "12345"); err != ErrInvalidCredentials {
			t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
		}

		state, err := g.State(ctx, "session-1")
		if err != nil {
			t.Fatalf("State() error = %v", err)
		}
		if state.IsLoggedIn {
			t.Error("IsLoggedIn should stay false after a rejected login")
		}
	})

	t.Run("cancelled context aborts the simulated delay", func(t *testing.T) {
		s := store.New(store.NewMemoryKV())
		g := NewGate(s, time.Hour)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if err := g.Login(cancelled, "session-1", "rider@club.it", "123456"); err != context.Canceled {
			t.Errorf("Login() error = %v, want context.Canceled", err)
		}
	})
}

func TestGate_Logout(t *testing.T) {
	ctx := context.Background()
	g, _ := newTestGate(t)

	if err := g.Login(ctx, "session-1", "rider@club.it", "123456"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := g.Logout(ctx, "session-1"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	state, err := g.State(ctx, "session-1")
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if state.IsLoggedIn {
		t.Error("IsLoggedIn should be false after logout")
	}
}
