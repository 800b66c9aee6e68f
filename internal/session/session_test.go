package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/piorhaii05/eatup/pkg/localstore"
	"github.com/piorhaii05/eatup/pkg/logger"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewManager(localstore.NewMemoryStore(), logger.Discard())

	if _, err := m.CurrentUser(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}

	var events []bool
	unsubscribe := m.OnSessionChange(func(s Session, signedIn bool) {
		events = append(events, signedIn)
	})

	if err := m.SignIn(ctx, Session{User: User{ID: "u1", Name: "An"}, Token: "opaque"}); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	id, err := m.CurrentUserID(ctx)
	if err != nil || id != "u1" {
		t.Fatalf("got id=%q err=%v", id, err)
	}
	if m.Token(ctx) != "opaque" {
		t.Fatalf("token not exposed")
	}

	if err := m.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	unsubscribe()
	_ = m.SignIn(ctx, Session{User: User{ID: "u2"}})

	if len(events) != 2 || !events[0] || events[1] {
		t.Fatalf("listener saw %v", events)
	}
}

func TestManagerRejectsEmptyUser(t *testing.T) {
	m := NewManager(localstore.NewMemoryStore(), logger.Discard())
	if err := m.SignIn(context.Background(), Session{}); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

func TestManagerTokenExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("expired jwt", func(t *testing.T) {
		m := NewManager(localstore.NewMemoryStore(), logger.Discard())
		m.now = func() time.Time { return now }
		_ = m.SignIn(ctx, Session{User: User{ID: "u1"}, Token: signedToken(t, now.Add(-time.Minute))})

		if _, err := m.CurrentUser(ctx); !errors.Is(err, ErrSessionExpired) || !errors.Is(err, ErrNoSession) {
			t.Fatalf("expected expired session, got %v", err)
		}
		if m.Token(ctx) != "" {
			t.Fatal("expired token must not be sent")
		}
	})

	t.Run("valid jwt", func(t *testing.T) {
		m := NewManager(localstore.NewMemoryStore(), logger.Discard())
		m.now = func() time.Time { return now }
		_ = m.SignIn(ctx, Session{User: User{ID: "u1"}, Token: signedToken(t, now.Add(time.Hour))})

		if _, err := m.CurrentUser(ctx); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	})
}
