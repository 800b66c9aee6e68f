package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/piorhaii05/eatup/pkg/localstore"
)

// StoreKey is where the signed-in session lives in the local store.
const StoreKey = "currentUser"

var (
	ErrNoSession      = errors.New("no signed-in user")
	ErrSessionExpired = fmt.Errorf("%w: session expired", ErrNoSession)
)

type User struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Role         string `json:"role,omitempty"`
	RestaurantID string `json:"restaurant_id,omitempty"`
}

type Session struct {
	User  User   `json:"user"`
	Token string `json:"token,omitempty"`
}

// Listener is told about every sign-in and sign-out. signedIn is false after
// a sign-out, in which case s is the zero value.
type Listener func(s Session, signedIn bool)

// Manager is the single owner of the current session. Screens ask it instead
// of re-reading the store themselves.
type Manager struct {
	store localstore.Store
	log   *slog.Logger
	now   func() time.Time

	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
}

func NewManager(store localstore.Store, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		store:     store,
		log:       log.With("component", "session"),
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
}

func (m *Manager) Current(ctx context.Context) (Session, error) {
	s, ok, err := localstore.Get[Session](m.store, StoreKey)
	if err != nil {
		return Session{}, err
	}
	if !ok || strings.TrimSpace(s.User.ID) == "" {
		return Session{}, ErrNoSession
	}
	if tokenExpired(s.Token, m.now()) {
		return Session{}, ErrSessionExpired
	}
	return s, nil
}

func (m *Manager) CurrentUser(ctx context.Context) (User, error) {
	s, err := m.Current(ctx)
	if err != nil {
		return User{}, err
	}
	return s.User, nil
}

func (m *Manager) CurrentUserID(ctx context.Context) (string, error) {
	u, err := m.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

// Token is an apiclient.TokenSource.
func (m *Manager) Token(ctx context.Context) string {
	s, err := m.Current(ctx)
	if err != nil {
		return ""
	}
	return s.Token
}

func (m *Manager) SignIn(ctx context.Context, s Session) error {
	if strings.TrimSpace(s.User.ID) == "" {
		return errors.New("session: user id is required")
	}
	if err := localstore.Put(m.store, StoreKey, s); err != nil {
		return err
	}
	m.log.Info("signed in", slog.String("user_id", s.User.ID))
	m.notify(s, true)
	return nil
}

func (m *Manager) SignOut(ctx context.Context) error {
	if err := localstore.Delete(m.store, StoreKey); err != nil {
		return err
	}
	m.log.Info("signed out")
	m.notify(Session{}, false)
	return nil
}

// OnSessionChange registers l and returns a func that unregisters it.
func (m *Manager) OnSessionChange(l Listener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = l
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Manager) notify(s Session, signedIn bool) {
	m.mu.Lock()
	ls := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		ls = append(ls, l)
	}
	m.mu.Unlock()

	for _, l := range ls {
		l(s, signedIn)
	}
}

// tokenExpired only looks at the exp claim; signature checks are the
// backend's job. Opaque (non-JWT) tokens never expire here.
func tokenExpired(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(now)
}
