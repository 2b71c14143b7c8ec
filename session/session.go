package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"eldato-web/models"
)

// DefaultHistorySize is how many recent searches are remembered per session
const DefaultHistorySize = 3

// ErrNotFound is returned when a session does not exist or has expired
var ErrNotFound = errors.New("session not found")

// Session is the server-side context of a logged in user.
// Role is derived once at login and carried unchanged for the session lifetime.
type Session struct {
	ID            string
	UserID        uint
	Role          models.Role
	DisplayName   string
	Token         string
	SearchHistory []string
	ExpiresAt     time.Time
}

// Actor returns the identity used by the domain operations
func (s *Session) Actor() models.Actor {
	return models.Actor{UserID: s.UserID, Role: s.Role, Name: s.DisplayName}
}

// Store persists sessions
type Store interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Manager exposes get/set/clear over a Store
type Manager struct {
	store       Store
	ttl         time.Duration
	historySize int
	now         func() time.Time
}

// NewManager creates a session manager
func NewManager(store Store, ttl time.Duration, historySize int) *Manager {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{store: store, ttl: ttl, historySize: historySize, now: time.Now}
}

// Set opens a new session for user holding the upstream API token
func (m *Manager) Set(ctx context.Context, user models.User, token string) (*Session, error) {
	if token == "" {
		return nil, errors.New("empty upstream token")
	}
	role := user.Role
	if !role.IsValid() {
		role = models.DeriveRole(user.IsClient, user.IsProvider)
	}

	s := &Session{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		Role:          role,
		DisplayName:   user.Name,
		Token:         token,
		SearchHistory: []string{},
		ExpiresAt:     m.now().Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}

	log.Printf("✅ Session opened for user %d as %s", s.UserID, s.Role)
	return s, nil
}

// Get loads a live session. Expired sessions are removed and reported as not found.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	s, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.now().Before(s.ExpiresAt) {
		if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
			log.Printf("⚠️  Could not remove expired session %s: %v", id, err)
		}
		return nil, ErrNotFound
	}
	return s, nil
}

// Clear ends a session. Clearing an unknown session is not an error.
func (m *Manager) Clear(ctx context.Context, id string) error {
	err := m.store.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// PushSearch records a search in the session history and returns the new history
func (m *Manager) PushSearch(ctx context.Context, id, query string) ([]string, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := PushHistory(s.SearchHistory, query, m.historySize)
	if equalHistory(next, s.SearchHistory) {
		return next, nil
	}
	s.SearchHistory = next
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return next, nil
}

// SearchHistory returns the recent searches of a session, most recent first
func (m *Manager) SearchHistory(ctx context.Context, id string) ([]string, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.SearchHistory == nil {
		return []string{}, nil
	}
	return s.SearchHistory, nil
}

// ClearSearchHistory empties the recent searches of a session
func (m *Manager) ClearSearchHistory(ctx context.Context, id string) error {
	s, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	s.SearchHistory = []string{}
	return m.store.Save(ctx, s)
}

// Purge deletes every session expired at now
func (m *Manager) Purge(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx, m.now())
}

// PushHistory puts entry at the front of history, dropping an older duplicate
// and keeping at most max entries. Blank entries leave history unchanged.
func PushHistory(history []string, entry string, max int) []string {
	if max <= 0 {
		max = DefaultHistorySize
	}
	entry = strings.TrimSpace(entry)
	out := make([]string, 0, max)
	if entry == "" {
		out = append(out, history...)
		if len(out) > max {
			out = out[:max]
		}
		return out
	}

	out = append(out, entry)
	for _, h := range history {
		if len(out) == max {
			break
		}
		if strings.EqualFold(h, entry) {
			continue
		}
		out = append(out, h)
	}
	return out
}

func equalHistory(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
