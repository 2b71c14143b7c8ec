package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eldato-web/models"
)

func newTestManager(t *testing.T) (*Manager, *MemoryStore, *time.Time) {
	t.Helper()
	store := NewMemoryStore()
	m := NewManager(store, time.Hour, 3)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	return m, store, &now
}

func TestPushHistory(t *testing.T) {
	tests := []struct {
		name    string
		history []string
		entry   string
		want    []string
	}{
		{"first entry", nil, "gasfiter", []string{"gasfiter"}},
		{"most recent first", []string{"a", "b"}, "c", []string{"c", "a", "b"}},
		{"caps at three", []string{"a", "b", "c"}, "d", []string{"d", "a", "b"}},
		{"duplicate moves to front", []string{"a", "b", "c"}, "c", []string{"c", "a", "b"}},
		{"duplicate ignores case", []string{"Pintor", "b"}, "pintor", []string{"pintor", "b"}},
		{"blank keeps history", []string{"a"}, "   ", []string{"a"}},
		{"entry is trimmed", nil, "  electricista ", []string{"electricista"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PushHistory(tt.history, tt.entry, 3))
		})
	}
}

func TestSetDerivesRoleOnce(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	s, err := m.Set(ctx, models.User{ID: 7, Name: "Ana", IsClient: true, IsProvider: true}, "upstream")
	require.NoError(t, err)
	assert.Equal(t, models.RoleProvider, s.Role)
	assert.NotEmpty(t, s.ID)

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Actor{UserID: 7, Role: models.RoleProvider, Name: "Ana"}, got.Actor())
	assert.Equal(t, "upstream", got.Token)

	_, err = m.Set(ctx, models.User{ID: 7}, "")
	assert.Error(t, err)
}

func TestClear(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	s, err := m.Set(ctx, models.User{ID: 1, IsClient: true}, "tok")
	require.NoError(t, err)

	require.NoError(t, m.Clear(ctx, s.ID))
	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, m.Clear(ctx, s.ID))
}

func TestExpiredSessionIsRemovedOnGet(t *testing.T) {
	m, store, now := newTestManager(t)
	ctx := context.Background()

	s, err := m.Set(ctx, models.User{ID: 1, IsClient: true}, "tok")
	require.NoError(t, err)

	*now = now.Add(2 * time.Hour)
	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchHistoryLifecycle(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	s, err := m.Set(ctx, models.User{ID: 1, IsClient: true}, "tok")
	require.NoError(t, err)

	history, err := m.SearchHistory(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	for _, q := range []string{"gasfiter", "pintor", "jardinero", "electricista"} {
		_, err = m.PushSearch(ctx, s.ID, q)
		require.NoError(t, err)
	}
	history, err = m.SearchHistory(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"electricista", "jardinero", "pintor"}, history)

	require.NoError(t, m.ClearSearchHistory(ctx, s.ID))
	history, err = m.SearchHistory(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestPurge(t *testing.T) {
	m, _, now := newTestManager(t)
	ctx := context.Background()

	_, err := m.Set(ctx, models.User{ID: 1, IsClient: true}, "a")
	require.NoError(t, err)
	*now = now.Add(30 * time.Minute)
	live, err := m.Set(ctx, models.User{ID: 2, IsProvider: true}, "b")
	require.NoError(t, err)

	*now = now.Add(45 * time.Minute)
	n, err := m.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = m.Get(ctx, live.ID)
	assert.NoError(t, err)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	s := &Session{ID: "x", SearchHistory: []string{"a"}, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(ctx, s))

	s.SearchHistory[0] = "changed"
	got, err := store.Load(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.SearchHistory)
}

func TestSealer(t *testing.T) {
	sealer, err := NewSealer("secret")
	require.NoError(t, err)

	sealed, err := sealer.Seal([]byte("upstream-token"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "upstream-token")

	plain, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "upstream-token", string(plain))

	other, err := NewSealer("other")
	require.NoError(t, err)
	_, err = other.Open(sealed)
	assert.Error(t, err)

	_, err = sealer.Open([]byte("short"))
	assert.Error(t, err)

	_, err = NewSealer("")
	assert.Error(t, err)
}
