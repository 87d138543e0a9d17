package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashastore/asha-api/models"
)

func newSession(t *testing.T, baseURL string) (*SessionManager, *TieredSessionStore) {
	t.Helper()
	store, _, _, _ := newTestTiers(t)
	m := NewSessionManager(NewAPIClient(baseURL), store)
	m.retryDelay = time.Millisecond
	return m, store
}

func fakeBackend(t *testing.T, me func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "tok-123",
			"user":         models.User{ID: 7, Email: req.Email},
		})
	})
	mux.HandleFunc("/api/v1/auth/me", me)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func serveUser(user models.User) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(user)
	}
}

func TestSessionLoginCommitsIdentity(t *testing.T) {
	srv := fakeBackend(t, serveUser(models.User{ID: 7, Email: "user@x.com"}))
	m, store := newSession(t, srv.URL)

	user, err := m.Login(context.Background(), "user@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "user@x.com", user.Email)
	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, "tok-123", m.Token())

	tok, ok := store.Get(TokenKey)
	assert.True(t, ok)
	assert.Equal(t, "tok-123", tok)
}

func TestSessionLoginEmailMismatchCommitsNothing(t *testing.T) {
	srv := fakeBackend(t, serveUser(models.User{ID: 9, Email: "other@x.com"}))
	m, store := newSession(t, srv.URL)

	_, err := m.Login(context.Background(), "user@x.com", "pw")
	require.ErrorIs(t, err, ErrEmailMismatch)

	assert.Empty(t, m.Token())
	assert.Nil(t, m.CurrentUser())
	_, ok := store.Get(TokenKey)
	assert.False(t, ok, "no token may be persisted on mismatch")
	_, ok = store.Get(UserKey)
	assert.False(t, ok)
}

func TestSessionRestoreFreshRecordWins(t *testing.T) {
	fresh := models.User{ID: 7, Email: "fresh@x.com", Username: "fresh"}
	srv := fakeBackend(t, serveUser(fresh))
	m, store := newSession(t, srv.URL)

	// Stale cached record under the same token.
	require.NoError(t, store.Set(TokenKey, "tok-123"))
	staleJSON, _ := json.Marshal(models.User{ID: 7, Email: "stale@x.com"})
	require.NoError(t, store.Set(UserKey, string(staleJSON)))

	state := m.Restore(context.Background())

	assert.Equal(t, StateAuthenticated, state)
	assert.Equal(t, "fresh@x.com", m.CurrentUser().Email)

	raw, _ := store.Get(UserKey)
	var cached models.User
	require.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.Equal(t, "fresh@x.com", cached.Email, "backend response overwrites the cache")
}

func TestSessionRestoreUnauthorizedPurgesEverything(t *testing.T) {
	srv := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	m, store := newSession(t, srv.URL)

	require.NoError(t, store.Set(TokenKey, "dead-token"))
	store.Mirror(TokenKey)

	state := m.Restore(context.Background())

	assert.Equal(t, StateAnonymous, state)
	_, ok := store.Get(TokenKey)
	assert.False(t, ok, "401 must evict every tier")
}

func TestSessionRestoreTransientFailureKeepsCachedUser(t *testing.T) {
	// Unreachable backend: connection refused, not a 401.
	m, store := newSession(t, "http://127.0.0.1:1")

	require.NoError(t, store.Set(TokenKey, "tok-123"))
	cachedJSON, _ := json.Marshal(models.User{ID: 3, Email: "jane@x.com"})
	require.NoError(t, store.Set(UserKey, string(cachedJSON)))

	state := m.Restore(context.Background())

	assert.Equal(t, StateDegraded, state)
	require.NotNil(t, m.CurrentUser())
	assert.Equal(t, "jane@x.com", m.CurrentUser().Email, "no logout on a transient failure")
}

func TestSessionRestoreTransientFailureNoCacheStaysUnknown(t *testing.T) {
	m, store := newSession(t, "http://127.0.0.1:1")
	require.NoError(t, store.Set(TokenKey, "tok-123"))

	assert.Equal(t, StateUnknown, m.Restore(context.Background()))
}

func TestSessionRestoreNoTokenAnywhereIsAnonymous(t *testing.T) {
	srv := fakeBackend(t, serveUser(models.User{}))
	m, _ := newSession(t, srv.URL)

	assert.Equal(t, StateAnonymous, m.Restore(context.Background()))
}

func TestSessionRestorePromotesCookieBackup(t *testing.T) {
	srv := fakeBackend(t, serveUser(models.User{ID: 7, Email: "user@x.com"}))

	durable := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	cookies, err := NewCookieStore("https://shop.example.com")
	require.NoError(t, err)
	store := NewTieredSessionStore(durable, NewMemoryStore(), cookies)

	// Durable tier was wiped by the cross-origin redirect; only the
	// cookie backup survived.
	require.NoError(t, cookies.Set(TokenKey+backupSuffix, "tok-123"))

	m := NewSessionManager(NewAPIClient(srv.URL), store)
	state := m.Restore(context.Background())

	assert.Equal(t, StateAuthenticated, state)
	tok, ok := durable.Get(TokenKey)
	assert.True(t, ok)
	assert.Equal(t, "tok-123", tok, "backup token promoted into the durable tier")
}

func TestRestoreAfterRedirectRetriesThreeTimes(t *testing.T) {
	var hits atomic.Int32
	srv := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	m, store := newSession(t, srv.URL)
	require.NoError(t, store.Set(TokenKey, "tok-123"))

	state := m.RestoreAfterRedirect(context.Background())

	assert.Equal(t, StateUnknown, state)
	assert.Equal(t, int32(3), hits.Load())
}

func TestRestoreAfterRedirectStopsOnSuccess(t *testing.T) {
	var hits atomic.Int32
	srv := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(models.User{ID: 7, Email: "user@x.com"})
	})
	m, store := newSession(t, srv.URL)
	require.NoError(t, store.Set(TokenKey, "tok-123"))

	assert.Equal(t, StateAuthenticated, m.RestoreAfterRedirect(context.Background()))
	assert.Equal(t, int32(1), hits.Load())
}

func TestSessionLogoutPurgesAllTiers(t *testing.T) {
	srv := fakeBackend(t, serveUser(models.User{ID: 7, Email: "user@x.com"}))
	m, store := newSession(t, srv.URL)

	_, err := m.Login(context.Background(), "user@x.com", "pw")
	require.NoError(t, err)
	m.MirrorForRedirect()

	m.Logout()

	assert.Equal(t, StateAnonymous, m.State())
	_, ok := store.Get(TokenKey)
	assert.False(t, ok)
	_, ok = store.Get(UserKey)
	assert.False(t, ok)
}
