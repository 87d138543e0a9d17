package storefront

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTiers(t *testing.T) (*TieredSessionStore, *FileStore, *MemoryStore, *CookieStore) {
	t.Helper()
	durable := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	tab := NewMemoryStore()
	cookies, err := NewCookieStore("https://shop.example.com")
	require.NoError(t, err)
	return NewTieredSessionStore(durable, tab, cookies), durable, tab, cookies
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	store := NewFileStore(path)

	require.NoError(t, store.Set("token", "abc"))

	// A fresh accessor over the same file sees the value.
	v, ok := NewFileStore(path).Get("token")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	store.Delete("token")
	_, ok = store.Get("token")
	assert.False(t, ok)
}

func TestCookieStoreEscapesValues(t *testing.T) {
	store, err := NewCookieStore("https://shop.example.com")
	require.NoError(t, err)

	require.NoError(t, store.Set("user", `{"email":"jane@x.com"}`))

	v, ok := store.Get("user")
	assert.True(t, ok)
	assert.Equal(t, `{"email":"jane@x.com"}`, v)
}

func TestTieredStorePrecedence(t *testing.T) {
	tiered, durable, tab, cookies := newTestTiers(t)

	require.NoError(t, cookies.Set("token_backup", "from-cookie"))
	require.NoError(t, tab.Set("token_backup", "from-tab"))
	require.NoError(t, durable.Set("token", "from-durable"))

	v, ok := tiered.Get("token")
	assert.True(t, ok)
	assert.Equal(t, "from-durable", v, "durable tier wins")

	durable.Delete("token")
	v, _ = tiered.Get("token")
	assert.Equal(t, "from-tab", v, "tab backup beats cookie backup")

	tab.Delete("token_backup")
	v, _ = tiered.Get("token")
	assert.Equal(t, "from-cookie", v)
}

func TestTieredStoreReconcilePromotesBackup(t *testing.T) {
	tiered, durable, _, cookies := newTestTiers(t)

	require.NoError(t, cookies.Set("token_backup", "recovered"))

	v, ok := tiered.Reconcile("token")
	require.True(t, ok)
	assert.Equal(t, "recovered", v)

	// The hit was promoted into the durable tier.
	v, ok = durable.Get("token")
	assert.True(t, ok)
	assert.Equal(t, "recovered", v)
}

func TestTieredStoreMirrorAndPurge(t *testing.T) {
	tiered, _, tab, cookies := newTestTiers(t)

	require.NoError(t, tiered.Set("token", "tok-1"))
	tiered.Mirror("token")

	v, ok := tab.Get("token_backup")
	assert.True(t, ok)
	assert.Equal(t, "tok-1", v)
	v, ok = cookies.Get("token_backup")
	assert.True(t, ok)
	assert.Equal(t, "tok-1", v)

	tiered.Purge("token")
	_, ok = tiered.Get("token")
	assert.False(t, ok)
	_, ok = tab.Get("token_backup")
	assert.False(t, ok)
}
