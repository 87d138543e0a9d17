package storefront

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

// Storage key names. Backup tiers hold the same values under the
// "_backup" names so a half-restored state is distinguishable from the
// primary copy.
const (
	TokenKey     = "token"
	UserKey      = "user"
	CartKey      = "cart"
	backupSuffix = "_backup"
)

// Store is a minimal persistent key-value accessor. Implementations are
// not required to survive process restarts.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string)
}

// MemoryStore is the tab-scoped tier: it lives for the process only.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// FileStore is the durable tier: a single JSON file rewritten on every
// mutation. Loads lazily and tolerates a missing file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() map[string]string {
	values := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		return values
	}
	_ = json.Unmarshal(data, &values)
	return values
}

func (s *FileStore) save(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.load()[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.load()
	values[key] = value
	return s.save(values)
}

func (s *FileStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.load()
	delete(values, key)
	_ = s.save(values)
}

// CookieStore is the cookie tier, backed by a cookie jar scoped to the
// storefront origin.
type CookieStore struct {
	jar    http.CookieJar
	origin *url.URL
}

func NewCookieStore(origin string) (*CookieStore, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &CookieStore{jar: jar, origin: u}, nil
}

func (s *CookieStore) Get(key string) (string, bool) {
	for _, c := range s.jar.Cookies(s.origin) {
		if c.Name == key && c.Value != "" {
			v, err := url.QueryUnescape(c.Value)
			if err != nil {
				return "", false
			}
			return v, true
		}
	}
	return "", false
}

func (s *CookieStore) Set(key, value string) error {
	s.jar.SetCookies(s.origin, []*http.Cookie{{
		Name:  key,
		Value: url.QueryEscape(value),
		Path:  "/",
	}})
	return nil
}

func (s *CookieStore) Delete(key string) {
	s.jar.SetCookies(s.origin, []*http.Cookie{{
		Name:   key,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	}})
}

// TieredSessionStore formalizes the durable / tab-scoped / cookie
// redundancy as one accessor with a fixed precedence order. Backup tiers
// file values under "<key>_backup".
type TieredSessionStore struct {
	durable Store
	backups []Store
}

func NewTieredSessionStore(durable Store, backups ...Store) *TieredSessionStore {
	return &TieredSessionStore{durable: durable, backups: backups}
}

// Get consults the durable tier first, then each backup in order.
func (t *TieredSessionStore) Get(key string) (string, bool) {
	if v, ok := t.durable.Get(key); ok {
		return v, true
	}
	for _, b := range t.backups {
		if v, ok := b.Get(key + backupSuffix); ok {
			return v, true
		}
	}
	return "", false
}

// Reconcile promotes the first backup hit for key into the durable tier
// and returns the resolved value. The durable copy always wins when
// present.
func (t *TieredSessionStore) Reconcile(key string) (string, bool) {
	if v, ok := t.durable.Get(key); ok {
		return v, true
	}
	for _, b := range t.backups {
		if v, ok := b.Get(key + backupSuffix); ok {
			_ = t.durable.Set(key, v)
			return v, true
		}
	}
	return "", false
}

// Set writes the durable tier only; backups are populated explicitly via
// Mirror around the payment-redirect window.
func (t *TieredSessionStore) Set(key, value string) error {
	return t.durable.Set(key, value)
}

// Mirror copies the durable value for key into every backup tier.
func (t *TieredSessionStore) Mirror(key string) {
	v, ok := t.durable.Get(key)
	if !ok {
		return
	}
	for _, b := range t.backups {
		_ = b.Set(key+backupSuffix, v)
	}
}

// Purge removes key from every tier.
func (t *TieredSessionStore) Purge(key string) {
	t.durable.Delete(key)
	for _, b := range t.backups {
		b.Delete(key + backupSuffix)
	}
}
