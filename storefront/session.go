package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ashastore/asha-api/models"
)

// State is the session container's position in its lifecycle.
type State int

const (
	// StateUnknown is the initial state, and where a restore lands when
	// verification failed transiently with no cached identity to fall
	// back on. A later retry is allowed.
	StateUnknown State = iota
	// StateAnonymous means no identity exists anywhere.
	StateAnonymous
	// StateVerifying means a token was found and the backend identity
	// check is in flight.
	StateVerifying
	// StateAuthenticated means the backend confirmed the identity.
	StateAuthenticated
	// StateDegraded means verification failed transiently and the
	// locally cached record is being trusted instead.
	StateDegraded
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateVerifying:
		return "verifying"
	case StateAuthenticated:
		return "authenticated"
	case StateDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// ErrEmailMismatch is returned by Login when the backend's identity
// record does not match the email used to log in.
var ErrEmailMismatch = errors.New("identity email does not match login email")

// SessionManager determines who the current user is and keeps that
// determination consistent with the backend's authority. Identity is
// persisted through a TieredSessionStore so it survives the cross-origin
// round trip to the payment provider.
type SessionManager struct {
	client *APIClient
	store  *TieredSessionStore

	mu    sync.Mutex
	state State
	token string
	user  *models.User

	// Delay between verification attempts in RestoreAfterRedirect.
	retryDelay time.Duration
}

func NewSessionManager(client *APIClient, store *TieredSessionStore) *SessionManager {
	return &SessionManager{
		client:     client,
		store:      store,
		state:      StateUnknown,
		retryDelay: 2 * time.Second,
	}
}

// State returns the current lifecycle state.
func (m *SessionManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Token returns the current bearer token, empty when anonymous.
func (m *SessionManager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// CurrentUser returns the current user record, nil when anonymous.
func (m *SessionManager) CurrentUser() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

func (m *SessionManager) cachedUser() *models.User {
	raw, ok := m.store.Get(UserKey)
	if !ok {
		return nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}
	return &user
}

func (m *SessionManager) commit(token string, user *models.User, state State) {
	m.mu.Lock()
	m.token = token
	m.user = user
	m.state = state
	m.mu.Unlock()

	if token != "" {
		_ = m.store.Set(TokenKey, token)
	}
	if user != nil {
		if data, err := json.Marshal(user); err == nil {
			_ = m.store.Set(UserKey, string(data))
		}
	}
}

func (m *SessionManager) purge(state State) {
	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.state = state
	m.mu.Unlock()

	m.store.Purge(TokenKey)
	m.store.Purge(UserKey)
}

// Restore re-derives the session identity at page load. The token is
// resolved through the tiered store (first hit promoted into the durable
// tier), then verified against the backend. The backend's answer always
// overwrites the local cache; only an explicit unauthorized response
// evicts the session, transient failures fall back to the cached record.
func (m *SessionManager) Restore(ctx context.Context) State {
	token, ok := m.store.Reconcile(TokenKey)
	if !ok {
		m.purge(StateAnonymous)
		return StateAnonymous
	}

	m.mu.Lock()
	m.state = StateVerifying
	m.mu.Unlock()

	user, err := m.client.Me(ctx, token)
	if err == nil {
		m.commit(token, user, StateAuthenticated)
		return StateAuthenticated
	}

	if errors.Is(err, ErrUnauthorized) {
		m.purge(StateAnonymous)
		return StateAnonymous
	}

	// Transient failure: a real session must not be evicted by a flaky
	// network, so trust the cache when there is one.
	if cached := m.cachedUser(); cached != nil {
		m.mu.Lock()
		m.token = token
		m.user = cached
		m.state = StateDegraded
		m.mu.Unlock()
		return StateDegraded
	}

	m.mu.Lock()
	m.state = StateUnknown
	m.mu.Unlock()
	return StateUnknown
}

// RestoreAfterRedirect is the payment-success variant of Restore: up to
// three sequential attempts with a fixed delay between them, stopping as
// soon as an attempt reaches a terminal state.
func (m *SessionManager) RestoreAfterRedirect(ctx context.Context) State {
	const attempts = 3

	state := StateUnknown
	for i := 0; i < attempts; i++ {
		state = m.Restore(ctx)
		if state != StateUnknown {
			return state
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return state
			case <-time.After(m.retryDelay):
			}
		}
	}
	return state
}

// Login authenticates with the backend. All prior identity state is
// cleared first, unconditionally. The freshly fetched identity record
// must carry the email that was used to log in; a mismatch is fatal and
// commits nothing.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*models.User, error) {
	m.purge(StateAnonymous)

	resp, err := m.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user, err := m.client.Me(ctx, resp.AccessToken)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(user.Email, email) {
		return nil, ErrEmailMismatch
	}

	m.commit(resp.AccessToken, user, StateAuthenticated)
	return user, nil
}

// Logout clears identity from every storage tier.
func (m *SessionManager) Logout() {
	m.purge(StateAnonymous)
}

// MirrorForRedirect copies the current identity into the backup tiers.
// Called just before navigating to the payment provider, since some
// browsers clear the durable store across a cross-origin round trip.
func (m *SessionManager) MirrorForRedirect() {
	m.store.Mirror(TokenKey)
	m.store.Mirror(UserKey)
}
