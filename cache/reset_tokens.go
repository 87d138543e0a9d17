package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetTokenStore keeps password-reset tokens in redis, keyed by token,
// expiring with the configured TTL. A token maps to the email it was
// issued for and is consumed on use.
type ResetTokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResetTokenStore(client *redis.Client, ttl time.Duration) *ResetTokenStore {
	return &ResetTokenStore{client: client, ttl: ttl}
}

func (s *ResetTokenStore) key(token string) string {
	return "reset:token:" + token
}

// Save stores token → email for the TTL window.
func (s *ResetTokenStore) Save(ctx context.Context, token, email string) error {
	return s.client.Set(ctx, s.key(token), email, s.ttl).Err()
}

// Consume returns the email a token was issued for and deletes it.
// A missing or expired token returns ("", nil).
func (s *ResetTokenStore) Consume(ctx context.Context, token string) (string, error) {
	email, err := s.client.GetDel(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return email, nil
}

// NewClient dials redis with the given address and password.
func NewClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
}
