package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "portal"
	DefaultTTL = 7 * 24 * time.Hour
)

// SessionStore keeps per-browser portal state in Redis.
// Key format: portal:<sid>:<key>
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore wraps the given client. Keys expire ttl after their last
// write; a non-positive ttl uses DefaultTTL.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Scope returns the storage of one portal session.
func (s *SessionStore) Scope(sid string) *Scope {
	return &Scope{store: s, sid: sid}
}

// Scope is the key/value storage of a single portal session.
type Scope struct {
	store *SessionStore
	sid   string
}

func (s *Scope) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.store.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Scope) Set(ctx context.Context, key, value string) error {
	if err := s.store.client.Set(ctx, s.key(key), value, s.store.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Scope) Delete(ctx context.Context, key string) error {
	if err := s.store.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *Scope) key(key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, s.sid, key)
}
