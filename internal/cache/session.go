package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ali34f/VideoTranscriber/internal/auth"
	"github.com/Ali34f/VideoTranscriber/internal/model"
)

// sessionPrefix is the Redis key prefix for session entries.
const sessionPrefix = "session:"

// SessionStore persists sessions in Redis with a fixed TTL.
// Sessions are the only server-side login state; losing Redis logs
// everyone out but loses no durable data.
type SessionStore struct {
	cache *Cache
	ttl   time.Duration
}

// NewSessionStore wraps a Cache as a session store.
func NewSessionStore(cache *Cache, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: cache, ttl: ttl}
}

// CreateSession mints a fresh token and stores the session under it.
// Always issuing a new token (rather than reusing one presented by the
// caller) is what rotates the session identifier on login and signup.
func (s *SessionStore) CreateSession(ctx context.Context, sess *model.Session) (string, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	if err := s.cache.client.Set(ctx, sessionPrefix+token, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return token, nil
}

// GetSession resolves a token to its session.
// Returns (nil, nil) for unknown or expired tokens; an error means the
// store itself is unreachable.
func (s *SessionStore) GetSession(ctx context.Context, token string) (*model.Session, error) {
	if !auth.ValidTokenFormat(token) {
		return nil, nil
	}

	data, err := s.cache.client.Get(ctx, sessionPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// Corrupted entry - treat as no session
		return nil, nil //nolint:nilerr
	}

	return &sess, nil
}

// DeleteSession invalidates a token. Deleting an unknown token is a no-op,
// which makes logout idempotent.
func (s *SessionStore) DeleteSession(ctx context.Context, token string) error {
	if !auth.ValidTokenFormat(token) {
		return nil
	}

	if err := s.cache.client.Del(ctx, sessionPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
