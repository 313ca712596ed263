package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fleettrack/internal/cache"
)

const sessionKeyPrefix = "session:"

// SessionStoreInterface defines storage operations for issued session tokens.
// A token whose ID is absent from the store is treated as revoked even if
// its signature still verifies.
type SessionStoreInterface interface {
	StoreSession(ctx context.Context, tokenID, email string, ttl time.Duration) error
	GetSession(ctx context.Context, tokenID string) (email string, err error)
	DeleteSession(ctx context.Context, tokenID string) error
}

// SessionStore keeps issued session token IDs in Redis.
type SessionStore struct {
	cache *cache.Client
}

var _ SessionStoreInterface = (*SessionStore)(nil)

// NewSessionStore creates a new session store.
func NewSessionStore(cache *cache.Client) *SessionStore {
	return &SessionStore{cache: cache}
}

// StoreSession registers a session token ID with TTL.
func (s *SessionStore) StoreSession(ctx context.Context, tokenID, email string, ttl time.Duration) error {
	payload, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return fmt.Errorf("marshal session data: %w", err)
	}
	return s.cache.Set(ctx, sessionKeyPrefix+tokenID, payload, ttl)
}

// GetSession returns the email bound to a session token ID.
func (s *SessionStore) GetSession(ctx context.Context, tokenID string) (string, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+tokenID)
	if err != nil || data == nil {
		return "", fmt.Errorf("session not found")
	}

	var sessionData map[string]string
	if err := json.Unmarshal(data, &sessionData); err != nil {
		return "", fmt.Errorf("unmarshal session data: %w", err)
	}

	email, ok := sessionData["email"]
	if !ok || email == "" {
		return "", fmt.Errorf("invalid email in session data")
	}
	return email, nil
}

// DeleteSession revokes a session token ID.
func (s *SessionStore) DeleteSession(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+tokenID)
}
