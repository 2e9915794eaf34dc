package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"favsvc/internal/cache"
	apperrors "favsvc/internal/errors"
)

const sessionKeyPrefix = "session:"

// Session is the server-side state behind a session token.
type Session struct {
	ID        string    `json:"-"`
	UserID    uint64    `json:"user_id"`
	CSRFToken string    `json:"csrf_token"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenStoreInterface defines session persistence. Get returns (nil, nil) for
// an unknown or expired session.
type TokenStoreInterface interface {
	StoreSession(ctx context.Context, session *Session, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// TokenStore keeps sessions in Redis.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// StoreSession writes the session with TTL.
func (s *TokenStore) StoreSession(ctx context.Context, session *Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.cache.Set(ctx, sessionKeyPrefix+session.ID, payload, ttl); err != nil {
		return fmt.Errorf("store session: %w: %w", apperrors.ErrStorageUnavailable, err)
	}
	return nil
}

// GetSession loads a session.
func (s *TokenStore) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	data, err := s.cache.Get(ctx, sessionKeyPrefix+sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w: %w", apperrors.ErrStorageUnavailable, err)
	}
	if data == nil {
		return nil, nil
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	session.ID = sessionID
	return &session, nil
}

// DeleteSession removes a session. Deleting an unknown session succeeds.
func (s *TokenStore) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.cache.Delete(ctx, sessionKeyPrefix+sessionID); err != nil {
		return fmt.Errorf("delete session: %w: %w", apperrors.ErrStorageUnavailable, err)
	}
	return nil
}

// NewCSRFToken returns a random anti-forgery token.
func NewCSRFToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ValidCSRF compares tokens in constant time. An empty expected token never matches.
func ValidCSRF(expected, got string) bool {
	if expected == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}
