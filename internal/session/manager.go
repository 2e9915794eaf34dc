package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"favsvc/internal/auth"
)

// Manager issues, resolves and destroys sessions.
type Manager struct {
	jwt   *auth.JWTService
	store auth.TokenStoreInterface
	ttl   time.Duration
}

// NewManager creates a session manager.
func NewManager(jwt *auth.JWTService, store auth.TokenStoreInterface, ttl time.Duration) *Manager {
	return &Manager{jwt: jwt, store: store, ttl: ttl}
}

// TTL is the lifetime of new sessions.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a session for userID and returns its signed token.
func (m *Manager) Issue(ctx context.Context, userID uint64) (string, *auth.Session, error) {
	csrf, err := auth.NewCSRFToken()
	if err != nil {
		return "", nil, err
	}

	sess := &auth.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CSRFToken: csrf,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.store.StoreSession(ctx, sess, m.ttl); err != nil {
		return "", nil, err
	}

	token, err := m.jwt.GenerateSessionToken(sess.ID, userID, m.ttl)
	if err != nil {
		_ = m.store.DeleteSession(ctx, sess.ID)
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, sess, nil
}

// Resolve maps a token to an identity. Bad, expired or revoked tokens yield
// auth.ErrInvalidToken; store failures are returned as they are.
func (m *Manager) Resolve(ctx context.Context, token string) (*Identity, error) {
	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	sess, err := m.store.GetSession(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.UserID != claims.UserID {
		return nil, auth.ErrInvalidToken
	}

	return &Identity{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		CSRFToken: sess.CSRFToken,
	}, nil
}

// Destroy revokes a session. Unknown ids are a no-op.
func (m *Manager) Destroy(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return m.store.DeleteSession(ctx, sessionID)
}
