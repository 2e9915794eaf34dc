package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"favsvc/internal/auth"
	apperrors "favsvc/internal/errors"
	"favsvc/internal/model"
	"favsvc/internal/repository"
	"favsvc/internal/session"
)

const msgLoggedIn = "Logged in successfully."

// SessionManager issues and revokes sessions.
type SessionManager interface {
	Issue(ctx context.Context, userID uint64) (token string, sess *auth.Session, err error)
	Destroy(ctx context.Context, sessionID string) error
}

// PasswordHasher hashes and verifies passwords. auth.PasswordHasher implements it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (match bool, needsRehash bool, err error)
	VerifyDummy(password string)
}

var _ PasswordHasher = (*auth.PasswordHasher)(nil)

// AuthResult is the user-facing outcome of a login attempt.
type AuthResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LoginResult carries the new session on success.
type LoginResult struct {
	AuthResult
	SessionToken string      `json:"-"`
	CSRFToken    string      `json:"-"`
	User         *model.User `json:"-"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	sessions SessionManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, hasher PasswordHasher, sessions SessionManager) AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		sessions: sessions,
	}
}

func invalidCredentials() (*LoginResult, error) {
	return &LoginResult{AuthResult: AuthResult{Success: false, Message: apperrors.MsgInvalidCredentials}}, apperrors.ErrInvalidCredentials
}

// Login verifies the credentials and starts a new session, revoking the
// session the request arrived with, if any. Unknown usernames and wrong
// passwords fail identically.
func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		s.hasher.VerifyDummy(password)
		log.Ctx(ctx).Info().Msg("login failed")
		return invalidCredentials()
	}

	match, needsRehash, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		// Unreadable hashes still pay for a full verification.
		s.hasher.VerifyDummy(password)
		log.Ctx(ctx).Error().Err(err).Uint64("user_id", user.ID).Msg("stored password hash unreadable")
		return invalidCredentials()
	}
	if !match {
		log.Ctx(ctx).Info().Msg("login failed")
		return invalidCredentials()
	}

	if needsRehash {
		s.upgradeHash(ctx, user, password)
	}

	if prior := session.FromContext(ctx); prior != nil {
		if err := s.sessions.Destroy(ctx, prior.SessionID); err != nil {
			return nil, fmt.Errorf("revoke prior session: %w", err)
		}
	}

	token, sess, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	log.Ctx(ctx).Info().Uint64("user_id", user.ID).Msg("login succeeded")

	return &LoginResult{
		AuthResult:   AuthResult{Success: true, Message: msgLoggedIn},
		SessionToken: token,
		CSRFToken:    sess.CSRFToken,
		User:         user,
	}, nil
}

func (s *authService) upgradeHash(ctx context.Context, user *model.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err == nil {
		err = s.userRepo.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Uint64("user_id", user.ID).Msg("password rehash failed")
		return
	}
	user.PasswordHash = hash
}

// Logout ends the request's session. Without a session it does nothing.
func (s *authService) Logout(ctx context.Context) error {
	id := session.FromContext(ctx)
	if id == nil {
		return nil
	}
	if err := s.sessions.Destroy(ctx, id.SessionID); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	log.Ctx(ctx).Info().Uint64("user_id", id.UserID).Msg("logged out")
	return nil
}

// CurrentUser returns the request's user, or nil when anonymous or when the
// session refers to a user that no longer exists.
func (s *authService) CurrentUser(ctx context.Context) (*model.User, error) {
	return session.CurrentUser(ctx, s.userRepo.FindByID)
}
