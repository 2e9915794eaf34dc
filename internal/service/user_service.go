package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"favsvc/internal/auth"
	apperrors "favsvc/internal/errors"
	"favsvc/internal/model"
	"favsvc/internal/repository"
)

// UserService covers out-of-band account administration.
type UserService interface {
	CreateUser(ctx context.Context, username, password, displayName string) (*model.User, error)
	EnsureUser(ctx context.Context, username, password, displayName string) (*model.User, bool, error)
	DeleteUser(ctx context.Context, username string) error
}

type userService struct {
	repo   repository.UserRepository
	hasher *auth.PasswordHasher
}

// NewUserService builds a UserService.
func NewUserService(repo repository.UserRepository, hasher *auth.PasswordHasher) UserService {
	return &userService{repo: repo, hasher: hasher}
}

// CreateUser stores a new user with a hashed password.
func (s *userService) CreateUser(ctx context.Context, username, password, displayName string) (*model.User, error) {
	if strings.TrimSpace(username) == "" || password == "" || len(username) > 190 {
		return nil, apperrors.ErrInvalidInput
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
	}
	if displayName != "" {
		user.DisplayName = &displayName
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureUser creates the user unless the username is taken. created reports
// which happened; an existing user is returned unchanged.
func (s *userService) EnsureUser(ctx context.Context, username, password, displayName string) (*model.User, bool, error) {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, false, err
	}

	user, err := s.CreateUser(ctx, username, password, displayName)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// DeleteUser removes a user together with all of the user's favorites.
func (s *userService) DeleteUser(ctx context.Context, username string) error {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, user.ID)
}
