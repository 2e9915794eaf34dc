package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"favsvc/internal/catalog"
	apperrors "favsvc/internal/errors"
	"favsvc/internal/model"
	"favsvc/internal/repository"
)

const (
	msgAdded   = "Added to favorites."
	msgRemoved = "Removed from favorites."
)

// CurrentUserResolver resolves the acting user of a request.
type CurrentUserResolver interface {
	CurrentUser(ctx context.Context) (*model.User, error)
}

// ToggleResult reports the state the toggle decided on.
type ToggleResult struct {
	IsFavorite bool   `json:"is_favorite"`
	Message    string `json:"message"`
}

// FavoriteService exposes favorites of the current user.
type FavoriteService interface {
	List(ctx context.Context) ([]int64, error)
	Toggle(ctx context.Context, itemID int64) (*ToggleResult, error)
	IsFavorite(ctx context.Context, itemID int64) (bool, error)
}

type favoriteService struct {
	favorites repository.FavoriteRepository
	users     CurrentUserResolver
	catalog   catalog.ContentCatalog
}

// NewFavoriteService builds a FavoriteService. catalog may be nil, in which
// case any positive item id is accepted.
func NewFavoriteService(favorites repository.FavoriteRepository, users CurrentUserResolver, catalog catalog.ContentCatalog) FavoriteService {
	return &favoriteService{favorites: favorites, users: users, catalog: catalog}
}

func (s *favoriteService) currentUser(ctx context.Context) (*model.User, error) {
	user, err := s.users.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// List returns the user's item ids, most recently added first.
func (s *favoriteService) List(ctx context.Context) ([]int64, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.favorites.ListByUser(ctx, user.ID)
}

// IsFavorite reports whether the user has favorited itemID.
func (s *favoriteService) IsFavorite(ctx context.Context, itemID int64) (bool, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return false, err
	}
	if itemID <= 0 {
		return false, apperrors.ErrInvalidInput
	}
	return s.favorites.Exists(ctx, user.ID, itemID)
}

// Toggle flips itemID for the current user. The membership read and the
// write are separate statements: two concurrent toggles of the same item may
// both report the same outcome, but the unique index keeps the stored state
// to at most one row.
func (s *favoriteService) Toggle(ctx context.Context, itemID int64) (*ToggleResult, error) {
	user, err := s.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if itemID <= 0 {
		return nil, apperrors.ErrInvalidInput
	}

	exists, err := s.favorites.Exists(ctx, user.ID, itemID)
	if err != nil {
		return nil, err
	}

	if exists {
		if _, err := s.favorites.Remove(ctx, user.ID, itemID); err != nil {
			return nil, err
		}
		log.Ctx(ctx).Debug().Uint64("user_id", user.ID).Int64("item_id", itemID).Msg("favorite removed")
		return &ToggleResult{IsFavorite: false, Message: msgRemoved}, nil
	}

	if s.catalog != nil {
		known, err := s.catalog.ItemExists(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if !known {
			return nil, apperrors.ErrInvalidInput
		}
	}

	if _, err := s.favorites.Insert(ctx, user.ID, itemID); err != nil {
		return nil, err
	}
	log.Ctx(ctx).Debug().Uint64("user_id", user.ID).Int64("item_id", itemID).Msg("favorite added")
	return &ToggleResult{IsFavorite: true, Message: msgAdded}, nil
}
