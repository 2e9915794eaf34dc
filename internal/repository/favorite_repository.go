package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "favsvc/internal/errors"
	"favsvc/internal/model"
)

// FavoriteRepository is the favorite store. Uniqueness of (user, item) is
// enforced by the idx_favorites_user_item unique index, which makes Insert
// safe to call concurrently for the same pair.
type FavoriteRepository interface {
	ListByUser(ctx context.Context, userID uint64) ([]int64, error)
	Exists(ctx context.Context, userID uint64, itemID int64) (bool, error)
	Insert(ctx context.Context, userID uint64, itemID int64) (inserted bool, err error)
	Remove(ctx context.Context, userID uint64, itemID int64) (removed bool, err error)
	CountByUser(ctx context.Context, userID uint64) (int64, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// ListByUser returns item ids, most recently favorited first.
func (r *favoriteRepository) ListByUser(ctx context.Context, userID uint64) ([]int64, error) {
	ids := make([]int64, 0)
	err := r.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ?", userID).
		Order("id DESC").
		Pluck("item_id", &ids).Error
	if err != nil {
		return nil, storageErr("list favorites", err)
	}
	return ids, nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID uint64, itemID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&count).Error
	if err != nil {
		return false, storageErr("check favorite", err)
	}
	return count > 0, nil
}

// Insert adds the pair. An already existing row is not an error; inserted is
// false in that case.
func (r *favoriteRepository) Insert(ctx context.Context, userID uint64, itemID int64) (bool, error) {
	fav := model.Favorite{UserID: userID, ItemID: itemID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
			DoNothing: true,
		}).
		Create(&fav)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return false, apperrors.ErrUserNotFound
		}
		if isDuplicateKey(res.Error) {
			return false, nil
		}
		return false, storageErr("insert favorite", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Remove deletes the pair. A missing row is not an error; removed is false in
// that case.
func (r *favoriteRepository) Remove(ctx context.Context, userID uint64, itemID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Delete(&model.Favorite{})
	if res.Error != nil {
		return false, storageErr("remove favorite", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *favoriteRepository) CountByUser(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Favorite{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, storageErr("count favorites", err)
	}
	return count, nil
}
