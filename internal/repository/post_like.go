package repository

import (
	"context"

	"github.com/pulselab/backend/internal/entity"
	"github.com/pulselab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostLikeRepository interface {
	Get(ctx context.Context, postID int64, userID string) (*entity.PostLike, error)
	Create(ctx context.Context, data *entity.PostLike) error
	Delete(ctx context.Context, postID int64, userID string) error
	GetListByPost(ctx context.Context, postID int64, offset, limit int) ([]entity.PostLike, error)
	Count(ctx context.Context, postID int64) (int64, error)
}

type postLikeRepository struct{}

func NewPostLikeRepository() *postLikeRepository {
	return &postLikeRepository{}
}

func (r *postLikeRepository) Get(
	ctx context.Context, postID int64, userID string,
) (*entity.PostLike, error) {
	var result entity.PostLike
	err := xcontext.DB(ctx).
		Where("post_id=? AND user_id=?", postID, userID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Create reports gorm.ErrDuplicatedKey when the (post_id, user_id) row
// already exists, so a concurrent duplicate like stays a no-op.
func (r *postLikeRepository) Create(ctx context.Context, data *entity.PostLike) error {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrDuplicatedKey
	}

	return nil
}

// Delete reports gorm.ErrRecordNotFound when no row was removed, so callers
// can tell an idempotent no-op from a real removal.
func (r *postLikeRepository) Delete(ctx context.Context, postID int64, userID string) error {
	tx := xcontext.DB(ctx).
		Where("post_id=? AND user_id=?", postID, userID).
		Delete(&entity.PostLike{})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *postLikeRepository) GetListByPost(
	ctx context.Context, postID int64, offset, limit int,
) ([]entity.PostLike, error) {
	var result []entity.PostLike
	err := xcontext.DB(ctx).
		Where("post_id=?", postID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *postLikeRepository) Count(ctx context.Context, postID int64) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.PostLike{}).
		Where("post_id=?", postID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
