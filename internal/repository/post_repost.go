package repository

import (
	"context"

	"github.com/pulselab/backend/internal/entity"
	"github.com/pulselab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepostRepository interface {
	Get(ctx context.Context, postID int64, userID string) (*entity.PostRepost, error)
	Create(ctx context.Context, data *entity.PostRepost) error
	GetListByPost(ctx context.Context, postID int64, offset, limit int) ([]entity.PostRepost, error)
	Count(ctx context.Context, postID int64) (int64, error)
}

type postRepostRepository struct{}

func NewPostRepostRepository() *postRepostRepository {
	return &postRepostRepository{}
}

func (r *postRepostRepository) Get(
	ctx context.Context, postID int64, userID string,
) (*entity.PostRepost, error) {
	var result entity.PostRepost
	err := xcontext.DB(ctx).
		Where("post_id=? AND user_id=?", postID, userID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Create reports gorm.ErrDuplicatedKey when the user already reposted the
// post, covering the race two concurrent reposts cannot pre-check away.
func (r *postRepostRepository) Create(ctx context.Context, data *entity.PostRepost) error {
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

func (r *postRepostRepository) GetListByPost(
	ctx context.Context, postID int64, offset, limit int,
) ([]entity.PostRepost, error) {
	var result []entity.PostRepost
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

func (r *postRepostRepository) Count(ctx context.Context, postID int64) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.PostRepost{}).
		Where("post_id=?", postID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
