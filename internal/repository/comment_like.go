package repository

import (
	"context"

	"github.com/pulselab/backend/internal/entity"
	"github.com/pulselab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentLikeRepository interface {
	Get(ctx context.Context, commentID int64, userID string) (*entity.CommentLike, error)
	Create(ctx context.Context, data *entity.CommentLike) error
	Delete(ctx context.Context, commentID int64, userID string) error
}

type commentLikeRepository struct{}

func NewCommentLikeRepository() *commentLikeRepository {
	return &commentLikeRepository{}
}

func (r *commentLikeRepository) Get(
	ctx context.Context, commentID int64, userID string,
) (*entity.CommentLike, error) {
	var result entity.CommentLike
	err := xcontext.DB(ctx).
		Where("comment_id=? AND user_id=?", commentID, userID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Create reports gorm.ErrDuplicatedKey when the (comment_id, user_id) row
// already exists, mirroring the post like semantics.
func (r *commentLikeRepository) Create(ctx context.Context, data *entity.CommentLike) error {
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

func (r *commentLikeRepository) Delete(ctx context.Context, commentID int64, userID string) error {
	tx := xcontext.DB(ctx).
		Where("comment_id=? AND user_id=?", commentID, userID).
		Delete(&entity.CommentLike{})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
