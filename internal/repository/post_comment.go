package repository

import (
	"context"
	"errors"

	"github.com/pulselab/backend/internal/entity"
	"github.com/pulselab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type PostCommentRepository interface {
	Create(ctx context.Context, data *entity.PostComment) error
	GetByID(ctx context.Context, id int64) (*entity.PostComment, error)
	GetListByPost(ctx context.Context, postID int64, offset, limit int) ([]entity.PostComment, error)
	Count(ctx context.Context, postID int64) (int64, error)
	IncreaseLikes(ctx context.Context, id, delta int64) error
}

type postCommentRepository struct{}

func NewPostCommentRepository() *postCommentRepository {
	return &postCommentRepository{}
}

func (r *postCommentRepository) Create(ctx context.Context, data *entity.PostComment) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *postCommentRepository) GetByID(ctx context.Context, id int64) (*entity.PostComment, error) {
	var result entity.PostComment
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetListByPost returns comments in insertion order; they are never
// reordered or deleted by this subsystem.
func (r *postCommentRepository) GetListByPost(
	ctx context.Context, postID int64, offset, limit int,
) ([]entity.PostComment, error) {
	var result []entity.PostComment
	err := xcontext.DB(ctx).
		Where("post_id=?", postID).
		Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *postCommentRepository) Count(ctx context.Context, postID int64) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.PostComment{}).
		Where("post_id=?", postID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *postCommentRepository) IncreaseLikes(ctx context.Context, id, delta int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.PostComment{}).
		Where("id=?", id).
		Update("likes", gorm.Expr("likes+?", delta))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
