package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pulselab/backend/internal/entity"
	"github.com/pulselab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type FeedSortType string

const (
	FeedSortRecent   FeedSortType = "recent"
	FeedSortPopular  FeedSortType = "popular"
	FeedSortTrending FeedSortType = "trending"
)

type ListPostFilter struct {
	AuthorIDs    []string
	Kind         entity.PostKindType
	Visibilities []entity.PostVisibilityType
	CreatedAfter time.Time
	Sort         FeedSortType
	Offset       int
	Limit        int
}

type PostRepository interface {
	Create(ctx context.Context, data *entity.Post) error
	GetByID(ctx context.Context, id int64) (*entity.Post, error)
	GetList(ctx context.Context, filter ListPostFilter) ([]entity.Post, error)
	ScanPublicSince(ctx context.Context, since time.Time, batch int, fn func([]entity.Post) error) error
	IncreaseLikes(ctx context.Context, id, delta int64) error
	IncreaseRetweets(ctx context.Context, id, delta int64) error
	IncreaseComments(ctx context.Context, id, delta int64) error
	IncreaseViews(ctx context.Context, id, delta int64) error
}

type postRepository struct{}

func NewPostRepository() *postRepository {
	return &postRepository{}
}

func (r *postRepository) Create(ctx context.Context, data *entity.Post) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*entity.Post, error) {
	var result entity.Post
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *postRepository) GetList(
	ctx context.Context, filter ListPostFilter,
) ([]entity.Post, error) {
	tx := xcontext.DB(ctx).Model(&entity.Post{}).Where("hidden=?", false)

	if len(filter.AuthorIDs) > 0 {
		tx = tx.Where("author_id IN (?)", filter.AuthorIDs)
	}

	if filter.Kind != "" {
		tx = tx.Where("kind=?", filter.Kind)
	}

	if len(filter.Visibilities) > 0 {
		tx = tx.Where("visibility IN (?)", filter.Visibilities)
	}

	if !filter.CreatedAfter.IsZero() {
		tx = tx.Where("created_at >= ?", filter.CreatedAfter)
	}

	switch filter.Sort {
	case FeedSortPopular:
		tx = tx.Order("likes DESC, retweets DESC, id DESC")
	case FeedSortTrending:
		tx = tx.Order("likes DESC, retweets DESC, comments DESC, id DESC")
	default:
		tx = tx.Order("created_at DESC, id DESC")
	}

	var result []entity.Post
	err := tx.Offset(filter.Offset).Limit(filter.Limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ScanPublicSince iterates public, non-hidden posts of the window in batches
// so aggregations never hold the full window in memory.
func (r *postRepository) ScanPublicSince(
	ctx context.Context, since time.Time, batch int, fn func([]entity.Post) error,
) error {
	var posts []entity.Post
	return xcontext.DB(ctx).
		Where("visibility=? AND hidden=? AND created_at >= ?",
			entity.PostVisibilityPublic, false, since).
		FindInBatches(&posts, batch, func(tx *gorm.DB, _ int) error {
			return fn(posts)
		}).Error
}

func (r *postRepository) IncreaseLikes(ctx context.Context, id, delta int64) error {
	return r.increaseCounter(ctx, id, "likes", delta)
}

func (r *postRepository) IncreaseRetweets(ctx context.Context, id, delta int64) error {
	return r.increaseCounter(ctx, id, "retweets", delta)
}

func (r *postRepository) IncreaseComments(ctx context.Context, id, delta int64) error {
	return r.increaseCounter(ctx, id, "comments", delta)
}

func (r *postRepository) IncreaseViews(ctx context.Context, id, delta int64) error {
	return r.increaseCounter(ctx, id, "views", delta)
}

func (r *postRepository) increaseCounter(
	ctx context.Context, id int64, column string, delta int64,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Post{}).
		Where("id=?", id).
		Update(column, gorm.Expr(column+"+?", delta))

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
