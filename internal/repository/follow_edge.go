package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pulselab/backend/internal/entity"
	"github.com/pulselab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFollowEdgeFilter struct {
	UserID string
	Offset int
	Limit  int
}

type FollowEdgeRepository interface {
	Get(ctx context.Context, followerID, followeeID string) (*entity.FollowEdge, error)
	GetActive(ctx context.Context, followerID, followeeID string) (*entity.FollowEdge, error)
	Create(ctx context.Context, data *entity.FollowEdge) error
	Reactivate(ctx context.Context, followerID, followeeID string, at time.Time) error
	Deactivate(ctx context.Context, followerID, followeeID string, at time.Time) error
	SetMutual(ctx context.Context, followerID, followeeID string, isMutual bool) error
	UpdateSettings(ctx context.Context, followerID, followeeID string, settings map[string]any) error
	GetListByFollower(ctx context.Context, filter ListFollowEdgeFilter) ([]entity.FollowEdge, error)
	GetListByFollowee(ctx context.Context, filter ListFollowEdgeFilter) ([]entity.FollowEdge, error)
	CountByFollower(ctx context.Context, userID string) (int64, error)
	CountByFollowee(ctx context.Context, userID string) (int64, error)
	GetActiveFolloweeIDs(ctx context.Context, userID string, limit int) ([]string, error)
}

type followEdgeRepository struct{}

func NewFollowEdgeRepository() *followEdgeRepository {
	return &followEdgeRepository{}
}

func (r *followEdgeRepository) Get(
	ctx context.Context, followerID, followeeID string,
) (*entity.FollowEdge, error) {
	var result entity.FollowEdge
	err := xcontext.DB(ctx).
		Where("follower_id=? AND followee_id=?", followerID, followeeID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *followEdgeRepository) GetActive(
	ctx context.Context, followerID, followeeID string,
) (*entity.FollowEdge, error) {
	var result entity.FollowEdge
	err := xcontext.DB(ctx).
		Where("follower_id=? AND followee_id=? AND status=?",
			followerID, followeeID, entity.FollowStatusActive).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Create reports gorm.ErrDuplicatedKey when an edge for the pair already
// exists in any status, so a concurrent duplicate follow has a single winner.
func (r *followEdgeRepository) Create(ctx context.Context, data *entity.FollowEdge) error {
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

// Reactivate flips a previously unfollowed edge back to active. The status
// guard makes concurrent duplicate follows collapse into a single winner.
func (r *followEdgeRepository) Reactivate(
	ctx context.Context, followerID, followeeID string, at time.Time,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.FollowEdge{}).
		Where("follower_id=? AND followee_id=? AND status<>?",
			followerID, followeeID, entity.FollowStatusActive).
		Updates(map[string]any{
			"status":         entity.FollowStatusActive,
			"followed_at":    at,
			"unfollowed_at":  nil,
			"refollow_count": gorm.Expr("refollow_count+1"),
		})

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

func (r *followEdgeRepository) Deactivate(
	ctx context.Context, followerID, followeeID string, at time.Time,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.FollowEdge{}).
		Where("follower_id=? AND followee_id=? AND status=?",
			followerID, followeeID, entity.FollowStatusActive).
		Updates(map[string]any{
			"status":        entity.FollowStatusInactive,
			"unfollowed_at": at,
			"is_mutual":     false,
		})

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

func (r *followEdgeRepository) SetMutual(
	ctx context.Context, followerID, followeeID string, isMutual bool,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.FollowEdge{}).
		Where("follower_id=? AND followee_id=?", followerID, followeeID).
		Update("is_mutual", isMutual)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	return nil
}

func (r *followEdgeRepository) UpdateSettings(
	ctx context.Context, followerID, followeeID string, settings map[string]any,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.FollowEdge{}).
		Where("follower_id=? AND followee_id=? AND status=?",
			followerID, followeeID, entity.FollowStatusActive).
		Updates(settings)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *followEdgeRepository) GetListByFollower(
	ctx context.Context, filter ListFollowEdgeFilter,
) ([]entity.FollowEdge, error) {
	var result []entity.FollowEdge
	err := xcontext.DB(ctx).
		Where("follower_id=? AND status=?", filter.UserID, entity.FollowStatusActive).
		Order("followed_at DESC").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *followEdgeRepository) GetListByFollowee(
	ctx context.Context, filter ListFollowEdgeFilter,
) ([]entity.FollowEdge, error) {
	var result []entity.FollowEdge
	err := xcontext.DB(ctx).
		Where("followee_id=? AND status=?", filter.UserID, entity.FollowStatusActive).
		Order("followed_at DESC").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *followEdgeRepository) CountByFollower(ctx context.Context, userID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.FollowEdge{}).
		Where("follower_id=? AND status=?", userID, entity.FollowStatusActive).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *followEdgeRepository) CountByFollowee(ctx context.Context, userID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.FollowEdge{}).
		Where("followee_id=? AND status=?", userID, entity.FollowStatusActive).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

// GetActiveFolloweeIDs returns the newest followees first, bounded by limit so
// high-fanout accounts never load their whole follow list.
func (r *followEdgeRepository) GetActiveFolloweeIDs(
	ctx context.Context, userID string, limit int,
) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).
		Model(&entity.FollowEdge{}).
		Where("follower_id=? AND status=?", userID, entity.FollowStatusActive).
		Order("followed_at DESC").
		Limit(limit).
		Pluck("followee_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
