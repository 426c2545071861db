package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pulselab/backend/internal/common"
	"github.com/pulselab/backend/internal/domain/notification/event"
	"github.com/pulselab/backend/internal/entity"
	"github.com/pulselab/backend/internal/model"
	"github.com/pulselab/backend/internal/repository"
	"github.com/pulselab/backend/pkg/errorx"
	"github.com/pulselab/backend/pkg/pubsub"
	"github.com/pulselab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RelationshipDomain interface {
	Follow(context.Context, *model.FollowUserRequest) (*model.FollowUserResponse, error)
	Unfollow(context.Context, *model.UnfollowUserRequest) (*model.UnfollowUserResponse, error)
	UpdateSettings(context.Context, *model.UpdateFollowSettingsRequest) (*model.UpdateFollowSettingsResponse, error)
	GetFollowers(context.Context, *model.GetFollowersRequest) (*model.GetFollowersResponse, error)
	GetFollowing(context.Context, *model.GetFollowingRequest) (*model.GetFollowingResponse, error)
}

type relationshipDomain struct {
	followEdgeRepo repository.FollowEdgeRepository
	userRepo       repository.UserRepository
	publisher      pubsub.Publisher
}

func NewRelationshipDomain(
	followEdgeRepo repository.FollowEdgeRepository,
	userRepo repository.UserRepository,
	publisher pubsub.Publisher,
) *relationshipDomain {
	return &relationshipDomain{
		followEdgeRepo: followEdgeRepo,
		userRepo:       userRepo,
		publisher:      publisher,
	}
}

func (d *relationshipDomain) Follow(
	ctx context.Context, req *model.FollowUserRequest,
) (*model.FollowUserResponse, error) {
	followerID := xcontext.RequestUserID(ctx)
	followeeID := req.UserID

	if followeeID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	if followerID == followeeID {
		return nil, errorx.New(errorx.SelfFollow, "Not allow following yourself")
	}

	if _, err := d.userRepo.GetByID(ctx, followeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	edge, err := d.followEdgeRepo.Get(ctx, followerID, followeeID)
	switch {
	case err == nil && edge.Status == entity.FollowStatusActive:
		return nil, errorx.New(errorx.AlreadyFollowing, "Already following this user")

	case err == nil:
		if err := d.followEdgeRepo.Reactivate(ctx, followerID, followeeID, time.Now()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Lost the race against a concurrent follow of the same pair.
				return nil, errorx.New(errorx.AlreadyFollowing, "Already following this user")
			}

			xcontext.Logger(ctx).Errorf("Cannot reactivate follow edge: %v", err)
			return nil, errorx.Unknown
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		err := d.followEdgeRepo.Create(ctx, &entity.FollowEdge{
			Base:        entity.Base{ID: uuid.NewString()},
			FollowerID:  followerID,
			FolloweeID:  followeeID,
			Status:      entity.FollowStatusActive,
			FollowedAt:  time.Now(),
			NotifyPosts: true,
		})
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost the race against a concurrent follow of the same pair.
				return nil, errorx.New(errorx.AlreadyFollowing, "Already following this user")
			}

			xcontext.Logger(ctx).Errorf("Cannot create follow edge: %v", err)
			return nil, errorx.Unknown
		}

	default:
		xcontext.Logger(ctx).Errorf("Cannot get follow edge: %v", err)
		return nil, errorx.Unknown
	}

	isMutual, err := d.repairMutualFlag(ctx, followerID, followeeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot repair mutual flag: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	common.PublishSocialEvent(ctx, d.publisher, event.FollowUserEvent{
		FollowerID: followerID,
		FolloweeID: followeeID,
		IsMutual:   isMutual,
	}, followeeID)

	return &model.FollowUserResponse{IsMutual: isMutual}, nil
}

func (d *relationshipDomain) Unfollow(
	ctx context.Context, req *model.UnfollowUserRequest,
) (*model.UnfollowUserResponse, error) {
	followerID := xcontext.RequestUserID(ctx)
	followeeID := req.UserID

	if followeeID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.followEdgeRepo.Deactivate(ctx, followerID, followeeID, time.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFollowing, "Not following this user")
		}

		xcontext.Logger(ctx).Errorf("Cannot deactivate follow edge: %v", err)
		return nil, errorx.Unknown
	}

	// The surviving reverse edge can no longer be mutual.
	if _, err := d.repairMutualFlag(ctx, followerID, followeeID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot repair mutual flag: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	common.PublishSocialEvent(ctx, d.publisher, event.UnfollowUserEvent{
		FollowerID: followerID,
		FolloweeID: followeeID,
	}, followeeID)

	return &model.UnfollowUserResponse{}, nil
}

// repairMutualFlag re-derives is_mutual of both directions from the current
// active state of the pair. It runs inside the caller's transaction so the
// flag can never be observed out of sync with the edges.
func (d *relationshipDomain) repairMutualFlag(
	ctx context.Context, userA, userB string,
) (bool, error) {
	_, errAB := d.followEdgeRepo.GetActive(ctx, userA, userB)
	if errAB != nil && !errors.Is(errAB, gorm.ErrRecordNotFound) {
		return false, errAB
	}

	_, errBA := d.followEdgeRepo.GetActive(ctx, userB, userA)
	if errBA != nil && !errors.Is(errBA, gorm.ErrRecordNotFound) {
		return false, errBA
	}

	isMutual := errAB == nil && errBA == nil

	if errAB == nil {
		if err := d.followEdgeRepo.SetMutual(ctx, userA, userB, isMutual); err != nil {
			return false, err
		}
	}

	if errBA == nil {
		if err := d.followEdgeRepo.SetMutual(ctx, userB, userA, isMutual); err != nil {
			return false, err
		}
	}

	return isMutual, nil
}

func (d *relationshipDomain) UpdateSettings(
	ctx context.Context, req *model.UpdateFollowSettingsRequest,
) (*model.UpdateFollowSettingsResponse, error) {
	followerID := xcontext.RequestUserID(ctx)

	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	settings := map[string]any{}
	if req.NotifyPosts != nil {
		settings["notify_posts"] = *req.NotifyPosts
	}

	if req.NotifyLikes != nil {
		settings["notify_likes"] = *req.NotifyLikes
	}

	if req.Category != nil {
		settings["category"] = *req.Category
	}

	if req.PrivateNote != nil {
		if len(*req.PrivateNote) > 200 {
			return nil, errorx.New(errorx.BadRequest, "Exceed the maximum note length (200)")
		}

		settings["private_note"] = *req.PrivateNote
	}

	if len(settings) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty settings")
	}

	if err := d.followEdgeRepo.UpdateSettings(ctx, followerID, req.UserID, settings); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFollowing, "Not following this user")
		}

		xcontext.Logger(ctx).Errorf("Cannot update follow settings: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateFollowSettingsResponse{}, nil
}

func (d *relationshipDomain) GetFollowers(
	ctx context.Context, req *model.GetFollowersRequest,
) (*model.GetFollowersResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	offset, limit, err := clampPagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	edges, err := d.followEdgeRepo.GetListByFollowee(ctx, repository.ListFollowEdgeFilter{
		UserID: userID,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get followers: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.followEdgeRepo.CountByFollowee(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count followers: %v", err)
		return nil, errorx.Unknown
	}

	users, err := d.edgeUsers(ctx, edges)
	if err != nil {
		return nil, err
	}

	requestUserID := xcontext.RequestUserID(ctx)
	followers := []model.FollowEdge{}
	for i := range edges {
		followers = append(followers, model.ConvertFollowEdge(
			&edges[i],
			users[edges[i].FollowerID],
			users[edges[i].FolloweeID],
			edges[i].FollowerID == requestUserID,
		))
	}

	return &model.GetFollowersResponse{Followers: followers, Total: total}, nil
}

func (d *relationshipDomain) GetFollowing(
	ctx context.Context, req *model.GetFollowingRequest,
) (*model.GetFollowingResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	offset, limit, err := clampPagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	edges, err := d.followEdgeRepo.GetListByFollower(ctx, repository.ListFollowEdgeFilter{
		UserID: userID,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get following: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.followEdgeRepo.CountByFollower(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count following: %v", err)
		return nil, errorx.Unknown
	}

	users, err := d.edgeUsers(ctx, edges)
	if err != nil {
		return nil, err
	}

	requestUserID := xcontext.RequestUserID(ctx)
	following := []model.FollowEdge{}
	for i := range edges {
		following = append(following, model.ConvertFollowEdge(
			&edges[i],
			users[edges[i].FollowerID],
			users[edges[i].FolloweeID],
			edges[i].FollowerID == requestUserID,
		))
	}

	return &model.GetFollowingResponse{Following: following, Total: total}, nil
}

func (d *relationshipDomain) edgeUsers(
	ctx context.Context, edges []entity.FollowEdge,
) (map[string]model.ShortUser, error) {
	idSet := map[string]any{}
	for i := range edges {
		idSet[edges[i].FollowerID] = nil
		idSet[edges[i].FolloweeID] = nil
	}

	users, err := d.userRepo.GetByIDs(ctx, common.MapKeys(idSet))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
		return nil, errorx.Unknown
	}

	result := map[string]model.ShortUser{}
	for i := range users {
		result[users[i].ID] = model.ConvertUser(&users[i])
	}

	return result, nil
}
