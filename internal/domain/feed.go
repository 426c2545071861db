package domain

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/pulselab/backend/internal/common"
	"github.com/pulselab/backend/internal/domain/viewtrack"
	"github.com/pulselab/backend/internal/entity"
	"github.com/pulselab/backend/internal/model"
	"github.com/pulselab/backend/internal/repository"
	"github.com/pulselab/backend/pkg/enum"
	"github.com/pulselab/backend/pkg/errorx"
	"github.com/pulselab/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const exploreTrendingWindow = 24 * time.Hour

type FeedDomain interface {
	GetPost(context.Context, *model.GetPostRequest) (*model.GetPostResponse, error)
	GetTimeline(context.Context, *model.GetTimelineRequest) (*model.GetTimelineResponse, error)
	GetExploreFeed(context.Context, *model.GetExploreFeedRequest) (*model.GetExploreFeedResponse, error)
	GetUserPosts(context.Context, *model.GetUserPostsRequest) (*model.GetUserPostsResponse, error)
}

type feedDomain struct {
	postRepo       repository.PostRepository
	postLikeRepo   repository.PostLikeRepository
	postRepostRepo repository.PostRepostRepository
	followEdgeRepo repository.FollowEdgeRepository
	userRepo       repository.UserRepository
	viewBatcher    *viewtrack.Batcher
}

func NewFeedDomain(
	postRepo repository.PostRepository,
	postLikeRepo repository.PostLikeRepository,
	postRepostRepo repository.PostRepostRepository,
	followEdgeRepo repository.FollowEdgeRepository,
	userRepo repository.UserRepository,
	viewBatcher *viewtrack.Batcher,
) *feedDomain {
	return &feedDomain{
		postRepo:       postRepo,
		postLikeRepo:   postLikeRepo,
		postRepostRepo: postRepostRepo,
		followEdgeRepo: followEdgeRepo,
		userRepo:       userRepo,
		viewBatcher:    viewBatcher,
	}
}

// actorPreviewLimit bounds how many likers and reposters come back with a
// post detail.
const actorPreviewLimit = 10

func (d *feedDomain) GetPost(
	ctx context.Context, req *model.GetPostRequest,
) (*model.GetPostResponse, error) {
	postID, err := strconv.ParseInt(req.PostID, 10, 64)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid post id %s", req.PostID)
	}

	post, err := d.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	visibilities, err := d.visibleTo(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	if post.Hidden || !slices.Contains(visibilities, post.Visibility) {
		return nil, errorx.New(errorx.NotFound, "Not found post")
	}

	// The two preview lists are independent reads.
	var likes []entity.PostLike
	var reposts []entity.PostRepost
	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		likes, err = d.postLikeRepo.GetListByPost(groupCtx, postID, 0, actorPreviewLimit)
		return err
	})
	g.Go(func() error {
		var err error
		reposts, err = d.postRepostRepo.GetListByPost(groupCtx, postID, 0, actorPreviewLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get post actor previews: %v", err)
		return nil, errorx.Unknown
	}

	actorSet := map[string]any{post.AuthorID: nil}
	for i := range likes {
		actorSet[likes[i].UserID] = nil
	}

	for i := range reposts {
		actorSet[reposts[i].UserID] = nil
	}

	actors, err := d.userRepo.GetByIDs(ctx, common.MapKeys(actorSet))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get actors: %v", err)
		return nil, errorx.Unknown
	}

	actorMap := map[string]model.ShortUser{}
	for i := range actors {
		actorMap[actors[i].ID] = model.ConvertUser(&actors[i])
	}

	likedBy := []model.ShortUser{}
	for i := range likes {
		likedBy = append(likedBy, actorMap[likes[i].UserID])
	}

	retweetedBy := []model.ShortUser{}
	for i := range reposts {
		retweetedBy = append(retweetedBy, actorMap[reposts[i].UserID])
	}

	d.trackViews([]entity.Post{*post})

	return &model.GetPostResponse{
		Post:        model.ConvertPost(post, actorMap[post.AuthorID]),
		LikedBy:     likedBy,
		RetweetedBy: retweetedBy,
	}, nil
}

func (d *feedDomain) GetTimeline(
	ctx context.Context, req *model.GetTimelineRequest,
) (*model.GetTimelineResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	offset, limit, err := clampPagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	var kind entity.PostKindType
	if req.Kind != "" {
		kind, err = enum.ToEnum[entity.PostKindType](req.Kind)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid kind %s", req.Kind)
		}
	}

	followeeIDs, err := d.followEdgeRepo.GetActiveFolloweeIDs(
		ctx, userID, xcontext.Configs(ctx).Feed.MaxFanout)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get followees: %v", err)
		return nil, errorx.Unknown
	}

	// The timeline always contains the user's own posts.
	authorIDs := append(followeeIDs, userID)

	posts, err := d.postRepo.GetList(ctx, repository.ListPostFilter{
		AuthorIDs: authorIDs,
		Kind:      kind,
		Visibilities: []entity.PostVisibilityType{
			entity.PostVisibilityPublic,
			entity.PostVisibilityFollowers,
		},
		Sort:   repository.FeedSortRecent,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get timeline posts: %v", err)
		return nil, errorx.Unknown
	}

	d.trackViews(posts)

	result, err := d.convertPosts(ctx, posts)
	if err != nil {
		return nil, err
	}

	return &model.GetTimelineResponse{Posts: result}, nil
}

func (d *feedDomain) GetExploreFeed(
	ctx context.Context, req *model.GetExploreFeedRequest,
) (*model.GetExploreFeedResponse, error) {
	offset, limit, err := clampPagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	sort := repository.FeedSortRecent
	if req.Sort != "" {
		switch repository.FeedSortType(req.Sort) {
		case repository.FeedSortRecent, repository.FeedSortPopular, repository.FeedSortTrending:
			sort = repository.FeedSortType(req.Sort)
		default:
			return nil, errorx.New(errorx.BadRequest, "Invalid sort %s", req.Sort)
		}
	}

	filter := repository.ListPostFilter{
		Visibilities: []entity.PostVisibilityType{entity.PostVisibilityPublic},
		Sort:         sort,
		Offset:       offset,
		Limit:        limit,
	}

	// Trending only considers the last day, the other sorts are unbounded.
	if sort == repository.FeedSortTrending {
		filter.CreatedAfter = time.Now().Add(-exploreTrendingWindow)
	}

	posts, err := d.postRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get explore posts: %v", err)
		return nil, errorx.Unknown
	}

	d.trackViews(posts)

	result, err := d.convertPosts(ctx, posts)
	if err != nil {
		return nil, err
	}

	return &model.GetExploreFeedResponse{Posts: result}, nil
}

func (d *feedDomain) GetUserPosts(
	ctx context.Context, req *model.GetUserPostsRequest,
) (*model.GetUserPostsResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	offset, limit, err := clampPagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	visibilities, err := d.visibleTo(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	posts, err := d.postRepo.GetList(ctx, repository.ListPostFilter{
		AuthorIDs:    []string{req.UserID},
		Visibilities: visibilities,
		Sort:         repository.FeedSortRecent,
		Offset:       offset,
		Limit:        limit,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user posts: %v", err)
		return nil, errorx.Unknown
	}

	d.trackViews(posts)

	result, err := d.convertPosts(ctx, posts)
	if err != nil {
		return nil, err
	}

	return &model.GetUserPostsResponse{Posts: result}, nil
}

// visibleTo derives which visibility levels of authorID's posts the
// requesting user may see. The owner sees everything, an active follower
// additionally sees followers-only posts, everyone else only public ones.
func (d *feedDomain) visibleTo(
	ctx context.Context, authorID string,
) ([]entity.PostVisibilityType, error) {
	requestUserID := xcontext.RequestUserID(ctx)

	if requestUserID == authorID {
		return []entity.PostVisibilityType{
			entity.PostVisibilityPublic,
			entity.PostVisibilityFollowers,
			entity.PostVisibilityPrivate,
		}, nil
	}

	if requestUserID != "" {
		_, err := d.followEdgeRepo.GetActive(ctx, requestUserID, authorID)
		if err == nil {
			return []entity.PostVisibilityType{
				entity.PostVisibilityPublic,
				entity.PostVisibilityFollowers,
			}, nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get follow edge: %v", err)
			return nil, errorx.Unknown
		}
	}

	return []entity.PostVisibilityType{entity.PostVisibilityPublic}, nil
}

func (d *feedDomain) trackViews(posts []entity.Post) {
	if d.viewBatcher == nil {
		return
	}

	for i := range posts {
		d.viewBatcher.Track(posts[i].ID)
	}
}

func (d *feedDomain) convertPosts(
	ctx context.Context, posts []entity.Post,
) ([]model.Post, error) {
	authorSet := map[string]any{}
	for i := range posts {
		authorSet[posts[i].AuthorID] = nil
	}

	authors, err := d.userRepo.GetByIDs(ctx, common.MapKeys(authorSet))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get post authors: %v", err)
		return nil, errorx.Unknown
	}

	authorMap := map[string]model.ShortUser{}
	for i := range authors {
		authorMap[authors[i].ID] = model.ConvertUser(&authors[i])
	}

	result := []model.Post{}
	for i := range posts {
		result = append(result, model.ConvertPost(&posts[i], authorMap[posts[i].AuthorID]))
	}

	return result, nil
}
