package domain

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pulselab/backend/internal/common"
	"github.com/pulselab/backend/internal/domain/notification/event"
	"github.com/pulselab/backend/internal/entity"
	"github.com/pulselab/backend/internal/model"
	"github.com/pulselab/backend/internal/repository"
	"github.com/pulselab/backend/pkg/errorx"
	"github.com/pulselab/backend/pkg/idutil"
	"github.com/pulselab/backend/pkg/pubsub"
	"github.com/pulselab/backend/pkg/xcontext"
	"github.com/pulselab/backend/pkg/xredis"
	"gorm.io/gorm"
)

const (
	maxPostTextLength    = 2000
	maxCommentTextLength = 1000
	maxQuoteTextLength   = 500
)

var (
	hashtagRegexp = regexp.MustCompile(`#(\w+)`)
	mentionRegexp = regexp.MustCompile(`@(\w+)`)
)

type EngagementDomain interface {
	CreatePost(context.Context, *model.CreatePostRequest) (*model.CreatePostResponse, error)
	LikePost(context.Context, *model.LikePostRequest) (*model.LikePostResponse, error)
	UnlikePost(context.Context, *model.UnlikePostRequest) (*model.UnlikePostResponse, error)
	AddComment(context.Context, *model.AddCommentRequest) (*model.AddCommentResponse, error)
	GetComments(context.Context, *model.GetCommentsRequest) (*model.GetCommentsResponse, error)
	LikeComment(context.Context, *model.LikeCommentRequest) (*model.LikeCommentResponse, error)
	UnlikeComment(context.Context, *model.UnlikeCommentRequest) (*model.UnlikeCommentResponse, error)
	Repost(context.Context, *model.RepostRequest) (*model.RepostResponse, error)
}

type engagementDomain struct {
	postRepo        repository.PostRepository
	postLikeRepo    repository.PostLikeRepository
	postRepostRepo  repository.PostRepostRepository
	postCommentRepo repository.PostCommentRepository
	commentLikeRepo repository.CommentLikeRepository
	userRepo        repository.UserRepository
	publisher       pubsub.Publisher
	redisClient     xredis.Client
}

func NewEngagementDomain(
	postRepo repository.PostRepository,
	postLikeRepo repository.PostLikeRepository,
	postRepostRepo repository.PostRepostRepository,
	postCommentRepo repository.PostCommentRepository,
	commentLikeRepo repository.CommentLikeRepository,
	userRepo repository.UserRepository,
	publisher pubsub.Publisher,
	redisClient xredis.Client,
) *engagementDomain {
	return &engagementDomain{
		postRepo:        postRepo,
		postLikeRepo:    postLikeRepo,
		postRepostRepo:  postRepostRepo,
		postCommentRepo: postCommentRepo,
		commentLikeRepo: commentLikeRepo,
		userRepo:        userRepo,
		publisher:       publisher,
		redisClient:     redisClient,
	}
}

// bumpTrendingCache folds an engagement delta of post's hashtags into the
// warm default trending window, so the cached ranking drifts less until it
// expires. Strictly best effort and never creates a cold window.
func (d *engagementDomain) bumpTrendingCache(ctx context.Context, post *entity.Post, delta int64) {
	if d.redisClient == nil || len(post.Hashtags) == 0 {
		return
	}

	engKey, _ := trendingCacheKeys(defaultTrendingWindowHours, time.Now().Truncate(time.Hour))
	warm, err := d.redisClient.Exist(ctx, engKey)
	if err != nil || !warm {
		return
	}

	for _, tag := range post.Hashtags {
		if err := d.redisClient.ZIncrBy(ctx, engKey, delta, tag); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot bump trending cache: %v", err)
			return
		}
	}
}

// extractTags collects the unique lowercased captures of re in first-seen
// order.
func extractTags(re *regexp.Regexp, text string) []string {
	seen := map[string]any{}
	var tags []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		tag := strings.ToLower(m[1])
		if _, ok := seen[tag]; ok {
			continue
		}

		seen[tag] = nil
		tags = append(tags, tag)
	}

	return tags
}

func (d *engagementDomain) CreatePost(
	ctx context.Context, req *model.CreatePostRequest,
) (*model.CreatePostResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	text := strings.TrimSpace(req.Text)
	if text == "" && len(req.Media) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow posting with no content")
	}

	if len(text) > maxPostTextLength {
		return nil, errorx.New(errorx.BadRequest,
			"Exceed the maximum text length (%d)", maxPostTextLength)
	}

	visibility, err := model.ParseVisibility(req.Visibility)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid visibility %s", req.Visibility)
	}

	author, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get author: %v", err)
		return nil, errorx.Unknown
	}

	post := &entity.Post{
		SnowflakeBase: entity.SnowflakeBase{ID: idutil.NewID()},
		AuthorID:      userID,
		Text:          text,
		Media:         req.Media,
		Hashtags:      extractTags(hashtagRegexp, text),
		Mentions:      extractTags(mentionRegexp, text),
		Kind:          entity.PostKindOriginal,
		Visibility:    visibility,
	}

	if err := d.postRepo.Create(ctx, post); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create post: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreatePostResponse{
		Post: model.ConvertPost(post, model.ConvertUser(author)),
	}, nil
}

func (d *engagementDomain) LikePost(
	ctx context.Context, req *model.LikePostRequest,
) (*model.LikePostResponse, error) {
	userID := xcontext.RequestUserID(ctx)

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

	// Liking twice is a no-op rather than an error.
	if _, err := d.postLikeRepo.Get(ctx, postID, userID); err == nil {
		return &model.LikePostResponse{Likes: post.Likes}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get post like: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.postLikeRepo.Create(ctx, &entity.PostLike{PostID: postID, UserID: userID})
	if err != nil {
		// A concurrent duplicate like lands after the pre-check, it still
		// collapses into the same no-op.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &model.LikePostResponse{Likes: post.Likes}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot create post like: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.postRepo.IncreaseLikes(ctx, postID, 1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase post likes: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.bumpTrendingCache(ctx, post, 1)

	common.PublishSocialEvent(ctx, d.publisher, event.LikePostEvent{
		PostID:   req.PostID,
		AuthorID: post.AuthorID,
		UserID:   userID,
	}, post.AuthorID)

	return &model.LikePostResponse{Likes: post.Likes + 1}, nil
}

func (d *engagementDomain) UnlikePost(
	ctx context.Context, req *model.UnlikePostRequest,
) (*model.UnlikePostResponse, error) {
	userID := xcontext.RequestUserID(ctx)

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

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.postLikeRepo.Delete(ctx, postID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unliking a post that was never liked is a no-op.
			return &model.UnlikePostResponse{Likes: post.Likes}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot delete post like: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.postRepo.IncreaseLikes(ctx, postID, -1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decrease post likes: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.bumpTrendingCache(ctx, post, -1)

	return &model.UnlikePostResponse{Likes: post.Likes - 1}, nil
}

func (d *engagementDomain) AddComment(
	ctx context.Context, req *model.AddCommentRequest,
) (*model.AddCommentResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	postID, err := strconv.ParseInt(req.PostID, 10, 64)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid post id %s", req.PostID)
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, errorx.New(errorx.EmptyComment, "Not allow empty comment")
	}

	if len(text) > maxCommentTextLength {
		return nil, errorx.New(errorx.BadRequest,
			"Exceed the maximum text length (%d)", maxCommentTextLength)
	}

	post, err := d.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	author, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get author: %v", err)
		return nil, errorx.Unknown
	}

	comment := &entity.PostComment{
		SnowflakeBase: entity.SnowflakeBase{ID: idutil.NewID()},
		PostID:        postID,
		AuthorID:      userID,
		Text:          text,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.postCommentRepo.Create(ctx, comment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create comment: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.postRepo.IncreaseComments(ctx, postID, 1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase post comments: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.bumpTrendingCache(ctx, post, 1)

	common.PublishSocialEvent(ctx, d.publisher, event.CommentPostEvent{
		PostID:    req.PostID,
		AuthorID:  post.AuthorID,
		UserID:    userID,
		CommentID: strconv.FormatInt(comment.ID, 10),
	}, post.AuthorID)

	return &model.AddCommentResponse{
		Comment: model.ConvertComment(comment, model.ConvertUser(author)),
	}, nil
}

func (d *engagementDomain) GetComments(
	ctx context.Context, req *model.GetCommentsRequest,
) (*model.GetCommentsResponse, error) {
	postID, err := strconv.ParseInt(req.PostID, 10, 64)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid post id %s", req.PostID)
	}

	offset, limit, err := clampPagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	comments, err := d.postCommentRepo.GetListByPost(ctx, postID, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comments: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.postCommentRepo.Count(ctx, postID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count comments: %v", err)
		return nil, errorx.Unknown
	}

	authorSet := map[string]any{}
	for i := range comments {
		authorSet[comments[i].AuthorID] = nil
	}

	authors, err := d.userRepo.GetByIDs(ctx, common.MapKeys(authorSet))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comment authors: %v", err)
		return nil, errorx.Unknown
	}

	authorMap := map[string]model.ShortUser{}
	for i := range authors {
		authorMap[authors[i].ID] = model.ConvertUser(&authors[i])
	}

	result := []model.Comment{}
	for i := range comments {
		result = append(result, model.ConvertComment(&comments[i], authorMap[comments[i].AuthorID]))
	}

	return &model.GetCommentsResponse{Comments: result, Total: total}, nil
}

func (d *engagementDomain) LikeComment(
	ctx context.Context, req *model.LikeCommentRequest,
) (*model.LikeCommentResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	commentID, err := strconv.ParseInt(req.CommentID, 10, 64)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid comment id %s", req.CommentID)
	}

	comment, err := d.postCommentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found comment")
		}

		xcontext.Logger(ctx).Errorf("Cannot get comment: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := d.commentLikeRepo.Get(ctx, commentID, userID); err == nil {
		return &model.LikeCommentResponse{Likes: comment.Likes}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get comment like: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.commentLikeRepo.Create(ctx, &entity.CommentLike{CommentID: commentID, UserID: userID})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &model.LikeCommentResponse{Likes: comment.Likes}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot create comment like: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.postCommentRepo.IncreaseLikes(ctx, commentID, 1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase comment likes: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.LikeCommentResponse{Likes: comment.Likes + 1}, nil
}

func (d *engagementDomain) UnlikeComment(
	ctx context.Context, req *model.UnlikeCommentRequest,
) (*model.UnlikeCommentResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	commentID, err := strconv.ParseInt(req.CommentID, 10, 64)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid comment id %s", req.CommentID)
	}

	comment, err := d.postCommentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found comment")
		}

		xcontext.Logger(ctx).Errorf("Cannot get comment: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.commentLikeRepo.Delete(ctx, commentID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.UnlikeCommentResponse{Likes: comment.Likes}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot delete comment like: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.postCommentRepo.IncreaseLikes(ctx, commentID, -1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decrease comment likes: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.UnlikeCommentResponse{Likes: comment.Likes - 1}, nil
}

func (d *engagementDomain) Repost(
	ctx context.Context, req *model.RepostRequest,
) (*model.RepostResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	postID, err := strconv.ParseInt(req.PostID, 10, 64)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid post id %s", req.PostID)
	}

	quoteText := strings.TrimSpace(req.QuoteText)
	if len(quoteText) > maxQuoteTextLength {
		return nil, errorx.New(errorx.BadRequest,
			"Exceed the maximum quote length (%d)", maxQuoteTextLength)
	}

	original, err := d.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found post")
		}

		xcontext.Logger(ctx).Errorf("Cannot get post: %v", err)
		return nil, errorx.Unknown
	}

	if original.Hidden || original.Visibility != entity.PostVisibilityPublic {
		return nil, errorx.New(errorx.PermissionDenied, "Not allow reposting this post")
	}

	isQuote := quoteText != ""

	// One repost per user per post, quotes included.
	if _, err := d.postRepostRepo.Get(ctx, postID, userID); err == nil {
		return nil, errorx.New(errorx.AlreadyReposted, "Already reposted this post")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get repost: %v", err)
		return nil, errorx.Unknown
	}

	author, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get author: %v", err)
		return nil, errorx.Unknown
	}

	kind := entity.PostKindRepost
	if isQuote {
		kind = entity.PostKindQuote
	}

	post := &entity.Post{
		SnowflakeBase:  entity.SnowflakeBase{ID: idutil.NewID()},
		AuthorID:       userID,
		Kind:           kind,
		OriginalPostID: sqlNullInt64(postID),
		QuoteText:      quoteText,
		Visibility:     entity.PostVisibilityPublic,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.postRepo.Create(ctx, post); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create repost post: %v", err)
		return nil, errorx.Unknown
	}

	err = d.postRepostRepo.Create(ctx, &entity.PostRepost{
		PostID:   postID,
		UserID:   userID,
		RepostID: post.ID,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyReposted, "Already reposted this post")
		}

		xcontext.Logger(ctx).Errorf("Cannot create repost record: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.postRepo.IncreaseRetweets(ctx, postID, 1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase post retweets: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	d.bumpTrendingCache(ctx, original, 1)

	common.PublishSocialEvent(ctx, d.publisher, event.RepostEvent{
		PostID:   req.PostID,
		AuthorID: original.AuthorID,
		UserID:   userID,
		RepostID: strconv.FormatInt(post.ID, 10),
		IsQuote:  isQuote,
	}, original.AuthorID)

	return &model.RepostResponse{
		Post: model.ConvertPost(post, model.ConvertUser(author)),
	}, nil
}

// VerifyPostCounters cross-checks the cached counters of a post against the
// cardinality of their authoritative tables. A mismatch means a dependent
// write pair diverged and the post needs reconciliation.
func (d *engagementDomain) VerifyPostCounters(ctx context.Context, postID int64) error {
	post, err := d.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	likes, err := d.postLikeRepo.Count(ctx, postID)
	if err != nil {
		return err
	}

	reposts, err := d.postRepostRepo.Count(ctx, postID)
	if err != nil {
		return err
	}

	comments, err := d.postCommentRepo.Count(ctx, postID)
	if err != nil {
		return err
	}

	if post.Likes != likes || post.Retweets != reposts || post.Comments != comments {
		return errorx.New(errorx.PartialWriteDetected,
			"Post %d counters diverged: likes %d/%d, retweets %d/%d, comments %d/%d",
			postID, post.Likes, likes, post.Retweets, reposts, post.Comments, comments)
	}

	return nil
}

func sqlNullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}
