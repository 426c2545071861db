package domain

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/pulselab/backend/internal/model"
	"github.com/pulselab/backend/internal/repository"
	"github.com/pulselab/backend/pkg/errorx"
	"github.com/pulselab/backend/pkg/pubsub"
	"github.com/pulselab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestEngagementDomain(publisher *testutil.MockPublisher) *engagementDomain {
	var pub pubsub.Publisher
	if publisher != nil {
		pub = publisher
	}

	return NewEngagementDomain(
		repository.NewPostRepository(),
		repository.NewPostLikeRepository(),
		repository.NewPostRepostRepository(),
		repository.NewPostCommentRepository(),
		repository.NewCommentLikeRepository(),
		repository.NewUserRepository(),
		pub,
		nil,
	)
}

func Test_engagementDomain_CreatePost(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	engagementDomain := newTestEngagementDomain(nil)
	ctxUser1 := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)

	// Tags are lowercased and deduplicated, keeping first-seen order.
	resp, err := engagementDomain.CreatePost(ctxUser1, &model.CreatePostRequest{
		Text: "Hello #Sanskrit #sanskrit world @Alice and @alice",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"sanskrit"}, resp.Post.Hashtags)
	require.Equal(t, []string{"alice"}, resp.Post.Mentions)
	require.Equal(t, "original", resp.Post.Kind)
	require.Equal(t, "public", resp.Post.Visibility)
	require.Equal(t, testutil.User1.ID, resp.Post.Author.ID)

	// A post needs either text or media.
	_, err = engagementDomain.CreatePost(ctxUser1, &model.CreatePostRequest{Text: "   "})
	require.Equal(t, "Not allow posting with no content", err.Error())

	// Media-only posts are fine.
	_, err = engagementDomain.CreatePost(ctxUser1, &model.CreatePostRequest{
		Media: []string{"https://cdn.example.com/a.jpg"},
	})
	require.NoError(t, err)

	// Unknown visibility is rejected.
	_, err = engagementDomain.CreatePost(ctxUser1, &model.CreatePostRequest{
		Text:       "hi",
		Visibility: "everyone",
	})
	require.Equal(t, "Invalid visibility everyone", err.Error())
}

func Test_engagementDomain_LikeUnlikePost(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	postRepo := repository.NewPostRepository()
	engagementDomain := newTestEngagementDomain(nil)

	ctxUser2 := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	postID := strconv.FormatInt(testutil.Post1.ID, 10)

	resp, err := engagementDomain.LikePost(ctxUser2, &model.LikePostRequest{PostID: postID})
	require.NoError(t, err)
	require.EqualValues(t, 1, resp.Likes)

	// A second like of the same user changes nothing.
	resp, err = engagementDomain.LikePost(ctxUser2, &model.LikePostRequest{PostID: postID})
	require.NoError(t, err)
	require.EqualValues(t, 1, resp.Likes)

	post, err := postRepo.GetByID(ctx, testutil.Post1.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, post.Likes)

	unlikeResp, err := engagementDomain.UnlikePost(ctxUser2, &model.UnlikePostRequest{PostID: postID})
	require.NoError(t, err)
	require.EqualValues(t, 0, unlikeResp.Likes)

	// Unliking again is a no-op, the counter never goes negative.
	unlikeResp, err = engagementDomain.UnlikePost(ctxUser2, &model.UnlikePostRequest{PostID: postID})
	require.NoError(t, err)
	require.EqualValues(t, 0, unlikeResp.Likes)

	post, err = postRepo.GetByID(ctx, testutil.Post1.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, post.Likes)

	// The stored counter and the like rows stay in step.
	require.NoError(t, engagementDomain.VerifyPostCounters(ctx, testutil.Post1.ID))

	// Unknown posts are rejected.
	_, err = engagementDomain.LikePost(ctxUser2, &model.LikePostRequest{PostID: "99999"})
	require.Equal(t, "Not found post", err.Error())
}

func Test_engagementDomain_Comments(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	postRepo := repository.NewPostRepository()
	engagementDomain := newTestEngagementDomain(nil)

	ctxUser2 := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	postID := strconv.FormatInt(testutil.Post1.ID, 10)

	// Blank comments are rejected before touching the database.
	_, err := engagementDomain.AddComment(ctxUser2, &model.AddCommentRequest{
		PostID: postID,
		Text:   "  \t ",
	})
	require.Equal(t, "Not allow empty comment", err.Error())

	first, err := engagementDomain.AddComment(ctxUser2, &model.AddCommentRequest{
		PostID: postID,
		Text:   "first",
	})
	require.NoError(t, err)

	_, err = engagementDomain.AddComment(ctxUser2, &model.AddCommentRequest{
		PostID: postID,
		Text:   "second",
	})
	require.NoError(t, err)

	post, err := postRepo.GetByID(ctx, testutil.Post1.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, post.Comments)

	// Comments come back in insertion order.
	comments, err := engagementDomain.GetComments(ctxUser2, &model.GetCommentsRequest{PostID: postID})
	require.NoError(t, err)
	require.EqualValues(t, 2, comments.Total)
	require.Equal(t, "first", comments.Comments[0].Text)
	require.Equal(t, "second", comments.Comments[1].Text)

	// Comment likes mirror the post like semantics.
	likeResp, err := engagementDomain.LikeComment(ctxUser2, &model.LikeCommentRequest{
		CommentID: first.Comment.ID,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, likeResp.Likes)

	likeResp, err = engagementDomain.LikeComment(ctxUser2, &model.LikeCommentRequest{
		CommentID: first.Comment.ID,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, likeResp.Likes)

	unlikeResp, err := engagementDomain.UnlikeComment(ctxUser2, &model.UnlikeCommentRequest{
		CommentID: first.Comment.ID,
	})
	require.NoError(t, err)
	require.EqualValues(t, 0, unlikeResp.Likes)
}

func Test_engagementDomain_Repost(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	postRepo := repository.NewPostRepository()
	engagementDomain := newTestEngagementDomain(nil)

	ctxUser2 := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	postID := strconv.FormatInt(testutil.Post1.ID, 10)

	resp, err := engagementDomain.Repost(ctxUser2, &model.RepostRequest{PostID: postID})
	require.NoError(t, err)
	require.Equal(t, "repost", resp.Post.Kind)
	require.Equal(t, postID, resp.Post.OriginalPostID)

	// Reposting the same post twice fails.
	_, err = engagementDomain.Repost(ctxUser2, &model.RepostRequest{PostID: postID})
	require.Equal(t, "Already reposted this post", err.Error())

	// Quoting counts as a repost of the same post and is deduped too.
	_, err = engagementDomain.Repost(ctxUser2, &model.RepostRequest{
		PostID:    postID,
		QuoteText: "look at this",
	})
	require.Equal(t, "Already reposted this post", err.Error())

	// A different user may quote it.
	ctxUser3 := testutil.NewMockContextWithUserID(ctx, testutil.User3.ID)
	quote, err := engagementDomain.Repost(ctxUser3, &model.RepostRequest{
		PostID:    postID,
		QuoteText: "look at this",
	})
	require.NoError(t, err)
	require.Equal(t, "quote", quote.Post.Kind)
	require.Equal(t, "look at this", quote.Post.QuoteText)

	post, err := postRepo.GetByID(ctx, testutil.Post1.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, post.Retweets)
	require.NoError(t, engagementDomain.VerifyPostCounters(ctx, testutil.Post1.ID))

	// Followers-only posts cannot be reposted.
	_, err = engagementDomain.Repost(ctxUser2, &model.RepostRequest{
		PostID: strconv.FormatInt(testutil.Post2.ID, 10),
	})
	require.Equal(t, "Not allow reposting this post", err.Error())
}

func Test_engagementDomain_BumpsTrendingCache(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	type incr struct {
		key    string
		delta  int64
		member string
	}

	var incrs []incr
	warm := false
	redisClient := &testutil.MockRedisClient{
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			return warm, nil
		},
		ZIncrByFunc: func(ctx context.Context, key string, delta int64, member string) error {
			incrs = append(incrs, incr{key, delta, member})
			return nil
		},
	}

	engagementDomain := NewEngagementDomain(
		repository.NewPostRepository(),
		repository.NewPostLikeRepository(),
		repository.NewPostRepostRepository(),
		repository.NewPostCommentRepository(),
		repository.NewCommentLikeRepository(),
		repository.NewUserRepository(),
		nil,
		redisClient,
	)

	ctxUser2 := testutil.NewMockContextWithUserID(ctx, testutil.User2.ID)
	postID := strconv.FormatInt(testutil.Post1.ID, 10)

	// A cold cache is left alone for the next full aggregation.
	_, err := engagementDomain.LikePost(ctxUser2, &model.LikePostRequest{PostID: postID})
	require.NoError(t, err)
	require.Empty(t, incrs)

	// A warm window absorbs the engagement delta per hashtag.
	warm = true
	_, err = engagementDomain.UnlikePost(ctxUser2, &model.UnlikePostRequest{PostID: postID})
	require.NoError(t, err)
	require.Len(t, incrs, 1)
	require.EqualValues(t, -1, incrs[0].delta)
	require.Equal(t, "pulse", incrs[0].member)
	require.Contains(t, incrs[0].key, "discovery:trending:24h:")
}

func Test_engagementDomain_VerifyPostCounters_Divergence(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	postRepo := repository.NewPostRepository()
	engagementDomain := newTestEngagementDomain(nil)

	require.NoError(t, engagementDomain.VerifyPostCounters(ctx, testutil.Post1.ID))

	// A counter bumped without a matching like row is reported.
	require.NoError(t, postRepo.IncreaseLikes(ctx, testutil.Post1.ID, 1))
	err := engagementDomain.VerifyPostCounters(ctx, testutil.Post1.ID)
	require.True(t, errors.Is(err, errorx.Error{Code: errorx.PartialWriteDetected}))
}
