package domain

import (
	"context"
	"testing"
	"time"

	"github.com/pulselab/backend/internal/entity"
	"github.com/pulselab/backend/internal/model"
	"github.com/pulselab/backend/internal/repository"
	"github.com/pulselab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func insertActiveEdge(t *testing.T, ctx context.Context, id, follower, followee string) {
	t.Helper()
	err := repository.NewFollowEdgeRepository().Create(ctx, &entity.FollowEdge{
		Base:       entity.Base{ID: id},
		FollowerID: follower,
		FolloweeID: followee,
		Status:     entity.FollowStatusActive,
		FollowedAt: time.Now(),
	})
	require.NoError(t, err)
}

func Test_discoveryDomain_GetSuggestedFollows(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	userRepo := repository.NewUserRepository()
	for _, id := range []string{"user5", "user6"} {
		require.NoError(t, userRepo.Create(ctx, &entity.User{
			Base: entity.Base{ID: id}, Name: id,
		}))
	}

	// User1 follows user2 and user3 (fixture). Both of them follow user4,
	// user2 additionally follows user5 and user6.
	insertActiveEdge(t, ctx, "edge-2-4", testutil.User2.ID, testutil.User4.ID)
	insertActiveEdge(t, ctx, "edge-3-4", testutil.User3.ID, testutil.User4.ID)
	insertActiveEdge(t, ctx, "edge-2-5", testutil.User2.ID, "user5")
	insertActiveEdge(t, ctx, "edge-2-6", testutil.User2.ID, "user6")

	discoveryDomain := NewDiscoveryDomain(
		repository.NewFollowEdgeRepository(),
		repository.NewPostRepository(),
		userRepo,
		&testutil.MockRedisClient{},
	)

	ctxUser1 := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := discoveryDomain.GetSuggestedFollows(
		ctxUser1, &model.GetSuggestedFollowsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 3)

	// User4 has two distinct connectors and comes first. User5 and user6 tie
	// with one connector each and fall back to id order.
	require.Equal(t, testutil.User4.ID, resp.Suggestions[0].User.ID)
	require.Equal(t, 2, resp.Suggestions[0].MutualConnections)
	require.Equal(t, "user5", resp.Suggestions[1].User.ID)
	require.Equal(t, "user6", resp.Suggestions[2].User.ID)

	// Existing followees and the user itself are never suggested.
	for _, s := range resp.Suggestions {
		require.NotEqual(t, testutil.User1.ID, s.User.ID)
		require.NotEqual(t, testutil.User2.ID, s.User.ID)
		require.NotEqual(t, testutil.User3.ID, s.User.ID)
	}

	// The limit truncates the ranked list.
	resp, err = discoveryDomain.GetSuggestedFollows(
		ctxUser1, &model.GetSuggestedFollowsRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Suggestions, 1)
	require.Equal(t, testutil.User4.ID, resp.Suggestions[0].User.ID)
}

func Test_discoveryDomain_GetTrendingHashtags(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	postRepo := repository.NewPostRepository()
	posts := []entity.Post{
		{
			SnowflakeBase: entity.SnowflakeBase{ID: 2001},
			AuthorID:      testutil.User1.ID,
			Text:          "go is fun #golang",
			Hashtags:      []string{"golang"},
			Kind:          entity.PostKindOriginal,
			Visibility:    entity.PostVisibilityPublic,
			Likes:         5, Retweets: 2, Comments: 3,
		},
		{
			SnowflakeBase: entity.SnowflakeBase{ID: 2002},
			AuthorID:      testutil.User2.ID,
			Text:          "#golang #rustlang",
			Hashtags:      []string{"golang", "rustlang"},
			Kind:          entity.PostKindOriginal,
			Visibility:    entity.PostVisibilityPublic,
			Likes:         10,
		},
		// Equal engagement with zerolang but more posts than it.
		{
			SnowflakeBase: entity.SnowflakeBase{ID: 2003},
			AuthorID:      testutil.User2.ID,
			Text:          "#amber",
			Hashtags:      []string{"amber"},
			Kind:          entity.PostKindOriginal,
			Visibility:    entity.PostVisibilityPublic,
		},
		{
			SnowflakeBase: entity.SnowflakeBase{ID: 2004},
			AuthorID:      testutil.User2.ID,
			Text:          "#amber again",
			Hashtags:      []string{"amber"},
			Kind:          entity.PostKindOriginal,
			Visibility:    entity.PostVisibilityPublic,
		},
		{
			SnowflakeBase: entity.SnowflakeBase{ID: 2005},
			AuthorID:      testutil.User2.ID,
			Text:          "#zeolite",
			Hashtags:      []string{"zeolite"},
			Kind:          entity.PostKindOriginal,
			Visibility:    entity.PostVisibilityPublic,
		},
		{
			SnowflakeBase: entity.SnowflakeBase{ID: 2006},
			AuthorID:      testutil.User2.ID,
			Text:          "#zeolite again",
			Hashtags:      []string{"zeolite"},
			Kind:          entity.PostKindOriginal,
			Visibility:    entity.PostVisibilityPublic,
		},
		// Outside of the 24h window.
		{
			SnowflakeBase: entity.SnowflakeBase{
				ID:        2007,
				CreatedAt: time.Now().Add(-25 * time.Hour),
			},
			AuthorID:   testutil.User1.ID,
			Text:       "#stale",
			Hashtags:   []string{"stale"},
			Kind:       entity.PostKindOriginal,
			Visibility: entity.PostVisibilityPublic,
			Likes:      1000,
		},
		// Not public, never trends.
		{
			SnowflakeBase: entity.SnowflakeBase{ID: 2008},
			AuthorID:      testutil.User2.ID,
			Text:          "#secret",
			Hashtags:      []string{"secret"},
			Kind:          entity.PostKindOriginal,
			Visibility:    entity.PostVisibilityFollowers,
			Likes:         1000,
		},
	}

	for _, post := range posts {
		post := post
		require.NoError(t, postRepo.Create(ctx, &post))
	}

	discoveryDomain := NewDiscoveryDomain(
		repository.NewFollowEdgeRepository(),
		postRepo,
		repository.NewUserRepository(),
		&testutil.MockRedisClient{},
	)

	ctxUser1 := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := discoveryDomain.GetTrendingHashtags(
		ctxUser1, &model.GetTrendingHashtagsRequest{})
	require.NoError(t, err)

	var tags []string
	for _, h := range resp.Hashtags {
		tags = append(tags, h.Tag)
	}

	require.NotContains(t, tags, "stale")
	require.NotContains(t, tags, "secret")

	// golang: engagement 20 over 2 posts. amber and zeolite tie at zero
	// engagement with 2 posts each and order lexicographically, the fixture
	// tag pulse has a single post and comes last.
	require.Equal(t, []string{"golang", "rustlang", "amber", "zeolite", "pulse"}, tags)
	require.EqualValues(t, 20, resp.Hashtags[0].Engagement)
	require.EqualValues(t, 2, resp.Hashtags[0].Posts)

	// Window bounds are validated.
	_, err = discoveryDomain.GetTrendingHashtags(
		ctxUser1, &model.GetTrendingHashtagsRequest{WindowHours: 200})
	require.Error(t, err)
}
