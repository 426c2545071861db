package domain

import (
	"encoding/json"
	"testing"

	"github.com/pulselab/backend/internal/domain/notification/event"
	"github.com/pulselab/backend/internal/model"
	"github.com/pulselab/backend/internal/repository"
	"github.com/pulselab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_relationshipDomain_FullScenario(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	followEdgeRepo := repository.NewFollowEdgeRepository()
	publisher := testutil.NewMockPublisher()
	relationshipDomain := NewRelationshipDomain(
		followEdgeRepo, repository.NewUserRepository(), publisher)

	// User3 follows user4, no reverse edge yet.
	ctxUser3 := testutil.NewMockContextWithUserID(ctx, testutil.User3.ID)
	resp, err := relationshipDomain.Follow(
		ctxUser3, &model.FollowUserRequest{UserID: testutil.User4.ID})
	require.NoError(t, err)
	require.False(t, resp.IsMutual)

	// Following twice fails.
	_, err = relationshipDomain.Follow(
		ctxUser3, &model.FollowUserRequest{UserID: testutil.User4.ID})
	require.Equal(t, "Already following this user", err.Error())

	// The reverse follow makes both edges mutual.
	ctxUser4 := testutil.NewMockContextWithUserID(ctx, testutil.User4.ID)
	resp, err = relationshipDomain.Follow(
		ctxUser4, &model.FollowUserRequest{UserID: testutil.User3.ID})
	require.NoError(t, err)
	require.True(t, resp.IsMutual)

	edge, err := followEdgeRepo.GetActive(ctx, testutil.User3.ID, testutil.User4.ID)
	require.NoError(t, err)
	require.True(t, edge.IsMutual)

	edge, err = followEdgeRepo.GetActive(ctx, testutil.User4.ID, testutil.User3.ID)
	require.NoError(t, err)
	require.True(t, edge.IsMutual)

	// Unfollowing clears the mutual flag of the surviving edge.
	_, err = relationshipDomain.Unfollow(
		ctxUser3, &model.UnfollowUserRequest{UserID: testutil.User4.ID})
	require.NoError(t, err)

	edge, err = followEdgeRepo.GetActive(ctx, testutil.User4.ID, testutil.User3.ID)
	require.NoError(t, err)
	require.False(t, edge.IsMutual)

	// Following again reactivates the old edge and counts the refollow.
	resp, err = relationshipDomain.Follow(
		ctxUser3, &model.FollowUserRequest{UserID: testutil.User4.ID})
	require.NoError(t, err)
	require.True(t, resp.IsMutual)

	edge, err = followEdgeRepo.GetActive(ctx, testutil.User3.ID, testutil.User4.ID)
	require.NoError(t, err)
	require.Equal(t, 1, edge.RefollowCount)
	require.True(t, edge.IsMutual)
}

func Test_relationshipDomain_Follow_Failures(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	relationshipDomain := NewRelationshipDomain(
		repository.NewFollowEdgeRepository(), repository.NewUserRepository(), nil)

	ctxUser1 := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)

	// Cannot follow yourself.
	_, err := relationshipDomain.Follow(
		ctxUser1, &model.FollowUserRequest{UserID: testutil.User1.ID})
	require.Equal(t, "Not allow following yourself", err.Error())

	// Cannot follow an unknown user.
	_, err = relationshipDomain.Follow(
		ctxUser1, &model.FollowUserRequest{UserID: "unknown"})
	require.Equal(t, "Not found user", err.Error())

	// Cannot unfollow a user who was never followed.
	_, err = relationshipDomain.Unfollow(
		ctxUser1, &model.UnfollowUserRequest{UserID: testutil.User4.ID})
	require.Equal(t, "Not following this user", err.Error())
}

func Test_relationshipDomain_Follow_PublishesEvent(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	publisher := testutil.NewMockPublisher()
	relationshipDomain := NewRelationshipDomain(
		repository.NewFollowEdgeRepository(), repository.NewUserRepository(), publisher)

	ctxUser3 := testutil.NewMockContextWithUserID(ctx, testutil.User3.ID)
	_, err := relationshipDomain.Follow(
		ctxUser3, &model.FollowUserRequest{UserID: testutil.User4.ID})
	require.NoError(t, err)

	packs := publisher.Packs["social-events"]
	require.Len(t, packs, 1)

	var req event.EventRequest
	require.NoError(t, json.Unmarshal(packs[0].Msg, &req))
	ev, err := event.Parse(&req)
	require.NoError(t, err)

	followEv, ok := ev.(*event.FollowUserEvent)
	require.True(t, ok)
	require.Equal(t, testutil.User3.ID, followEv.FollowerID)
	require.Equal(t, testutil.User4.ID, followEv.FolloweeID)
}

func Test_relationshipDomain_GetFollowers(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	relationshipDomain := NewRelationshipDomain(
		repository.NewFollowEdgeRepository(), repository.NewUserRepository(), nil)

	// User1 is followed by user2 only.
	ctxUser1 := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := relationshipDomain.GetFollowers(ctxUser1, &model.GetFollowersRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 1, resp.Total)
	require.Len(t, resp.Followers, 1)
	require.Equal(t, testutil.User2.ID, resp.Followers[0].Follower.ID)
	require.True(t, resp.Followers[0].IsMutual)

	// User1 follows user2 and user3.
	resp2, err := relationshipDomain.GetFollowing(ctxUser1, &model.GetFollowingRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 2, resp2.Total)
	require.Len(t, resp2.Following, 2)

	// The limit is bounded by the configured maximum.
	_, err = relationshipDomain.GetFollowers(
		ctxUser1, &model.GetFollowersRequest{Limit: 51})
	require.Equal(t, "Exceed the maximum limit (50)", err.Error())
}

func Test_relationshipDomain_UpdateSettings(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	followEdgeRepo := repository.NewFollowEdgeRepository()
	relationshipDomain := NewRelationshipDomain(
		followEdgeRepo, repository.NewUserRepository(), nil)

	notifyPosts := false
	category := "friends"
	note := "college roommate"

	ctxUser1 := testutil.NewMockContextWithUserID(ctx, testutil.User1.ID)
	_, err := relationshipDomain.UpdateSettings(ctxUser1, &model.UpdateFollowSettingsRequest{
		UserID:      testutil.User2.ID,
		NotifyPosts: &notifyPosts,
		Category:    &category,
		PrivateNote: &note,
	})
	require.NoError(t, err)

	edge, err := followEdgeRepo.GetActive(ctx, testutil.User1.ID, testutil.User2.ID)
	require.NoError(t, err)
	require.False(t, edge.NotifyPosts)
	require.Equal(t, "friends", edge.Category)
	require.Equal(t, "college roommate", edge.PrivateNote)

	// Settings require an active edge.
	_, err = relationshipDomain.UpdateSettings(ctxUser1, &model.UpdateFollowSettingsRequest{
		UserID:   testutil.User4.ID,
		Category: &category,
	})
	require.Equal(t, "Not following this user", err.Error())

	// Empty settings are rejected.
	_, err = relationshipDomain.UpdateSettings(ctxUser1, &model.UpdateFollowSettingsRequest{
		UserID: testutil.User2.ID,
	})
	require.Equal(t, "Not allow empty settings", err.Error())
}
