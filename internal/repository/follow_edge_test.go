package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/pulselab/backend/internal/entity"
	"github.com/pulselab/backend/internal/repository"
	"github.com/pulselab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_followEdgeRepository_ReactivateDeactivate(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	repo := repository.NewFollowEdgeRepository()

	// Reactivating an active edge matches nothing.
	err := repo.Reactivate(ctx, testutil.User1.ID, testutil.User2.ID, time.Now())
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// Deactivating flips the status and clears the mutual flag.
	err = repo.Deactivate(ctx, testutil.User1.ID, testutil.User2.ID, time.Now())
	require.NoError(t, err)

	edge, err := repo.Get(ctx, testutil.User1.ID, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, entity.FollowStatusInactive, edge.Status)
	require.False(t, edge.IsMutual)
	require.True(t, edge.UnfollowedAt.Valid)

	// Deactivating twice matches nothing.
	err = repo.Deactivate(ctx, testutil.User1.ID, testutil.User2.ID, time.Now())
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// Reactivating restores the edge and counts the refollow.
	err = repo.Reactivate(ctx, testutil.User1.ID, testutil.User2.ID, time.Now())
	require.NoError(t, err)

	edge, err = repo.GetActive(ctx, testutil.User1.ID, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, 1, edge.RefollowCount)
	require.False(t, edge.UnfollowedAt.Valid)
}

func Test_followEdgeRepository_CreateDuplicatePair(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	repo := repository.NewFollowEdgeRepository()

	// The fixture already holds an edge for this pair. A second insert is
	// exactly what a concurrent follow attempts after its pre-check missed.
	err := repo.Create(ctx, &entity.FollowEdge{
		Base:       entity.Base{ID: "edge-duplicate"},
		FollowerID: testutil.User1.ID,
		FolloweeID: testutil.User2.ID,
		Status:     entity.FollowStatusActive,
		FollowedAt: time.Now(),
	})
	require.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func Test_followEdgeRepository_GetActiveFolloweeIDs(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	repo := repository.NewFollowEdgeRepository()

	ids, err := repo.GetActiveFolloweeIDs(ctx, testutil.User1.ID, 10)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{testutil.User2.ID, testutil.User3.ID}, ids)

	// The bound is honored.
	ids, err = repo.GetActiveFolloweeIDs(ctx, testutil.User1.ID, 1)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	// Inactive edges are excluded.
	require.NoError(t, repo.Deactivate(ctx, testutil.User1.ID, testutil.User2.ID, time.Now()))
	ids, err = repo.GetActiveFolloweeIDs(ctx, testutil.User1.ID, 10)
	require.NoError(t, err)
	require.Equal(t, []string{testutil.User3.ID}, ids)
}
