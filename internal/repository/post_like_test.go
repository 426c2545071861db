package repository_test

import (
	"errors"
	"testing"

	"github.com/pulselab/backend/internal/entity"
	"github.com/pulselab/backend/internal/repository"
	"github.com/pulselab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_postLikeRepository_CreateDuplicate(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	repo := repository.NewPostLikeRepository()

	like := &entity.PostLike{PostID: testutil.Post1.ID, UserID: testutil.User2.ID}
	require.NoError(t, repo.Create(ctx, like))

	// The second insert of the same (post, user) pair loses the race.
	err := repo.Create(ctx, &entity.PostLike{PostID: testutil.Post1.ID, UserID: testutil.User2.ID})
	require.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func Test_postRepostRepository_CreateDuplicate(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	repo := repository.NewPostRepostRepository()

	require.NoError(t, repo.Create(ctx, &entity.PostRepost{
		PostID:   testutil.Post1.ID,
		UserID:   testutil.User2.ID,
		RepostID: 4001,
	}))

	err := repo.Create(ctx, &entity.PostRepost{
		PostID:   testutil.Post1.ID,
		UserID:   testutil.User2.ID,
		RepostID: 4002,
	})
	require.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}
