package viewtrack

import (
	"testing"

	"github.com/pulselab/backend/internal/repository"
	"github.com/pulselab/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_Batcher_Flush(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	postRepo := repository.NewPostRepository()
	batcher := NewBatcher(ctx, postRepo)
	defer batcher.Stop()

	batcher.Track(testutil.Post1.ID)
	batcher.Track(testutil.Post1.ID)
	batcher.Track(testutil.Post2.ID)
	batcher.Flush(ctx)

	post, err := postRepo.GetByID(ctx, testutil.Post1.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, post.Views)

	post, err = postRepo.GetByID(ctx, testutil.Post2.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, post.Views)

	// A flush with nothing pending writes nothing.
	batcher.Flush(ctx)
	post, err = postRepo.GetByID(ctx, testutil.Post1.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, post.Views)
}

func Test_Batcher_DropsDeletedPosts(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.CreateFixtureDb(ctx)

	postRepo := repository.NewPostRepository()
	batcher := NewBatcher(ctx, postRepo)
	defer batcher.Stop()

	// A view of a post that no longer exists is discarded, not retried.
	batcher.Track(99999)
	batcher.Flush(ctx)

	batcher.Flush(ctx)
	require.Zero(t, batcher.pending.Size())
}
