// Package viewtrack coalesces view counter increments so reading a timeline
// never issues one UPDATE per post.
package viewtrack

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/pulselab/backend/internal/common"
	"github.com/pulselab/backend/internal/repository"
	"github.com/pulselab/backend/pkg/xcontext"
	"github.com/puzpuzpuz/xsync/v2"
	"gorm.io/gorm"
)

type Batcher struct {
	postRepo repository.PostRepository

	// pending maps a decimal post id to its accumulated delta.
	pending *xsync.MapOf[string, int64]

	done     chan any
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewBatcher starts the flush loop on the interval of
// Feed.ViewFlushInterval. The given context must stay valid for the life of
// the batcher since flushes reuse its database connection.
func NewBatcher(ctx context.Context, postRepo repository.PostRepository) *Batcher {
	b := &Batcher{
		postRepo: postRepo,
		pending:  xsync.NewMapOf[int64](),
		done:     make(chan any),
	}

	b.wg.Add(1)
	go b.run(ctx)
	return b
}

// Track records one view of postID. It never blocks on the database.
func (b *Batcher) Track(postID int64) {
	key := strconv.FormatInt(postID, 10)
	b.pending.Compute(key, func(old int64, _ bool) (int64, bool) {
		return old + 1, false
	})
}

func (b *Batcher) run(ctx context.Context) {
	defer b.wg.Done()

	interval := xcontext.Configs(ctx).Feed.ViewFlushInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.Flush(ctx)
		case <-b.done:
			b.Flush(ctx)
			return
		}
	}
}

// Flush writes every pending delta to the database. A failed write puts the
// delta back so views are dropped only if the post itself is gone.
func (b *Batcher) Flush(ctx context.Context) {
	b.pending.Range(func(key string, _ int64) bool {
		delta, ok := b.pending.LoadAndDelete(key)
		if !ok || delta == 0 {
			return true
		}

		postID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Invalid pending view key %s: %v", key, err)
			return true
		}

		if err := b.postRepo.IncreaseViews(ctx, postID, delta); err != nil {
			common.PromCounters[common.ViewFlushFailure].
				WithLabelValues("db_error").Inc()
			xcontext.Logger(ctx).Warnf("Cannot flush views of post %d: %v", postID, err)

			if !errors.Is(err, gorm.ErrRecordNotFound) {
				b.pending.Compute(key, func(old int64, _ bool) (int64, bool) {
					return old + delta, false
				})
			}
		}

		return true
	})
}

// Stop flushes the remaining deltas and terminates the loop.
func (b *Batcher) Stop() {
	b.stopOnce.Do(func() {
		close(b.done)
	})
	b.wg.Wait()
}
