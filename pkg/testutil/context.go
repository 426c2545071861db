package testutil

import (
	"context"
	"time"

	"github.com/pulselab/backend/config"
	"github.com/pulselab/backend/internal/entity"
	"github.com/pulselab/backend/pkg/logger"
	"github.com/pulselab/backend/pkg/xcontext"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockConfigs() config.Configs {
	return config.Configs{
		Env: "testing",
		ApiServer: config.ServerConfigs{
			DefaultLimit: 10,
			MaxLimit:     50,
		},
		Kafka: config.KafkaConfigs{
			SocialTopic: "social-events",
		},
		Feed: config.FeedConfigs{
			MaxFanout:         100,
			ViewFlushInterval: 50 * time.Millisecond,
		},
		Discovery: config.DiscoveryConfigs{
			MaxFanout:          100,
			SuggestionCacheTTL: time.Minute,
			TrendingCacheTTL:   time.Minute,
		},
	}
}

// MockContext returns a context carrying an in-memory database with the full
// schema migrated, ready to be passed to repositories and domains.
func NewMockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func NewMockContextWithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = NewMockContext()
	}

	return xcontext.WithRequestUserID(ctx, userID)
}
