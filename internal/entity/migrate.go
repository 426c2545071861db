package entity

import (
	"context"

	"github.com/pulselab/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&FollowEdge{},
		&Post{},
		&PostLike{},
		&PostRepost{},
		&PostComment{},
		&CommentLike{},
	)
}
