package testutil

import (
	"context"
	"time"

	"github.com/pulselab/backend/internal/entity"
	"github.com/pulselab/backend/internal/repository"
)

// Fixture users. User1 and User2 follow each other, User1 also follows
// User3.
var (
	User1 = entity.User{Base: entity.Base{ID: "user1"}, Name: "user1"}
	User2 = entity.User{Base: entity.Base{ID: "user2"}, Name: "user2"}
	User3 = entity.User{Base: entity.Base{ID: "user3"}, Name: "user3"}
	User4 = entity.User{Base: entity.Base{ID: "user4"}, Name: "user4"}

	Post1 = entity.Post{
		SnowflakeBase: entity.SnowflakeBase{ID: 1001},
		AuthorID:      User1.ID,
		Text:          "hello #pulse",
		Hashtags:      []string{"pulse"},
		Kind:          entity.PostKindOriginal,
		Visibility:    entity.PostVisibilityPublic,
	}
	Post2 = entity.Post{
		SnowflakeBase: entity.SnowflakeBase{ID: 1002},
		AuthorID:      User2.ID,
		Text:          "followers only",
		Kind:          entity.PostKindOriginal,
		Visibility:    entity.PostVisibilityFollowers,
	}
)

func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertFollowEdges(ctx)
	InsertPosts(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()

	for _, user := range []entity.User{User1, User2, User3, User4} {
		user := user
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}

func InsertFollowEdges(ctx context.Context) {
	followEdgeRepo := repository.NewFollowEdgeRepository()

	edges := []entity.FollowEdge{
		{
			Base:       entity.Base{ID: "edge-1-2"},
			FollowerID: User1.ID, FolloweeID: User2.ID,
			Status: entity.FollowStatusActive, FollowedAt: time.Now(),
			IsMutual: true, NotifyPosts: true,
		},
		{
			Base:       entity.Base{ID: "edge-2-1"},
			FollowerID: User2.ID, FolloweeID: User1.ID,
			Status: entity.FollowStatusActive, FollowedAt: time.Now(),
			IsMutual: true, NotifyPosts: true,
		},
		{
			Base:       entity.Base{ID: "edge-1-3"},
			FollowerID: User1.ID, FolloweeID: User3.ID,
			Status: entity.FollowStatusActive, FollowedAt: time.Now(),
			NotifyPosts: true,
		},
	}

	for _, edge := range edges {
		edge := edge
		if err := followEdgeRepo.Create(ctx, &edge); err != nil {
			panic(err)
		}
	}
}

func InsertPosts(ctx context.Context) {
	postRepo := repository.NewPostRepository()

	for _, post := range []entity.Post{Post1, Post2} {
		post := post
		if err := postRepo.Create(ctx, &post); err != nil {
			panic(err)
		}
	}
}
