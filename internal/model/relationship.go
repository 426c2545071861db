package model

import "time"

type FollowEdge struct {
	Follower      ShortUser `json:"follower"`
	Followee      ShortUser `json:"followee"`
	Status        string    `json:"status"`
	FollowedAt    time.Time `json:"followed_at"`
	RefollowCount int       `json:"refollow_count"`
	IsMutual      bool      `json:"is_mutual"`
	NotifyPosts   bool      `json:"notify_posts"`
	NotifyLikes   bool      `json:"notify_likes"`
	Category      string    `json:"category,omitempty"`

	// PrivateNote is only filled for the follower itself.
	PrivateNote string `json:"private_note,omitempty"`
}

type FollowUserRequest struct {
	UserID string `json:"user_id"`
}

type FollowUserResponse struct {
	IsMutual bool `json:"is_mutual"`
}

type UnfollowUserRequest struct {
	UserID string `json:"user_id"`
}

type UnfollowUserResponse struct{}

type UpdateFollowSettingsRequest struct {
	UserID      string  `json:"user_id"`
	NotifyPosts *bool   `json:"notify_posts"`
	NotifyLikes *bool   `json:"notify_likes"`
	Category    *string `json:"category"`
	PrivateNote *string `json:"private_note"`
}

type UpdateFollowSettingsResponse struct{}

type GetFollowersRequest struct {
	UserID string `json:"user_id" form:"user_id"`
	Offset int    `json:"offset" form:"offset"`
	Limit  int    `json:"limit" form:"limit"`
}

type GetFollowersResponse struct {
	Followers []FollowEdge `json:"followers"`
	Total     int64        `json:"total"`
}

type GetFollowingRequest struct {
	UserID string `json:"user_id" form:"user_id"`
	Offset int    `json:"offset" form:"offset"`
	Limit  int    `json:"limit" form:"limit"`
}

type GetFollowingResponse struct {
	Following []FollowEdge `json:"following"`
	Total     int64        `json:"total"`
}
