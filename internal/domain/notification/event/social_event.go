package event

type FollowUserEvent struct {
	FollowerID string `json:"follower_id" mapstructure:"follower_id"`
	FolloweeID string `json:"followee_id" mapstructure:"followee_id"`
	IsMutual   bool   `json:"is_mutual" mapstructure:"is_mutual"`
}

func (FollowUserEvent) Op() string {
	return "follow_user"
}

type UnfollowUserEvent struct {
	FollowerID string `json:"follower_id" mapstructure:"follower_id"`
	FolloweeID string `json:"followee_id" mapstructure:"followee_id"`
}

func (UnfollowUserEvent) Op() string {
	return "unfollow_user"
}

type LikePostEvent struct {
	PostID   string `json:"post_id" mapstructure:"post_id"`
	AuthorID string `json:"author_id" mapstructure:"author_id"`
	UserID   string `json:"user_id" mapstructure:"user_id"`
}

func (LikePostEvent) Op() string {
	return "like_post"
}

type CommentPostEvent struct {
	PostID    string `json:"post_id" mapstructure:"post_id"`
	AuthorID  string `json:"author_id" mapstructure:"author_id"`
	UserID    string `json:"user_id" mapstructure:"user_id"`
	CommentID string `json:"comment_id" mapstructure:"comment_id"`
}

func (CommentPostEvent) Op() string {
	return "comment_post"
}

type RepostEvent struct {
	PostID   string `json:"post_id" mapstructure:"post_id"`
	AuthorID string `json:"author_id" mapstructure:"author_id"`
	UserID   string `json:"user_id" mapstructure:"user_id"`
	RepostID string `json:"repost_id" mapstructure:"repost_id"`
	IsQuote  bool   `json:"is_quote" mapstructure:"is_quote"`
}

func (RepostEvent) Op() string {
	return "repost"
}
