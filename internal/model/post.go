package model

import "time"

type Post struct {
	ID             string    `json:"id"`
	Author         ShortUser `json:"author"`
	Text           string    `json:"text,omitempty"`
	Media          []string  `json:"media,omitempty"`
	Hashtags       []string  `json:"hashtags,omitempty"`
	Mentions       []string  `json:"mentions,omitempty"`
	Kind           string    `json:"kind"`
	OriginalPostID string    `json:"original_post_id,omitempty"`
	QuoteText      string    `json:"quote_text,omitempty"`
	Likes          int64     `json:"likes"`
	Retweets       int64     `json:"retweets"`
	Comments       int64     `json:"comments"`
	Views          int64     `json:"views"`
	Visibility     string    `json:"visibility"`
	CreatedAt      time.Time `json:"created_at"`
}

type GetPostRequest struct {
	PostID string `json:"post_id" form:"post_id"`
}

type GetPostResponse struct {
	Post        Post        `json:"post"`
	LikedBy     []ShortUser `json:"liked_by"`
	RetweetedBy []ShortUser `json:"retweeted_by"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Author    ShortUser `json:"author"`
	Text      string    `json:"text"`
	Likes     int64     `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}
