package entity

import (
	"database/sql"

	"github.com/pulselab/backend/pkg/enum"
)

type PostKindType string

var (
	PostKindOriginal = enum.New(PostKindType("original"))
	PostKindRepost   = enum.New(PostKindType("repost"))
	PostKindQuote    = enum.New(PostKindType("quote"))
)

type PostVisibilityType string

var (
	PostVisibilityPublic    = enum.New(PostVisibilityType("public"))
	PostVisibilityFollowers = enum.New(PostVisibilityType("followers"))
	PostVisibilityPrivate   = enum.New(PostVisibilityType("private"))
)

// Post engagement counters cache the cardinality of the post_likes,
// post_reposts and post_comments tables. They are only written in the same
// transaction as the authoritative row.
type Post struct {
	SnowflakeBase

	AuthorID string `gorm:"not null;index"`
	Author   User   `gorm:"foreignKey:AuthorID"`

	Text     string        `gorm:"size:2000"`
	Media    Array[string] `gorm:"type:text"`
	Hashtags Array[string] `gorm:"type:text"`
	Mentions Array[string] `gorm:"type:text"`

	Kind           PostKindType `gorm:"index"`
	OriginalPostID sql.NullInt64
	QuoteText      string `gorm:"size:500"`

	Likes    int64
	Retweets int64
	Comments int64
	Views    int64

	Visibility PostVisibilityType `gorm:"index"`

	// Hidden is owned by the moderation subsystem and only read here.
	Hidden bool
}

func (Post) TableName() string {
	return "posts"
}
