package entity

type PostComment struct {
	SnowflakeBase

	PostID int64 `gorm:"not null;index"`
	Post   Post  `gorm:"foreignKey:PostID"`

	AuthorID string `gorm:"not null"`
	Author   User   `gorm:"foreignKey:AuthorID"`

	Text string `gorm:"size:1000"`

	// Likes caches the cardinality of comment_likes for this comment.
	Likes int64
}

func (PostComment) TableName() string {
	return "post_comments"
}
