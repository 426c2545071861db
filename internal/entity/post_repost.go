package entity

import "time"

type PostRepost struct {
	PostID int64 `gorm:"primaryKey"`
	Post   Post  `gorm:"foreignKey:PostID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	// RepostID points to the post created by this repost or quote.
	RepostID int64

	CreatedAt time.Time
}

func (PostRepost) TableName() string {
	return "post_reposts"
}
