package entity

import "time"

type PostLike struct {
	PostID int64 `gorm:"primaryKey"`
	Post   Post  `gorm:"foreignKey:PostID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	CreatedAt time.Time
}

func (PostLike) TableName() string {
	return "post_likes"
}
