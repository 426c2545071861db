package entity

import "time"

type CommentLike struct {
	CommentID int64       `gorm:"primaryKey"`
	Comment   PostComment `gorm:"foreignKey:CommentID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	CreatedAt time.Time
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
