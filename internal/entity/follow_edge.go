package entity

import (
	"database/sql"
	"time"

	"github.com/pulselab/backend/pkg/enum"
)

type FollowStatusType string

var (
	FollowStatusActive   = enum.New(FollowStatusType("active"))
	FollowStatusPending  = enum.New(FollowStatusType("pending"))
	FollowStatusBlocked  = enum.New(FollowStatusType("blocked"))
	FollowStatusInactive = enum.New(FollowStatusType("inactive"))
)

// FollowEdge is the directed relationship "follower follows followee". An
// unfollow keeps the row with status inactive so a later re-follow can
// increment RefollowCount.
type FollowEdge struct {
	Base

	FollowerID string `gorm:"not null;index:idx_follow_pair,unique;index:idx_follow_follower"`
	Follower   User   `gorm:"foreignKey:FollowerID"`

	FolloweeID string `gorm:"not null;index:idx_follow_pair,unique;index:idx_follow_followee"`
	Followee   User   `gorm:"foreignKey:FolloweeID"`

	Status        FollowStatusType `gorm:"index"`
	FollowedAt    time.Time        `gorm:"index"`
	UnfollowedAt  sql.NullTime
	RefollowCount int

	// IsMutual mirrors whether the reverse edge is active. It is repaired on
	// every create or deactivate of either direction.
	IsMutual bool

	NotifyPosts bool `gorm:"default:true"`
	NotifyLikes bool
	Category    string
	PrivateNote string `gorm:"size:200"`
}

func (FollowEdge) TableName() string {
	return "follow_edges"
}
