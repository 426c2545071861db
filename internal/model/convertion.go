package model

import (
	"strconv"

	"github.com/pulselab/backend/internal/entity"
	"github.com/pulselab/backend/pkg/enum"
)

func ConvertUser(user *entity.User) ShortUser {
	if user == nil {
		return ShortUser{}
	}

	return ShortUser{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.ProfilePicture,
	}
}

// ConvertFollowEdge strips the private note unless the edge belongs to the
// requesting user.
func ConvertFollowEdge(
	edge *entity.FollowEdge, follower, followee ShortUser, includePrivate bool,
) FollowEdge {
	if edge == nil {
		return FollowEdge{}
	}

	result := FollowEdge{
		Follower:      follower,
		Followee:      followee,
		Status:        string(edge.Status),
		FollowedAt:    edge.FollowedAt,
		RefollowCount: edge.RefollowCount,
		IsMutual:      edge.IsMutual,
		NotifyPosts:   edge.NotifyPosts,
		NotifyLikes:   edge.NotifyLikes,
		Category:      edge.Category,
	}

	if includePrivate {
		result.PrivateNote = edge.PrivateNote
	}

	return result
}

func ConvertPost(post *entity.Post, author ShortUser) Post {
	if post == nil {
		return Post{}
	}

	result := Post{
		ID:         strconv.FormatInt(post.ID, 10),
		Author:     author,
		Text:       post.Text,
		Media:      post.Media,
		Hashtags:   post.Hashtags,
		Mentions:   post.Mentions,
		Kind:       string(post.Kind),
		QuoteText:  post.QuoteText,
		Likes:      post.Likes,
		Retweets:   post.Retweets,
		Comments:   post.Comments,
		Views:      post.Views,
		Visibility: string(post.Visibility),
		CreatedAt:  post.CreatedAt,
	}

	if post.OriginalPostID.Valid {
		result.OriginalPostID = strconv.FormatInt(post.OriginalPostID.Int64, 10)
	}

	return result
}

func ConvertComment(comment *entity.PostComment, author ShortUser) Comment {
	if comment == nil {
		return Comment{}
	}

	return Comment{
		ID:        strconv.FormatInt(comment.ID, 10),
		PostID:    strconv.FormatInt(comment.PostID, 10),
		Author:    author,
		Text:      comment.Text,
		Likes:     comment.Likes,
		CreatedAt: comment.CreatedAt,
	}
}

// ParseVisibility parses a client-provided visibility, defaulting to public.
func ParseVisibility(s string) (entity.PostVisibilityType, error) {
	if s == "" {
		return entity.PostVisibilityPublic, nil
	}

	return enum.ToEnum[entity.PostVisibilityType](s)
}
