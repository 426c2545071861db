package model

type CreatePostRequest struct {
	Text       string   `json:"text"`
	Media      []string `json:"media"`
	Visibility string   `json:"visibility"`
}

type CreatePostResponse struct {
	Post Post `json:"post"`
}

type LikePostRequest struct {
	PostID string `json:"post_id"`
}

type LikePostResponse struct {
	Likes int64 `json:"likes"`
}

type UnlikePostRequest struct {
	PostID string `json:"post_id"`
}

type UnlikePostResponse struct {
	Likes int64 `json:"likes"`
}

type AddCommentRequest struct {
	PostID string `json:"post_id"`
	Text   string `json:"text"`
}

type AddCommentResponse struct {
	Comment Comment `json:"comment"`
}

type LikeCommentRequest struct {
	CommentID string `json:"comment_id"`
}

type LikeCommentResponse struct {
	Likes int64 `json:"likes"`
}

type UnlikeCommentRequest struct {
	CommentID string `json:"comment_id"`
}

type UnlikeCommentResponse struct {
	Likes int64 `json:"likes"`
}

type RepostRequest struct {
	PostID    string `json:"post_id"`
	QuoteText string `json:"quote_text"`
}

type RepostResponse struct {
	Post Post `json:"post"`
}

type GetCommentsRequest struct {
	PostID string `json:"post_id" form:"post_id"`
	Offset int    `json:"offset" form:"offset"`
	Limit  int    `json:"limit" form:"limit"`
}

type GetCommentsResponse struct {
	Comments []Comment `json:"comments"`
	Total    int64     `json:"total"`
}
