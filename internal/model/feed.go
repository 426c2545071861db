package model

type GetTimelineRequest struct {
	Kind   string `json:"kind" form:"kind"`
	Offset int    `json:"offset" form:"offset"`
	Limit  int    `json:"limit" form:"limit"`
}

type GetTimelineResponse struct {
	Posts []Post `json:"posts"`
}

type GetExploreFeedRequest struct {
	Sort   string `json:"sort" form:"sort"`
	Offset int    `json:"offset" form:"offset"`
	Limit  int    `json:"limit" form:"limit"`
}

type GetExploreFeedResponse struct {
	Posts []Post `json:"posts"`
}

type GetUserPostsRequest struct {
	UserID string `json:"user_id" form:"user_id"`
	Offset int    `json:"offset" form:"offset"`
	Limit  int    `json:"limit" form:"limit"`
}

type GetUserPostsResponse struct {
	Posts []Post `json:"posts"`
}
