package model

type SuggestedUser struct {
	User              ShortUser `json:"user"`
	MutualConnections int       `json:"mutual_connections"`
}

type GetSuggestedFollowsRequest struct {
	Limit int `json:"limit" form:"limit"`
}

type GetSuggestedFollowsResponse struct {
	Suggestions []SuggestedUser `json:"suggestions"`
}

type TrendingHashtag struct {
	Tag        string `json:"tag"`
	Posts      int64  `json:"posts"`
	Engagement int64  `json:"engagement"`
}

type GetTrendingHashtagsRequest struct {
	WindowHours int `json:"window_hours" form:"window_hours"`
	Limit       int `json:"limit" form:"limit"`
}

type GetTrendingHashtagsResponse struct {
	Hashtags []TrendingHashtag `json:"hashtags"`
}
