package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pulselab/backend/internal/entity"
	"github.com/pulselab/backend/internal/model"
	"github.com/pulselab/backend/internal/repository"
	"github.com/pulselab/backend/pkg/errorx"
	"github.com/pulselab/backend/pkg/xcontext"
	"github.com/pulselab/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slices"
)

const (
	defaultTrendingWindowHours = 24
	maxTrendingWindowHours     = 168
	trendingScanBatch          = 500

	// trendingFetchCap bounds how many tags are pulled from the cache before
	// the final in-process ranking.
	trendingFetchCap = 256
)

type DiscoveryDomain interface {
	GetSuggestedFollows(context.Context, *model.GetSuggestedFollowsRequest) (*model.GetSuggestedFollowsResponse, error)
	GetTrendingHashtags(context.Context, *model.GetTrendingHashtagsRequest) (*model.GetTrendingHashtagsResponse, error)
}

type discoveryDomain struct {
	followEdgeRepo repository.FollowEdgeRepository
	postRepo       repository.PostRepository
	userRepo       repository.UserRepository
	redisClient    xredis.Client
}

func NewDiscoveryDomain(
	followEdgeRepo repository.FollowEdgeRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	redisClient xredis.Client,
) *discoveryDomain {
	return &discoveryDomain{
		followEdgeRepo: followEdgeRepo,
		postRepo:       postRepo,
		userRepo:       userRepo,
		redisClient:    redisClient,
	}
}

func (d *discoveryDomain) GetSuggestedFollows(
	ctx context.Context, req *model.GetSuggestedFollowsRequest,
) (*model.GetSuggestedFollowsResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	_, limit, err := clampPagination(ctx, 0, req.Limit)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("discovery:suggestions:%s", userID)
	if d.redisClient != nil {
		var cached []model.SuggestedUser
		err := d.redisClient.GetObj(ctx, cacheKey, &cached)
		if err == nil {
			if len(cached) > limit {
				cached = cached[:limit]
			}

			return &model.GetSuggestedFollowsResponse{Suggestions: cached}, nil
		}

		if !errors.Is(err, redis.Nil) {
			xcontext.Logger(ctx).Warnf("Cannot get suggestions cache: %v", err)
		}
	}

	suggestions, err := d.computeSuggestions(ctx, userID)
	if err != nil {
		return nil, err
	}

	if d.redisClient != nil {
		ttl := xcontext.Configs(ctx).Discovery.SuggestionCacheTTL
		if err := d.redisClient.SetObj(ctx, cacheKey, suggestions, ttl); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot set suggestions cache: %v", err)
		}
	}

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	return &model.GetSuggestedFollowsResponse{Suggestions: suggestions}, nil
}

// computeSuggestions walks the two-hop neighborhood of userID. Both hops are
// bounded by Discovery.MaxFanout so a single request never loads an unbounded
// slice of the graph.
func (d *discoveryDomain) computeSuggestions(
	ctx context.Context, userID string,
) ([]model.SuggestedUser, error) {
	maxFanout := xcontext.Configs(ctx).Discovery.MaxFanout

	followees, err := d.followEdgeRepo.GetActiveFolloweeIDs(ctx, userID, maxFanout)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get followees: %v", err)
		return nil, errorx.Unknown
	}

	excluded := map[string]any{userID: nil}
	for _, id := range followees {
		excluded[id] = nil
	}

	// candidate -> number of distinct first-hop connectors.
	connectors := map[string]int{}
	for _, followeeID := range followees {
		secondHop, err := d.followEdgeRepo.GetActiveFolloweeIDs(ctx, followeeID, maxFanout)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get second hop followees: %v", err)
			return nil, errorx.Unknown
		}

		for _, candidateID := range secondHop {
			if _, ok := excluded[candidateID]; ok {
				continue
			}

			connectors[candidateID]++
		}
	}

	candidateIDs := make([]string, 0, len(connectors))
	for id := range connectors {
		candidateIDs = append(candidateIDs, id)
	}

	slices.SortFunc(candidateIDs, func(a, b string) bool {
		if connectors[a] != connectors[b] {
			return connectors[a] > connectors[b]
		}

		return a < b
	})

	if len(candidateIDs) > maxFanout {
		candidateIDs = candidateIDs[:maxFanout]
	}

	users, err := d.userRepo.GetByIDs(ctx, candidateIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get candidate users: %v", err)
		return nil, errorx.Unknown
	}

	userMap := map[string]model.ShortUser{}
	for i := range users {
		userMap[users[i].ID] = model.ConvertUser(&users[i])
	}

	suggestions := []model.SuggestedUser{}
	for _, id := range candidateIDs {
		user, ok := userMap[id]
		if !ok {
			continue
		}

		suggestions = append(suggestions, model.SuggestedUser{
			User:              user,
			MutualConnections: connectors[id],
		})
	}

	return suggestions, nil
}

func (d *discoveryDomain) GetTrendingHashtags(
	ctx context.Context, req *model.GetTrendingHashtagsRequest,
) (*model.GetTrendingHashtagsResponse, error) {
	window := req.WindowHours
	if window == 0 {
		window = defaultTrendingWindowHours
	}

	if window < 0 || window > maxTrendingWindowHours {
		return nil, errorx.New(errorx.BadRequest,
			"Invalid window hours, expected 1-%d", maxTrendingWindowHours)
	}

	_, limit, err := clampPagination(ctx, 0, req.Limit)
	if err != nil {
		return nil, err
	}

	// The window is anchored to the current hour so every request of the
	// hour shares one cache entry.
	bucket := time.Now().Truncate(time.Hour)
	since := bucket.Add(-time.Duration(window) * time.Hour)

	engagement, occurrence, err := d.loadTrendingWindow(ctx, window, bucket, since)
	if err != nil {
		return nil, err
	}

	hashtags := rankTrending(engagement, occurrence, limit)
	return &model.GetTrendingHashtagsResponse{Hashtags: hashtags}, nil
}

// trendingCacheKeys derives the sorted-set keys of a cached trending window:
// one for the engagement scores and one for the per-tag post counts.
func trendingCacheKeys(window int, bucket time.Time) (string, string) {
	engKey := fmt.Sprintf("discovery:trending:%dh:%s", window, bucket.Format("2006010215"))
	return engKey, engKey + ":posts"
}

// loadTrendingWindow returns tag aggregates of [since, now), served from the
// redis sorted sets when the window bucket is already cached.
func (d *discoveryDomain) loadTrendingWindow(
	ctx context.Context, window int, bucket, since time.Time,
) (map[string]int64, map[string]int64, error) {
	engKey, cntKey := trendingCacheKeys(window, bucket)

	if d.redisClient != nil {
		cached, err := d.redisClient.Exist(ctx, engKey)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot check trending cache: %v", err)
		} else if cached {
			engagement, errEng := d.zsetToMap(ctx, engKey)
			occurrence, errCnt := d.zsetToMap(ctx, cntKey)
			if errEng == nil && errCnt == nil {
				return engagement, occurrence, nil
			}

			xcontext.Logger(ctx).Warnf("Cannot read trending cache: %v, %v", errEng, errCnt)
		}
	}

	engagement, occurrence, err := d.aggregateHashtags(ctx, since)
	if err != nil {
		return nil, nil, err
	}

	if d.redisClient != nil && len(engagement) > 0 {
		d.fillTrendingCache(ctx, engKey, cntKey, engagement, occurrence)
	}

	return engagement, occurrence, nil
}

func (d *discoveryDomain) aggregateHashtags(
	ctx context.Context, since time.Time,
) (map[string]int64, map[string]int64, error) {
	engagement := map[string]int64{}
	occurrence := map[string]int64{}

	err := d.postRepo.ScanPublicSince(ctx, since, trendingScanBatch,
		func(posts []entity.Post) error {
			for i := range posts {
				score := posts[i].Likes + posts[i].Retweets + posts[i].Comments
				for _, tag := range posts[i].Hashtags {
					engagement[tag] += score
					occurrence[tag]++
				}
			}

			return nil
		})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot scan posts for trending: %v", err)
		return nil, nil, errorx.Unknown
	}

	return engagement, occurrence, nil
}

func (d *discoveryDomain) fillTrendingCache(
	ctx context.Context, engKey, cntKey string, engagement, occurrence map[string]int64,
) {
	for tag, score := range engagement {
		err := d.redisClient.ZAdd(ctx, engKey, redis.Z{Member: tag, Score: float64(score)})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot fill trending cache: %v", err)
			return
		}
	}

	for tag, count := range occurrence {
		err := d.redisClient.ZAdd(ctx, cntKey, redis.Z{Member: tag, Score: float64(count)})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot fill trending cache: %v", err)
			return
		}
	}

	ttl := xcontext.Configs(ctx).Discovery.TrendingCacheTTL
	if err := d.redisClient.Expire(ctx, engKey, ttl); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot expire trending cache: %v", err)
	}

	if err := d.redisClient.Expire(ctx, cntKey, ttl); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot expire trending cache: %v", err)
	}
}

func (d *discoveryDomain) zsetToMap(ctx context.Context, key string) (map[string]int64, error) {
	zs, err := d.redisClient.ZRevRangeWithScores(ctx, key, 0, trendingFetchCap)
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			return nil, fmt.Errorf("invalid member type %T", z.Member)
		}

		result[member] = int64(z.Score)
	}

	return result, nil
}

// rankTrending orders tags by engagement, then by post count, then
// lexicographically so equal windows always produce the same list.
func rankTrending(engagement, occurrence map[string]int64, limit int) []model.TrendingHashtag {
	hashtags := make([]model.TrendingHashtag, 0, len(engagement))
	for tag, score := range engagement {
		hashtags = append(hashtags, model.TrendingHashtag{
			Tag:        tag,
			Posts:      occurrence[tag],
			Engagement: score,
		})
	}

	slices.SortFunc(hashtags, func(a, b model.TrendingHashtag) bool {
		if a.Engagement != b.Engagement {
			return a.Engagement > b.Engagement
		}

		if a.Posts != b.Posts {
			return a.Posts > b.Posts
		}

		return a.Tag < b.Tag
	})

	if len(hashtags) > limit {
		hashtags = hashtags[:limit]
	}

	return hashtags
}
