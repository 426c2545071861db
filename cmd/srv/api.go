package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pulselab/backend/internal/middleware"
	"github.com/pulselab/backend/pkg/prometheus"
	"github.com/pulselab/backend/pkg/router"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadEndpoint()
	s.loadLogger()
	s.loadDatabase()
	s.loadRedis()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	go func() {
		s.logger.Infof("Starting api server on %s", s.configs.ApiServer.Address())
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.logger.Infof("Shutting down")
	s.viewBatcher.Stop()
	if s.publisher != nil {
		if err := s.publisher.Stop(s.ctx); err != nil {
			s.logger.Errorf("Cannot stop publisher: %v", err)
		}
	}

	return s.server.Shutdown(s.ctx)
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())
	s.router.Before(middleware.WithIdentity())

	s.router.Handle("/metrics", prometheus.NewHandler())

	// Read APIs work for anonymous users too.
	publicRouter := s.router.Branch()
	{
		router.GET(publicRouter, "/getFollowers", s.relationshipDomain.GetFollowers)
		router.GET(publicRouter, "/getFollowing", s.relationshipDomain.GetFollowing)
		router.GET(publicRouter, "/getPost", s.feedDomain.GetPost)
		router.GET(publicRouter, "/getComments", s.engagementDomain.GetComments)
		router.GET(publicRouter, "/getTrendingHashtags", s.discoveryDomain.GetTrendingHashtags)
		router.GET(publicRouter, "/getExploreFeed", s.feedDomain.GetExploreFeed)
		router.GET(publicRouter, "/getUserPosts", s.feedDomain.GetUserPosts)
	}

	authRouter := s.router.Branch()
	authRouter.Before(middleware.MustIdentity())
	{
		// Relationship API
		router.POST(authRouter, "/followUser", s.relationshipDomain.Follow)
		router.POST(authRouter, "/unfollowUser", s.relationshipDomain.Unfollow)
		router.POST(authRouter, "/updateFollowSettings", s.relationshipDomain.UpdateSettings)

		// Engagement API
		router.POST(authRouter, "/createPost", s.engagementDomain.CreatePost)
		router.POST(authRouter, "/likePost", s.engagementDomain.LikePost)
		router.POST(authRouter, "/unlikePost", s.engagementDomain.UnlikePost)
		router.POST(authRouter, "/addComment", s.engagementDomain.AddComment)
		router.POST(authRouter, "/likeComment", s.engagementDomain.LikeComment)
		router.POST(authRouter, "/unlikeComment", s.engagementDomain.UnlikeComment)
		router.POST(authRouter, "/repost", s.engagementDomain.Repost)

		// Discovery and feed API
		router.GET(authRouter, "/getSuggestedFollows", s.discoveryDomain.GetSuggestedFollows)
		router.GET(authRouter, "/getTimeline", s.feedDomain.GetTimeline)
	}
}
