package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/pulselab/backend/config"
	"github.com/pulselab/backend/internal/domain"
	"github.com/pulselab/backend/internal/domain/viewtrack"
	"github.com/pulselab/backend/internal/repository"
	"github.com/pulselab/backend/pkg/kafka"
	"github.com/pulselab/backend/pkg/logger"
	"github.com/pulselab/backend/pkg/pubsub"
	"github.com/pulselab/backend/pkg/router"
	"github.com/pulselab/backend/pkg/xcontext"
	"github.com/pulselab/backend/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	ctx context.Context
	app *cli.App

	configs *config.Configs
	logger  logger.Logger

	db          *gorm.DB
	redisClient xredis.Client
	publisher   pubsub.Publisher

	userRepo        repository.UserRepository
	followEdgeRepo  repository.FollowEdgeRepository
	postRepo        repository.PostRepository
	postLikeRepo    repository.PostLikeRepository
	postRepostRepo  repository.PostRepostRepository
	postCommentRepo repository.PostCommentRepository
	commentLikeRepo repository.CommentLikeRepository

	relationshipDomain domain.RelationshipDomain
	engagementDomain   domain.EngagementDomain
	discoveryDomain    domain.DiscoveryDomain
	feedDomain         domain.FeedDomain

	viewBatcher *viewtrack.Batcher

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig() {
	s.configs = &config.Configs{
		Env: getEnv("ENV", "local"),
		Database: config.DatabaseConfigs{
			Host:     getEnv("MYSQL_HOST", "localhost"),
			Port:     getEnv("MYSQL_PORT", "3306"),
			User:     getEnv("MYSQL_USER", "pulse"),
			Password: getEnv("MYSQL_PASSWORD", "pulse"),
			Database: getEnv("MYSQL_DATABASE", "pulse"),
		},
		ApiServer: config.ServerConfigs{
			Host:         getEnv("HOST", "localhost"),
			Port:         getEnv("PORT", "8080"),
			DefaultLimit: getEnvAsInt("API_DEFAULT_LIMIT", 10),
			MaxLimit:     getEnvAsInt("API_MAX_LIMIT", 50),
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDRESS", "localhost:6379"),
		},
		Kafka: config.KafkaConfigs{
			Addr:        getEnv("KAFKA_ADDRESS", "localhost:9092"),
			SocialTopic: getEnv("KAFKA_SOCIAL_TOPIC", "social-events"),
		},
		Feed: config.FeedConfigs{
			MaxFanout:         getEnvAsInt("FEED_MAX_FANOUT", 1000),
			ViewFlushInterval: getEnvAsDuration("FEED_VIEW_FLUSH_INTERVAL", 10*time.Second),
		},
		Discovery: config.DiscoveryConfigs{
			MaxFanout:          getEnvAsInt("DISCOVERY_MAX_FANOUT", 200),
			SuggestionCacheTTL: getEnvAsDuration("DISCOVERY_SUGGESTION_CACHE_TTL", 10*time.Minute),
			TrendingCacheTTL:   getEnvAsDuration("DISCOVERY_TRENDING_CACHE_TTL", time.Hour),
		},
		Log: config.LogConfigs{
			Level: getEnvAsInt("LOG_LEVEL", logger.INFO),
		},
	}
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger(s.configs.Log.Level)
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
}

func (s *srv) loadEndpoint() {
	s.ctx = xcontext.WithConfigs(context.Background(), *s.configs)
	if s.logger != nil {
		s.ctx = xcontext.WithLogger(s.ctx, s.logger)
	}
}

func (s *srv) newDatabase() *gorm.DB {
	db, err := gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) loadDatabase() {
	s.db = s.newDatabase()
	s.ctx = xcontext.WithDB(s.ctx, s.db)
}

func (s *srv) loadRedis() {
	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		s.logger.Warnf("Cannot connect to redis, caches are disabled: %v", err)
		return
	}

	s.redisClient = client
}

func (s *srv) loadPublisher() {
	publisher, err := kafka.NewPublisher("pulse-api", []string{s.configs.Kafka.Addr})
	if err != nil {
		s.logger.Warnf("Cannot connect to kafka, events are disabled: %v", err)
		return
	}

	s.publisher = publisher
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.followEdgeRepo = repository.NewFollowEdgeRepository()
	s.postRepo = repository.NewPostRepository()
	s.postLikeRepo = repository.NewPostLikeRepository()
	s.postRepostRepo = repository.NewPostRepostRepository()
	s.postCommentRepo = repository.NewPostCommentRepository()
	s.commentLikeRepo = repository.NewCommentLikeRepository()
}

func (s *srv) loadDomains() {
	s.viewBatcher = viewtrack.NewBatcher(s.ctx, s.postRepo)

	s.relationshipDomain = domain.NewRelationshipDomain(
		s.followEdgeRepo, s.userRepo, s.publisher)
	s.engagementDomain = domain.NewEngagementDomain(
		s.postRepo, s.postLikeRepo, s.postRepostRepo,
		s.postCommentRepo, s.commentLikeRepo, s.userRepo,
		s.publisher, s.redisClient)
	s.discoveryDomain = domain.NewDiscoveryDomain(
		s.followEdgeRepo, s.postRepo, s.userRepo, s.redisClient)
	s.feedDomain = domain.NewFeedDomain(
		s.postRepo, s.postLikeRepo, s.postRepostRepo,
		s.followEdgeRepo, s.userRepo, s.viewBatcher)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}

	return n
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}

	return d
}
