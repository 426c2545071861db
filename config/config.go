package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Redis     RedisConfigs
	Kafka     KafkaConfigs
	Feed      FeedConfigs
	Discovery DiscoveryConfigs
	Log       LogConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string

	DefaultLimit int
	MaxLimit     int
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr        string
	SocialTopic string
}

type FeedConfigs struct {
	// MaxFanout bounds the number of followee ids loaded when composing a
	// timeline. Accounts following more than this get the newest edges only.
	MaxFanout int

	ViewFlushInterval time.Duration
}

type DiscoveryConfigs struct {
	// MaxFanout bounds each hop of the suggested-follow traversal.
	MaxFanout int

	SuggestionCacheTTL time.Duration
	TrendingCacheTTL   time.Duration
}

type LogConfigs struct {
	Level int
}
