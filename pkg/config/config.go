package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	App    AppConfig    `envPrefix:"APP_"`
	Kafka  KafkaConfig  `envPrefix:"KAFKA_"`
	Window WindowConfig `envPrefix:"WINDOW_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"trade-datahub"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// KafkaConfig represents the trade feed configuration.
type KafkaConfig struct {
	Brokers       []string      `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic         string        `env:"TOPIC" envDefault:"trades"`
	ConsumerGroup string        `env:"CONSUMER_GROUP" envDefault:"trade-datahub"`
	PollTimeout   time.Duration `env:"POLL_TIMEOUT" envDefault:"10s"`
}

// WindowConfig tunes the windowed aggregation engine.
type WindowConfig struct {
	// GracePeriod is how long past its end boundary a window keeps
	// accepting late trades before it becomes eligible for eviction.
	GracePeriod time.Duration `env:"GRACE_PERIOD" envDefault:"5m"`
	// Retention is how long evicted-eligible windows are kept queryable.
	Retention time.Duration `env:"RETENTION" envDefault:"24h"`
	// ShardCount is the number of lock shards per state store.
	ShardCount int `env:"SHARD_COUNT" envDefault:"16"`
	// StageQueueDepth bounds the channel between the fan-out and each
	// aggregation stage; the producer blocks when a queue is full.
	StageQueueDepth int `env:"STAGE_QUEUE_DEPTH" envDefault:"1024"`
	// RecentTradesSize bounds the ring of raw records kept for GET /trades.
	RecentTradesSize int `env:"RECENT_TRADES_SIZE" envDefault:"256"`
	// EvictionInterval is how often the janitor scans for expired windows.
	EvictionInterval time.Duration `env:"EVICTION_INTERVAL" envDefault:"1m"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads the configuration and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
