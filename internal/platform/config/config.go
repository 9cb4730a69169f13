package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string   `env:"SERVICE_NAME" envDefault:"newedenfaces"`
	HTTPPort     string   `env:"HTTP_PORT" envDefault:"3000"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`

	PostgresDSN         string        `env:"POSTGRES_DSN"`
	PostgresPingTimeout time.Duration `env:"POSTGRES_PING_TIMEOUT" envDefault:"5s"`

	DirectoryBaseURL string        `env:"EVE_API_BASE_URL" envDefault:"https://api.eveonline.com"`
	DirectoryTimeout time.Duration `env:"EVE_API_TIMEOUT" envDefault:"10s"`

	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"2s"`
	OutboxBatchSize    int           `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`
	LeaderboardLimit   int           `env:"LEADERBOARD_LIMIT" envDefault:"25"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
