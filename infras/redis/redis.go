package redis

import (
	"context"
	"net"
	"time"

	"etm/config"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 5 * time.Second

// New connects to the primary Redis node and exits when it does not answer a ping.
// It returns nil when caching is disabled, which callers treat as "never cached".
func New(cfg *config.Config) *goRedis.Client {
	if !cfg.Cache.Enable {
		log.Info().Msg("Cache disabled")

		return nil
	}

	primary := cfg.Cache.Redis.Primary
	addr := net.JoinHostPort(primary.Host, primary.Port)

	client := goRedis.NewClient(&goRedis.Options{
		Addr:       addr,
		Password:   primary.Password,
		DB:         primary.DB,
		ClientName: cfg.App.Name,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("Failed to connect to Redis")
	}

	log.Info().Str("addr", addr).Int("db", primary.DB).Msg("Connected to Redis")

	return client
}
