package app

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/planloop/planner/internal/config"
)

var globalRedisClient *redis.Client

// MustConnectRedis connects the efficiency-report cache. An empty address
// disables caching; analytics then recomputes on every request.
func MustConnectRedis() {
	cfg := config.Global().Redis
	if cfg.Addr == "" {
		globalLogger.Info().Msg("redis address not set, report caching disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping redis")
		panic(err)
	}

	globalRedisClient = client
	globalLogger.Info().
		Str("addr", cfg.Addr).
		Msg("connected to redis")
}

func DisconnectRedis() {
	if globalRedisClient == nil {
		return
	}
	if err := globalRedisClient.Close(); err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to close redis client")
		return
	}
	globalLogger.Info().Msg("disconnected from redis")
}
