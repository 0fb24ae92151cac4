package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"tarim-admin/internal/config"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects the client used by the realtime tree store.
func InitRedis(cfg *config.Config) *redis.Client {
	client, err := NewRedis(context.Background(), cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	log.Println("Redis connection established")
	return client
}

func NewRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
