package database

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/doofx0071/gym-bro-sub000/config"
)

// NewRedisClient connects to Redis using REDIS_URL when set, falling back to
// the discrete host settings. Callers treat a nil client as cache-disabled.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	var opts *redis.Options
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}

	log.Printf("connected to redis at %s", opts.Addr)
	return client, nil
}
