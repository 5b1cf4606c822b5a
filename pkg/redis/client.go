package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Nil is re-exported so callers can check for missing keys without importing
// the driver directly.
const Nil = redis.Nil

type Config struct {
	Addr         string
	Password     string
	DB           int
	MaxRetries   int
	PoolSize     int
	MinIdleConns int
}

func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return cli, nil
}

func Disconnect(cli *redis.Client) {
	if cli != nil {
		_ = cli.Close()
	}
}
