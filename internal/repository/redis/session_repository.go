// Package repository holds the Redis-backed repositories serving the HTTP
// delivery layer: wallet sessions and the read-only queue projection. The
// deterministic ledger core never touches Redis.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/logger"
)

// WalletSession binds an authenticated wallet address to a bearer token's
// session id.
type WalletSession struct {
	ID         string         `json:"id"`
	Address    domain.Address `json:"address"`
	CreatedAt  time.Time      `json:"created_at"`
	ExpiresAt  time.Time      `json:"expires_at"`
	LastSeenAt time.Time      `json:"last_seen_at"`
}

func (s *WalletSession) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type SessionRepository interface {
	Create(ctx context.Context, ss *WalletSession) error
	Get(ctx context.Context, ssID string) (*WalletSession, error)
	Touch(ctx context.Context, ssID string, at time.Time) error
	Delete(ctx context.Context, ssID string) error
}

type redisSessionRepository struct {
	cli *redis.Client
	l   logger.Logger
}

func NewRedisSessionRepository(cli *redis.Client, l logger.Logger) SessionRepository {
	return &redisSessionRepository{cli: cli, l: l}
}

func (r *redisSessionRepository) key(ssID string) string {
	return fmt.Sprintf("session:%s", ssID)
}

func (r *redisSessionRepository) Create(ctx context.Context, ss *WalletSession) error {
	val, err := json.Marshal(ss)
	if err != nil {
		return err
	}
	ttl := time.Until(ss.ExpiresAt)
	if err := r.cli.Set(ctx, r.key(ss.ID), val, ttl).Err(); err != nil {
		r.l.Errorf(ctx, "redisSessionRepository.Create: %v", err)
		return err
	}
	return nil
}

func (r *redisSessionRepository) Get(ctx context.Context, ssID string) (*WalletSession, error) {
	val, err := r.cli.Get(ctx, r.key(ssID)).Result()
	if err != nil {
		if err != redis.Nil {
			r.l.Errorf(ctx, "redisSessionRepository.Get: %v", err)
		}
		return nil, err
	}

	var ss WalletSession
	if err := json.Unmarshal([]byte(val), &ss); err != nil {
		return nil, err
	}
	return &ss, nil
}

func (r *redisSessionRepository) Touch(ctx context.Context, ssID string, at time.Time) error {
	ss, err := r.Get(ctx, ssID)
	if err != nil {
		return err
	}
	ss.LastSeenAt = at

	val, err := json.Marshal(ss)
	if err != nil {
		return err
	}
	// KeepTTL so touching does not extend the session lifetime.
	return r.cli.Set(ctx, r.key(ssID), val, redis.KeepTTL).Err()
}

func (r *redisSessionRepository) Delete(ctx context.Context, ssID string) error {
	return r.cli.Del(ctx, r.key(ssID)).Err()
}
