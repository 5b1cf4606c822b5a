package repository

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	qcore "github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/queue"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/logger"
)

const queueProjectionKey = "presale:queue"

// QueueProjection mirrors the in-memory priority queue into a Redis sorted
// set so frontends can poll their position cheaply. The projection is a
// best-effort read model; the in-memory queue stays authoritative.
type QueueProjection interface {
	Rewrite(ctx context.Context, members []qcore.Member) error
	Position(ctx context.Context, addr domain.Address) (int64, error)
	Length(ctx context.Context) (int64, error)
}

type redisQueueProjection struct {
	cli *redis.Client
	l   logger.Logger
}

func NewRedisQueueProjection(cli *redis.Client, l logger.Logger) QueueProjection {
	return &redisQueueProjection{cli: cli, l: l}
}

// Rewrite replaces the whole projection with the given dequeue-order
// snapshot. The score is the dequeue rank, so ZRANK is the buyer's position.
func (r *redisQueueProjection) Rewrite(ctx context.Context, members []qcore.Member) error {
	pipe := r.cli.TxPipeline()
	pipe.Del(ctx, queueProjectionKey)
	if len(members) > 0 {
		zs := make([]redis.Z, len(members))
		for i, m := range members {
			zs[i] = redis.Z{Score: float64(i), Member: m.Addr.String()}
		}
		pipe.ZAdd(ctx, queueProjectionKey, zs...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.l.Errorf(ctx, "redisQueueProjection.Rewrite: %v", err)
		return err
	}
	return nil
}

// Position returns the 1-based dequeue position of addr, or redis.Nil when
// the address is not queued.
func (r *redisQueueProjection) Position(ctx context.Context, addr domain.Address) (int64, error) {
	rank, err := r.cli.ZRank(ctx, queueProjectionKey, addr.String()).Result()
	if err != nil {
		if err != redis.Nil {
			r.l.Errorf(ctx, "redisQueueProjection.Position: %v", err)
		}
		return 0, err
	}
	return rank + 1, nil
}

func (r *redisQueueProjection) Length(ctx context.Context) (int64, error) {
	n, err := r.cli.ZCard(ctx, queueProjectionKey).Result()
	if err != nil {
		r.l.Errorf(ctx, "redisQueueProjection.Length: %v", err)
		return 0, err
	}
	return n, nil
}
