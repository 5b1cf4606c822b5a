package repository

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	qcore "github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/queue"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/logger"
)

func setupQueueProjection() (QueueProjection, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return NewRedisQueueProjection(db, logger.InitializeTestZapLogger()), mock
}

func TestQueueProjection_Rewrite(t *testing.T) {
	proj, mock := setupQueueProjection()
	defer mock.ClearExpect()

	members := []qcore.Member{
		{Addr: "0xbuyer2", Priority: 200},
		{Addr: "0xbuyer3", Priority: 150},
		{Addr: "0xbuyer1", Priority: 100},
	}

	mock.ExpectTxPipeline()
	mock.ExpectDel("presale:queue").SetVal(1)
	mock.ExpectZAdd("presale:queue",
		redis.Z{Score: 0, Member: "0xbuyer2"},
		redis.Z{Score: 1, Member: "0xbuyer3"},
		redis.Z{Score: 2, Member: "0xbuyer1"},
	).SetVal(3)
	mock.ExpectTxPipelineExec()

	err := proj.Rewrite(context.Background(), members)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueProjection_RewriteEmpty(t *testing.T) {
	proj, mock := setupQueueProjection()
	defer mock.ClearExpect()

	mock.ExpectTxPipeline()
	mock.ExpectDel("presale:queue").SetVal(1)
	mock.ExpectTxPipelineExec()

	err := proj.Rewrite(context.Background(), nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueProjection_Position(t *testing.T) {
	proj, mock := setupQueueProjection()
	defer mock.ClearExpect()

	mock.ExpectZRank("presale:queue", "0xbuyer3").SetVal(1)

	pos, err := proj.Position(context.Background(), "0xbuyer3")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), pos)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueProjection_PositionMissing(t *testing.T) {
	proj, mock := setupQueueProjection()
	defer mock.ClearExpect()

	mock.ExpectZRank("presale:queue", "0xunknown").RedisNil()

	_, err := proj.Position(context.Background(), "0xunknown")
	assert.ErrorIs(t, err, redis.Nil)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueProjection_Length(t *testing.T) {
	proj, mock := setupQueueProjection()
	defer mock.ClearExpect()

	mock.ExpectZCard("presale:queue").SetVal(3)

	n, err := proj.Length(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
