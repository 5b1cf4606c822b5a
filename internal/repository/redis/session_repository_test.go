package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/logger"
)

func setupSessionRepository() (SessionRepository, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return NewRedisSessionRepository(db, logger.InitializeTestZapLogger()), mock
}

func testSession() *WalletSession {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &WalletSession{
		ID:         "sess-1",
		Address:    "0xbuyer1",
		CreatedAt:  created,
		ExpiresAt:  created.Add(2 * time.Hour),
		LastSeenAt: created,
	}
}

func TestSessionRepository_Create(t *testing.T) {
	repo, mock := setupSessionRepository()
	defer mock.ClearExpect()

	ss := testSession()
	val, err := json.Marshal(ss)
	require.NoError(t, err)

	// The TTL is derived from the wall clock, so only match key and value.
	mock.CustomMatch(func(expected, actual []interface{}) error {
		return nil
	}).ExpectSet("session:sess-1", val, 0).SetVal("OK")

	err = repo.Create(context.Background(), ss)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Get(t *testing.T) {
	repo, mock := setupSessionRepository()
	defer mock.ClearExpect()

	ss := testSession()
	val, err := json.Marshal(ss)
	require.NoError(t, err)
	mock.ExpectGet("session:sess-1").SetVal(string(val))

	got, err := repo.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, ss.ID, got.ID)
	assert.Equal(t, ss.Address, got.Address)
	assert.True(t, ss.ExpiresAt.Equal(got.ExpiresAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_GetMissing(t *testing.T) {
	repo, mock := setupSessionRepository()
	defer mock.ClearExpect()

	mock.ExpectGet("session:missing").RedisNil()

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, redis.Nil)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Touch(t *testing.T) {
	repo, mock := setupSessionRepository()
	defer mock.ClearExpect()

	ss := testSession()
	val, err := json.Marshal(ss)
	require.NoError(t, err)

	at := ss.CreatedAt.Add(30 * time.Minute)
	touched := *ss
	touched.LastSeenAt = at
	touchedVal, err := json.Marshal(&touched)
	require.NoError(t, err)

	mock.ExpectGet("session:sess-1").SetVal(string(val))
	mock.ExpectSet("session:sess-1", touchedVal, redis.KeepTTL).SetVal("OK")

	err = repo.Touch(context.Background(), "sess-1", at)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Delete(t *testing.T) {
	repo, mock := setupSessionRepository()
	defer mock.ClearExpect()

	mock.ExpectDel("session:sess-1").SetVal(1)

	err := repo.Delete(context.Background(), "sess-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWalletSessionIsExpired(t *testing.T) {
	ss := testSession()
	assert.False(t, ss.IsExpired(ss.ExpiresAt.Add(-time.Second)))
	assert.True(t, ss.IsExpired(ss.ExpiresAt.Add(time.Second)))
}
