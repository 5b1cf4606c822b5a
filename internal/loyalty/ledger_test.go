package loyalty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
)

const (
	owner  = domain.Address("0xowner")
	market = domain.Address("component:market")
	alice  = domain.Address("0xalice")
)

func TestAddAndGetPoints(t *testing.T) {
	l := NewLedger(owner)

	require.NoError(t, l.AddPoints(owner, alice, 50))
	assert.Equal(t, uint64(50), l.GetPoints(alice))

	require.NoError(t, l.AddPoints(owner, alice, 25))
	assert.Equal(t, uint64(75), l.GetPoints(alice))
}

func TestUnknownAddressHasZeroBalance(t *testing.T) {
	l := NewLedger(owner)
	assert.Equal(t, uint64(0), l.GetPoints(alice))
}

func TestUnauthorizedCallerCannotMutate(t *testing.T) {
	l := NewLedger(owner)

	err := l.AddPoints(alice, alice, 10)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	err = l.SubtractPoints(alice, alice, 10)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	err = l.SetPoints(alice, alice, 10)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestAuthorizeGrantsComponentAccess(t *testing.T) {
	l := NewLedger(owner)

	err := l.Authorize(alice, market)
	assert.ErrorIs(t, err, ErrOnlyOwner)

	require.NoError(t, l.Authorize(owner, market))
	assert.True(t, l.IsAuthorized(market))

	require.NoError(t, l.AddPoints(market, alice, 30))
	assert.Equal(t, uint64(30), l.GetPoints(alice))
}

func TestSubtractPointsCannotGoNegative(t *testing.T) {
	l := NewLedger(owner)
	require.NoError(t, l.AddPoints(owner, alice, 20))

	err := l.SubtractPoints(owner, alice, 21)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, uint64(20), l.GetPoints(alice))

	require.NoError(t, l.SubtractPoints(owner, alice, 20))
	assert.Equal(t, uint64(0), l.GetPoints(alice))
}

func TestSetPointsOverwrites(t *testing.T) {
	l := NewLedger(owner)
	require.NoError(t, l.AddPoints(owner, alice, 99))
	require.NoError(t, l.SetPoints(owner, alice, 5))
	assert.Equal(t, uint64(5), l.GetPoints(alice))
}
