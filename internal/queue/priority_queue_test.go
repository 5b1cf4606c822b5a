package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/loyalty"
)

const (
	owner  = domain.Address("0xorganizer")
	market = domain.Address("component:presale-market")
	buyerA = domain.Address("0xbuyerA")
	buyerB = domain.Address("0xbuyerB")
	buyerC = domain.Address("0xbuyerC")
)

func newQueueFixture(t *testing.T) (*PriorityQueue, *loyalty.Ledger) {
	t.Helper()
	ledger := loyalty.NewLedger(owner)
	q := NewPriorityQueue(owner, ledger)
	require.NoError(t, q.Authorize(owner, market))
	return q, ledger
}

func setPoints(t *testing.T, ledger *loyalty.Ledger, addr domain.Address, n uint64) {
	t.Helper()
	require.NoError(t, ledger.SetPoints(owner, addr, n))
}

func TestDequeueOrderFollowsLoyaltyPriority(t *testing.T) {
	q, ledger := newQueueFixture(t)
	setPoints(t, ledger, buyerA, 100)
	setPoints(t, ledger, buyerB, 200)
	setPoints(t, ledger, buyerC, 150)

	require.NoError(t, q.Enqueue(buyerA, buyerA))
	require.NoError(t, q.Enqueue(buyerB, buyerB))
	require.NoError(t, q.Enqueue(buyerC, buyerC))

	want := []domain.Address{buyerB, buyerC, buyerA}
	for _, expected := range want {
		addr, ev, err := q.Dequeue(market)
		require.NoError(t, err)
		assert.Equal(t, expected, addr)
		assert.Equal(t, "BuyerDequeued", ev.Name())
	}

	_, _, err := q.Dequeue(market)
	assert.ErrorIs(t, err, ErrEmptyQueue)
}

func TestTiesResolveInEnqueueOrder(t *testing.T) {
	q, ledger := newQueueFixture(t)
	setPoints(t, ledger, buyerA, 50)
	setPoints(t, ledger, buyerB, 50)
	setPoints(t, ledger, buyerC, 50)

	require.NoError(t, q.Enqueue(buyerC, buyerC))
	require.NoError(t, q.Enqueue(buyerA, buyerA))
	require.NoError(t, q.Enqueue(buyerB, buyerB))

	for _, expected := range []domain.Address{buyerC, buyerA, buyerB} {
		addr, _, err := q.Dequeue(market)
		require.NoError(t, err)
		assert.Equal(t, expected, addr)
	}
}

func TestEnqueueRejectsDuplicates(t *testing.T) {
	q, _ := newQueueFixture(t)

	require.NoError(t, q.Enqueue(buyerA, buyerA))
	err := q.Enqueue(buyerA, buyerA)
	assert.ErrorIs(t, err, ErrAlreadyInQueue)
	assert.Equal(t, 1, q.Size())
}

func TestEnqueueAuthorization(t *testing.T) {
	q, _ := newQueueFixture(t)

	// A buyer may only enqueue themselves.
	err := q.Enqueue(buyerA, buyerB)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// The authorized market may enqueue on behalf.
	require.NoError(t, q.Enqueue(market, buyerB))
	assert.True(t, q.IsInQueue(buyerB))
}

func TestDequeueRequiresAuthorization(t *testing.T) {
	q, _ := newQueueFixture(t)
	require.NoError(t, q.Enqueue(buyerA, buyerA))

	_, _, err := q.Dequeue(buyerA)
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.True(t, q.IsInQueue(buyerA))
}

func TestPrioritySnapshotIgnoresLaterBalanceChanges(t *testing.T) {
	q, ledger := newQueueFixture(t)
	setPoints(t, ledger, buyerA, 10)
	setPoints(t, ledger, buyerB, 20)

	require.NoError(t, q.Enqueue(buyerA, buyerA))
	require.NoError(t, q.Enqueue(buyerB, buyerB))

	// A's balance jumps, but the snapshot from enqueue time still rules.
	setPoints(t, ledger, buyerA, 500)
	head, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, buyerB, head)
}

func TestUpdatePriorityResyncsSnapshot(t *testing.T) {
	q, ledger := newQueueFixture(t)
	setPoints(t, ledger, buyerA, 10)
	setPoints(t, ledger, buyerB, 20)

	require.NoError(t, q.Enqueue(buyerA, buyerA))
	require.NoError(t, q.Enqueue(buyerB, buyerB))

	setPoints(t, ledger, buyerA, 500)
	require.NoError(t, q.UpdatePriority(buyerA, buyerA))

	head, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, buyerA, head)
}

func TestUpdatePriorityForAbsentAddress(t *testing.T) {
	q, _ := newQueueFixture(t)
	err := q.UpdatePriority(buyerA, buyerA)
	assert.ErrorIs(t, err, ErrNotInQueue)
}

func TestMembersReturnsDequeueOrderWithoutMutating(t *testing.T) {
	q, ledger := newQueueFixture(t)
	setPoints(t, ledger, buyerA, 100)
	setPoints(t, ledger, buyerB, 200)
	setPoints(t, ledger, buyerC, 150)

	require.NoError(t, q.Enqueue(buyerA, buyerA))
	require.NoError(t, q.Enqueue(buyerB, buyerB))
	require.NoError(t, q.Enqueue(buyerC, buyerC))

	members := q.Members()
	require.Len(t, members, 3)
	assert.Equal(t, buyerB, members[0].Addr)
	assert.Equal(t, uint64(200), members[0].Priority)
	assert.Equal(t, buyerC, members[1].Addr)
	assert.Equal(t, buyerA, members[2].Addr)

	// Snapshot must not consume the queue.
	assert.Equal(t, 3, q.Size())
	head, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, buyerB, head)
}
