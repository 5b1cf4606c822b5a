package poll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/loyalty"
)

const (
	organizer = domain.Address("0xorganizer")
	pollAddr  = domain.Address("component:future-concert-poll")
	voter     = domain.Address("0xvoter")
	other     = domain.Address("0xother")
)

func newFuturePollFixture(t *testing.T) (*FutureConcertPoll, *loyalty.Ledger) {
	t.Helper()
	ledger := loyalty.NewLedger(organizer)
	p := NewFutureConcertPoll(pollAddr, organizer, ledger, 0)
	require.NoError(t, ledger.Authorize(organizer, pollAddr))
	return p, ledger
}

func addOption(t *testing.T, p *FutureConcertPoll) uint64 {
	t.Helper()
	id, _, err := p.AddConcertOption(organizer, "Comeback Tour", "Indoor Stadium", 1775000000)
	require.NoError(t, err)
	return id
}

func TestAddConcertOptionIDsStartAtOne(t *testing.T) {
	p, _ := newFuturePollFixture(t)

	id1 := addOption(t, p)
	id2 := addOption(t, p)
	assert.Equal(t, uint64(1), id1)
	assert.Equal(t, uint64(2), id2)

	opt, err := p.GetConcertOption(id1)
	require.NoError(t, err)
	assert.Equal(t, "Comeback Tour", opt.Name)
	assert.Equal(t, uint64(0), opt.TotalVotes)

	_, _, err = p.AddConcertOption(voter, "Nope", "Nowhere", 0)
	assert.ErrorIs(t, err, ErrOnlyOrganizer)
}

func TestRegisterToVoteUnknownOption(t *testing.T) {
	p, _ := newFuturePollFixture(t)
	err := p.RegisterToVote(voter, 5)
	assert.ErrorIs(t, err, ErrOptionNotFound)
	assert.EqualError(t, err, "Concert option does not exist.")
}

func TestCastVoteMovesPoints(t *testing.T) {
	p, ledger := newFuturePollFixture(t)
	id := addOption(t, p)
	require.NoError(t, ledger.SetPoints(organizer, voter, 80))
	require.NoError(t, p.RegisterToVote(voter, id))

	ev, err := p.CastVote(voter, id, 50)
	require.NoError(t, err)
	cast := ev.(domain.VoteCast)
	assert.Equal(t, uint64(50), cast.Amount)

	assert.Equal(t, uint64(30), ledger.GetPoints(voter))
	total, err := p.GetTotalVotes(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), total)
	assert.Equal(t, uint64(50), p.CommittedPoints(voter, id))
}

func TestCastVoteRequiresRegistration(t *testing.T) {
	p, ledger := newFuturePollFixture(t)
	id := addOption(t, p)
	require.NoError(t, ledger.SetPoints(organizer, voter, 80))

	_, err := p.CastVote(voter, id, 10)
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestCastVoteEnforcesPerOptionCap(t *testing.T) {
	p, ledger := newFuturePollFixture(t)
	id := addOption(t, p)
	require.NoError(t, ledger.SetPoints(organizer, voter, 500))
	require.NoError(t, p.RegisterToVote(voter, id))

	_, err := p.CastVote(voter, id, 60)
	require.NoError(t, err)

	// 60 + 50 would exceed the 100-point budget for this option.
	_, err = p.CastVote(voter, id, 50)
	assert.ErrorIs(t, err, ErrVotePointsLimit)
	assert.EqualError(t, err, "Vote points limit exceeded")

	_, err = p.CastVote(voter, id, 40)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), ledger.GetPoints(voter))

	// The cap is per option: a second option has its own budget.
	id2 := addOption(t, p)
	require.NoError(t, p.RegisterToVote(voter, id2))
	_, err = p.CastVote(voter, id2, 100)
	require.NoError(t, err)
}

func TestCastVoteInsufficientBalance(t *testing.T) {
	p, ledger := newFuturePollFixture(t)
	id := addOption(t, p)
	require.NoError(t, ledger.SetPoints(organizer, voter, 20))
	require.NoError(t, p.RegisterToVote(voter, id))

	_, err := p.CastVote(voter, id, 30)
	assert.ErrorIs(t, err, loyalty.ErrInsufficientBalance)

	total, err := p.GetTotalVotes(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), total)
	assert.Equal(t, uint64(20), ledger.GetPoints(voter))
}

func TestWithdrawVoteRegistrationRefunds(t *testing.T) {
	p, ledger := newFuturePollFixture(t)
	id := addOption(t, p)
	require.NoError(t, ledger.SetPoints(organizer, voter, 50))
	require.NoError(t, p.RegisterToVote(voter, id))
	_, err := p.CastVote(voter, id, 50)
	require.NoError(t, err)

	ev, err := p.WithdrawVoteRegistration(voter, id, 50)
	require.NoError(t, err)
	withdrawn := ev.(domain.VoteRegistrationWithdrawn)
	assert.Equal(t, uint64(50), withdrawn.Refund)

	assert.Equal(t, uint64(50), ledger.GetPoints(voter))
	total, err := p.GetTotalVotes(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), total)
	assert.False(t, p.IsRegistered(voter, id))
}

func TestWithdrawCannotExceedCommitted(t *testing.T) {
	p, ledger := newFuturePollFixture(t)
	id := addOption(t, p)
	require.NoError(t, ledger.SetPoints(organizer, voter, 50))
	require.NoError(t, p.RegisterToVote(voter, id))
	_, err := p.CastVote(voter, id, 30)
	require.NoError(t, err)

	_, err = p.WithdrawVoteRegistration(voter, id, 40)
	assert.ErrorIs(t, err, ErrWithdrawExceedsCommit)

	_, err = p.WithdrawVoteRegistration(other, id, 0)
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestCheckVoteDoesNotMutate(t *testing.T) {
	p, ledger := newFuturePollFixture(t)
	id := addOption(t, p)

	assert.ErrorIs(t, p.CheckVote(voter, 9, 10, 100), ErrOptionNotFound)
	assert.ErrorIs(t, p.CheckVote(voter, id, 110, 200), ErrVotePointsLimit)
	assert.ErrorIs(t, p.CheckVote(voter, id, 10, 5), loyalty.ErrInsufficientBalance)
	assert.NoError(t, p.CheckVote(voter, id, 10, 10))

	total, err := p.GetTotalVotes(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), total)
	assert.Equal(t, uint64(0), ledger.GetPoints(voter))
	assert.False(t, p.IsRegistered(voter, id))
}
