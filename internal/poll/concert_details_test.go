package poll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/ticket"
)

const holder = domain.Address("0xholder")

func newDetailsPollFixture(t *testing.T) (*ConcertDetailsPoll, *ticket.Registry) {
	t.Helper()
	registry := ticket.NewRegistry(organizer)
	return NewConcertDetailsPoll(organizer, registry), registry
}

func mintForConcert(t *testing.T, registry *ticket.Registry, concertID uint64, owner domain.Address) uint64 {
	t.Helper()
	id, _, err := registry.CreateTicket(organizer, concertID, "Eras Tour", "National Stadium", 1767139200, 2, 15, 100)
	require.NoError(t, err)
	_, err = registry.Transfer(organizer, id, owner, 0)
	require.NoError(t, err)
	return id
}

var setlistOptions = []string{"Opening with Lover", "Opening with Cruel Summer"}

func TestCreatePoll(t *testing.T) {
	p, _ := newDetailsPollFixture(t)

	id, ev, err := p.CreatePoll(organizer, 1, "Which opener?", setlistOptions)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)
	assert.Equal(t, "PollCreated", ev.Name())

	id2, _, err := p.CreatePoll(organizer, 1, "Which encore?", setlistOptions)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id2)

	// Same concert, same open question.
	_, _, err = p.CreatePoll(organizer, 1, "Which opener?", setlistOptions)
	assert.ErrorIs(t, err, ErrDuplicatePoll)

	_, _, err = p.CreatePoll(holder, 2, "Which opener?", setlistOptions)
	assert.ErrorIs(t, err, ErrOnlyOrganizer)

	_, _, err = p.CreatePoll(organizer, 2, "No options", nil)
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestCreatePollAllowedAfterClose(t *testing.T) {
	p, _ := newDetailsPollFixture(t)
	id, _, err := p.CreatePoll(organizer, 1, "Which opener?", setlistOptions)
	require.NoError(t, err)
	_, err = p.ClosePoll(organizer, id)
	require.NoError(t, err)

	_, _, err = p.CreatePoll(organizer, 1, "Which opener?", setlistOptions)
	require.NoError(t, err)
}

func TestVote(t *testing.T) {
	p, registry := newDetailsPollFixture(t)
	pollID, _, err := p.CreatePoll(organizer, 1, "Which opener?", setlistOptions)
	require.NoError(t, err)
	ticketID := mintForConcert(t, registry, 1, holder)

	ev, err := p.Vote(holder, ticketID, pollID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Voted", ev.Name())

	votes, err := p.GetVotesForOption(pollID, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), votes)

	// One active vote per ticket.
	_, err = p.Vote(holder, ticketID, pollID, 0)
	assert.ErrorIs(t, err, ErrAlreadyVoted)
}

func TestVoteGuards(t *testing.T) {
	p, registry := newDetailsPollFixture(t)
	pollID, _, err := p.CreatePoll(organizer, 1, "Which opener?", setlistOptions)
	require.NoError(t, err)
	ticketID := mintForConcert(t, registry, 1, holder)
	wrongConcertTicket := mintForConcert(t, registry, 2, holder)

	_, err = p.Vote(other, ticketID, pollID, 0)
	assert.ErrorIs(t, err, ErrNotTicketHolder)

	_, err = p.Vote(holder, wrongConcertTicket, pollID, 0)
	assert.ErrorIs(t, err, ErrWrongConcert)
	assert.EqualError(t, err, "Ticket should be of same Concert")

	_, err = p.Vote(holder, ticketID, pollID, 5)
	assert.ErrorIs(t, err, ErrInvalidOption)

	_, err = p.Vote(holder, ticketID, 9, 0)
	assert.ErrorIs(t, err, ErrPollNotFound)

	_, err = p.ClosePoll(organizer, pollID)
	require.NoError(t, err)
	_, err = p.Vote(holder, ticketID, pollID, 0)
	assert.ErrorIs(t, err, ErrPollClosed)
}

func TestRetractVote(t *testing.T) {
	p, registry := newDetailsPollFixture(t)
	pollID, _, err := p.CreatePoll(organizer, 1, "Which opener?", setlistOptions)
	require.NoError(t, err)
	ticketID := mintForConcert(t, registry, 1, holder)

	_, err = p.Vote(holder, ticketID, pollID, 1)
	require.NoError(t, err)

	ev, err := p.RetractVote(holder, ticketID, pollID)
	require.NoError(t, err)
	retracted := ev.(domain.VoteRetracted)
	assert.Equal(t, uint64(1), retracted.OptionID)

	votes, err := p.GetVotesForOption(pollID, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), votes)

	_, err = p.RetractVote(holder, ticketID, pollID)
	assert.ErrorIs(t, err, ErrNoVoteOnRecord)

	// Retraction frees the ticket to vote again.
	_, err = p.Vote(holder, ticketID, pollID, 0)
	require.NoError(t, err)
}

func TestClosePoll(t *testing.T) {
	p, _ := newDetailsPollFixture(t)
	pollID, _, err := p.CreatePoll(organizer, 1, "Which opener?", setlistOptions)
	require.NoError(t, err)

	_, err = p.ClosePoll(holder, pollID)
	assert.ErrorIs(t, err, ErrOnlyOrganizer)

	ev, err := p.ClosePoll(organizer, pollID)
	require.NoError(t, err)
	assert.Equal(t, "PollClosed", ev.Name())

	_, err = p.ClosePoll(organizer, pollID)
	assert.ErrorIs(t, err, ErrPollClosed)
}

func TestGetPollReturnsCopy(t *testing.T) {
	p, _ := newDetailsPollFixture(t)
	pollID, _, err := p.CreatePoll(organizer, 1, "Which opener?", setlistOptions)
	require.NoError(t, err)

	cp, err := p.GetPoll(pollID)
	require.NoError(t, err)
	cp.Votes[0] = 99
	cp.Options[0] = "tampered"

	fresh, err := p.GetPoll(pollID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), fresh.Votes[0])
	assert.Equal(t, setlistOptions[0], fresh.Options[0])
}
