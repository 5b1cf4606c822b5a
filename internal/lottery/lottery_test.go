package lottery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/ticket"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/clock"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/entropy"
)

const (
	owner       = domain.Address("0xorganizer")
	lotteryAddr = domain.Address("component:lottery")
	alice       = domain.Address("0xalice")
	bob         = domain.Address("0xbob")
	carol       = domain.Address("0xcarol")
)

func newLotteryFixture(t *testing.T, src entropy.Source) (*Lottery, *ticket.Registry, *clock.Mock) {
	t.Helper()
	clk := clock.NewMock(time.Unix(1_700_000_000, 0))
	registry := ticket.NewRegistry(owner)
	require.NoError(t, registry.Authorize(owner, lotteryAddr))
	l := NewLottery(lotteryAddr, owner, registry, clk, src)
	return l, registry, clk
}

func TestStartLottery(t *testing.T) {
	l, _, clk := newLotteryFixture(t, entropy.NewFixed(0))

	ev, err := l.StartLottery(owner, time.Hour)
	require.NoError(t, err)
	started := ev.(domain.LotteryStarted)
	assert.Equal(t, clk.Now().Add(time.Hour).Unix(), started.EndTime)
	assert.True(t, l.IsActive())

	_, err = l.StartLottery(owner, time.Hour)
	assert.ErrorIs(t, err, ErrAlreadyActive)

	_, err = l.StartLottery(alice, time.Hour)
	assert.ErrorIs(t, err, ErrOnlyOwner)
}

func TestAddParticipant(t *testing.T) {
	l, _, _ := newLotteryFixture(t, entropy.NewFixed(0))
	_, err := l.StartLottery(owner, time.Hour)
	require.NoError(t, err)

	require.NoError(t, l.AddParticipant(alice, alice))

	err = l.AddParticipant(alice, alice)
	assert.ErrorIs(t, err, ErrDuplicateEntry)
	assert.EqualError(t, err, "Participant already added")

	// The owner may enter someone else; other callers may not.
	require.NoError(t, l.AddParticipant(owner, bob))
	err = l.AddParticipant(alice, carol)
	assert.ErrorIs(t, err, ErrOnlyOwner)

	assert.Equal(t, []domain.Address{alice, bob}, l.Participants())
}

func TestAddParticipantRequiresActiveRound(t *testing.T) {
	l, _, _ := newLotteryFixture(t, entropy.NewFixed(0))
	err := l.AddParticipant(alice, alice)
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestEndLotteryBeforeDeadline(t *testing.T) {
	l, _, _ := newLotteryFixture(t, entropy.NewFixed(0))
	_, err := l.StartLottery(owner, time.Hour)
	require.NoError(t, err)
	require.NoError(t, l.AddParticipant(alice, alice))
	_, _, err = l.CreateAndAddTicket(owner, 1, "Eras Tour", "National Stadium", 1767139200, 2, 15, 100)
	require.NoError(t, err)

	_, err = l.EndLottery(owner)
	assert.ErrorIs(t, err, ErrNotExpired)
	assert.EqualError(t, err, "Lottery time has not expired yet.")
	assert.True(t, l.IsActive())
}

func TestEndLotteryPicksWinnerAndTransfersTicket(t *testing.T) {
	// Fixed draw index 1 selects the second entrant.
	l, registry, clk := newLotteryFixture(t, entropy.NewFixed(1))
	_, err := l.StartLottery(owner, time.Hour)
	require.NoError(t, err)
	require.NoError(t, l.AddParticipant(alice, alice))
	require.NoError(t, l.AddParticipant(bob, bob))
	require.NoError(t, l.AddParticipant(carol, carol))
	ticketID, _, err := l.CreateAndAddTicket(owner, 1, "Eras Tour", "National Stadium", 1767139200, 2, 15, 100)
	require.NoError(t, err)

	clk.Advance(time.Hour)

	events, err := l.EndLottery(owner)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "TicketTransferred", events[0].Name())
	winner := events[1].(domain.WinnerSelected)
	assert.Equal(t, bob, winner.Winner)
	assert.Equal(t, ticketID, winner.TicketID)

	ownerAddr, err := registry.GetOwner(ticketID)
	require.NoError(t, err)
	assert.Equal(t, bob, ownerAddr)

	assert.False(t, l.IsActive())
	assert.Empty(t, l.AvailableTickets())
}

func TestEndLotteryRequiresParticipantsAndTickets(t *testing.T) {
	l, _, clk := newLotteryFixture(t, entropy.NewFixed(0))
	_, err := l.StartLottery(owner, time.Hour)
	require.NoError(t, err)
	clk.Advance(2 * time.Hour)

	_, err = l.EndLottery(owner)
	assert.ErrorIs(t, err, ErrNoParticipants)

	require.NoError(t, l.AddParticipant(alice, alice))

	_, err = l.EndLottery(owner)
	assert.ErrorIs(t, err, ErrNoTicketsAvailable)
}

func TestResetParticipants(t *testing.T) {
	l, _, clk := newLotteryFixture(t, entropy.NewFixed(0))
	_, err := l.StartLottery(owner, time.Hour)
	require.NoError(t, err)
	require.NoError(t, l.AddParticipant(alice, alice))
	_, _, err = l.CreateAndAddTicket(owner, 1, "Eras Tour", "National Stadium", 1767139200, 2, 15, 100)
	require.NoError(t, err)
	clk.Advance(time.Hour)
	_, err = l.EndLottery(owner)
	require.NoError(t, err)

	require.NoError(t, l.ResetParticipants(owner))
	assert.Empty(t, l.Participants())

	// A fresh round accepts the same address again.
	_, err = l.StartLottery(owner, time.Hour)
	require.NoError(t, err)
	require.NoError(t, l.AddParticipant(alice, alice))
}

func TestAddAvailableTicketID(t *testing.T) {
	l, registry, _ := newLotteryFixture(t, entropy.NewFixed(0))

	id, _, err := registry.CreateTicket(owner, 1, "Eras Tour", "National Stadium", 1767139200, 2, 15, 100)
	require.NoError(t, err)

	require.NoError(t, l.AddAvailableTicketID(owner, id))
	assert.Equal(t, []uint64{id}, l.AvailableTickets())

	err = l.AddAvailableTicketID(owner, 99)
	assert.ErrorIs(t, err, ticket.ErrTicketNotFound)

	err = l.AddAvailableTicketID(alice, id)
	assert.ErrorIs(t, err, ErrOnlyOwner)
}
