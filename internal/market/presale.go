// Package market implements the two ticket markets: the priority-gated
// presale market and the bounded-markup secondary market. Both orchestrate
// the shared ledgers through their allow-listed component identities, and
// every operation either fully commits or returns before any state changed.
package market

import (
	"time"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/loyalty"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/poll"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/queue"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/ticket"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/clock"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/errors"
)

const (
	// DefaultReleaseWindow is how long before the concert date tickets may
	// be released for presale.
	DefaultReleaseWindow = 7 * 24 * time.Hour
	// DefaultRedemptionBonus is the loyalty points awarded per redemption.
	DefaultRedemptionBonus uint64 = 10
)

var (
	ErrOnlyOrganizer      = errors.Authorization("Only the organizer can perform this action")
	ErrEventExists        = errors.State("Event already exists for this concert id")
	ErrEventNotFound      = errors.Validation("Event does not exist")
	ErrTicketsNotReleased = errors.State("Tickets have not been released for this event")
	ErrTicketsReleased    = errors.State("Tickets have already been released")
	ErrReleaseWindow      = errors.Timing("Tickets can only be released within 1 week of the event")
	ErrNotQueueHead       = errors.Authorization("Buyer is not the highest priority buyer in the queue")
	ErrWrongEventTicket   = errors.Validation("Ticket does not belong to this event")
	ErrIncorrectPayment   = errors.Validation("Incorrect payment amount")
	ErrTicketUnavailable  = errors.State("Ticket is not available for purchase")
	ErrNotTicketOwner     = errors.Authorization("Caller is not the owner of this ticket")
)

// PresaleMarket sells freshly issued tickets to buyers in loyalty-priority
// order: tickets are released inside a time window before the concert, and
// only the head of the priority queue may buy.
type PresaleMarket struct {
	addr      domain.Address
	organizer domain.Address
	clk       clock.Clock
	window    time.Duration
	bonus     uint64

	queue    *queue.PriorityQueue
	ledger   *loyalty.Ledger
	registry *ticket.Registry
	votes    *poll.FutureConcertPoll

	concerts map[uint64]*domain.Concert
}

func NewPresaleMarket(
	addr, organizer domain.Address,
	q *queue.PriorityQueue,
	ledger *loyalty.Ledger,
	registry *ticket.Registry,
	votes *poll.FutureConcertPoll,
	clk clock.Clock,
	window time.Duration,
	bonus uint64,
) *PresaleMarket {
	if window <= 0 {
		window = DefaultReleaseWindow
	}
	if bonus == 0 {
		bonus = DefaultRedemptionBonus
	}
	return &PresaleMarket{
		addr:      addr,
		organizer: organizer,
		clk:       clk,
		window:    window,
		bonus:     bonus,
		queue:     q,
		ledger:    ledger,
		registry:  registry,
		votes:     votes,
		concerts:  make(map[uint64]*domain.Concert),
	}
}

func (m *PresaleMarket) Addr() domain.Address {
	return m.addr
}

func (m *PresaleMarket) Organizer() domain.Address {
	return m.organizer
}

func (m *PresaleMarket) CreateEvent(caller domain.Address, concertID uint64, name, venue string, date, price int64) (domain.Event, error) {
	if caller != m.organizer {
		return nil, ErrOnlyOrganizer
	}
	if _, ok := m.concerts[concertID]; ok {
		return nil, ErrEventExists
	}

	m.concerts[concertID] = &domain.Concert{
		ConcertID: concertID,
		Name:      name,
		Venue:     venue,
		Date:      date,
		Price:     price,
	}
	return domain.EventCreated{ConcertID: concertID, ConcertName: name}, nil
}

// CreateTicketAndAddToEvent issues one ticket through the registry and tags
// it to an existing event.
func (m *PresaleMarket) CreateTicketAndAddToEvent(
	caller domain.Address,
	concertID uint64,
	name, venue string,
	date int64,
	sectionNo, seatNo uint64,
	price int64,
) (uint64, []domain.Event, error) {
	if caller != m.organizer {
		return 0, nil, ErrOnlyOrganizer
	}
	c, ok := m.concerts[concertID]
	if !ok {
		return 0, nil, ErrEventNotFound
	}

	ticketID, created, err := m.registry.CreateTicket(m.addr, concertID, name, venue, date, sectionNo, seatNo, price)
	if err != nil {
		return 0, nil, err
	}
	c.TicketIDs = append(c.TicketIDs, ticketID)

	return ticketID, []domain.Event{
		created,
		domain.TicketAssignedToEvent{ConcertID: concertID, TicketID: ticketID},
	}, nil
}

// ReleaseTicket opens an event's tickets for presale purchase. Allowed only
// inside the release window before the concert date, once.
func (m *PresaleMarket) ReleaseTicket(caller domain.Address, concertID uint64) (domain.Event, error) {
	if caller != m.organizer {
		return nil, ErrOnlyOrganizer
	}
	c, ok := m.concerts[concertID]
	if !ok {
		return nil, ErrEventNotFound
	}
	if c.TicketsReleased {
		return nil, ErrTicketsReleased
	}
	now := m.clk.Now().Unix()
	if c.Date-now > int64(m.window.Seconds()) {
		return nil, ErrReleaseWindow
	}

	c.TicketsReleased = true
	return domain.TicketsReleased{ConcertID: concertID}, nil
}

// BuyTicket sells one released ticket to the caller. Priority is strict
// gating: the caller must be the current head of the queue, and is removed
// from it on success.
func (m *PresaleMarket) BuyTicket(caller domain.Address, concertID, ticketID uint64, payment int64) ([]domain.Event, error) {
	c, ok := m.concerts[concertID]
	if !ok {
		return nil, ErrEventNotFound
	}
	if !c.TicketsReleased {
		return nil, ErrTicketsNotReleased
	}
	t, err := m.registry.Get(ticketID)
	if err != nil {
		return nil, err
	}
	if t.ConcertID != concertID {
		return nil, ErrWrongEventTicket
	}
	if t.Owner != m.addr {
		return nil, ErrTicketUnavailable
	}
	if t.IsRedeemed() {
		return nil, ticket.ErrAlreadyRedeemed
	}
	if t.IsFrozen() {
		return nil, ticket.ErrTicketFrozen
	}
	if payment != t.Price {
		return nil, ErrIncorrectPayment
	}
	head, err := m.queue.Peek()
	if err != nil {
		return nil, ErrNotQueueHead
	}
	if head != caller {
		return nil, ErrNotQueueHead
	}

	// All checks passed; mutations below cannot fail.
	_, dequeued, err := m.queue.PopHighestPriorityBuyer(m.addr)
	if err != nil {
		return nil, err
	}
	transferred, err := m.registry.Transfer(m.addr, ticketID, caller, t.Price)
	if err != nil {
		return nil, err
	}

	return []domain.Event{
		dequeued,
		transferred,
		domain.TicketPurchased{TicketID: ticketID, ConcertID: concertID, Buyer: caller, Price: t.Price},
	}, nil
}

// RedeemInPresaleMarket marks the caller's ticket consumed and awards the
// loyalty bonus. When wantsToVote is set the call atomically registers the
// caller on the concert option and casts voteAmount points; the vote is
// validated up front so a vote that cannot succeed leaves the ticket
// unredeemed.
func (m *PresaleMarket) RedeemInPresaleMarket(
	caller domain.Address,
	ticketID uint64,
	wantsToVote bool,
	concertOptionID uint64,
	voteAmount uint64,
) ([]domain.Event, error) {
	t, err := m.registry.Get(ticketID)
	if err != nil {
		return nil, err
	}
	if t.Owner != caller {
		return nil, ErrNotTicketOwner
	}
	if t.IsRedeemed() {
		return nil, ticket.ErrAlreadyRedeemed
	}
	if t.IsFrozen() {
		return nil, ticket.ErrTicketFrozen
	}
	if wantsToVote {
		// The vote budget includes the bonus about to be awarded.
		available := m.ledger.GetPoints(caller) + m.bonus
		if err := m.votes.CheckVote(caller, concertOptionID, voteAmount, available); err != nil {
			return nil, err
		}
	}

	if err := m.registry.RedeemTicket(m.addr, ticketID); err != nil {
		return nil, err
	}
	if err := m.ledger.AddPoints(m.addr, caller, m.bonus); err != nil {
		return nil, err
	}
	events := []domain.Event{
		domain.TicketRedeemed{TicketID: ticketID, Redeemer: caller, PointsAwarded: m.bonus},
	}

	if wantsToVote {
		if err := m.votes.RegisterToVote(caller, concertOptionID); err != nil {
			return nil, err
		}
		cast, err := m.votes.CastVote(caller, concertOptionID, voteAmount)
		if err != nil {
			return nil, err
		}
		events = append(events, cast)
	}

	return events, nil
}

func (m *PresaleMarket) GetEventDetails(concertID uint64) (domain.Concert, error) {
	c, ok := m.concerts[concertID]
	if !ok {
		return domain.Concert{}, ErrEventNotFound
	}
	out := *c
	out.TicketIDs = append([]uint64(nil), c.TicketIDs...)
	return out, nil
}
