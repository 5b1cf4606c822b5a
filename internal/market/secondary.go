package market

import (
	"github.com/shopspring/decimal"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/loyalty"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/poll"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/ticket"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/errors"
)

// DefaultMarkupCapBps caps resale prices at 20% above issuance price.
const DefaultMarkupCapBps int64 = 2000

var (
	ErrNotListed        = errors.State("Ticket must be listed for sale")
	ErrListingTooLow    = errors.Validation("Listing price must cover the ticket price and commission fee")
	ErrListingTooHigh   = errors.Validation("Listing price cannot exceed 20% above the original ticket price")
	ErrListFrozenTicket = errors.State("Ticket is frozen")
)

// TicketMarket is the secondary resale market: owners list tickets inside a
// bounded markup band, buyers pay the exact listed price, and the market
// keeps a fixed commission out of each sale.
type TicketMarket struct {
	addr          domain.Address
	owner         domain.Address
	commissionFee int64
	markupCapBps  int64

	registry *ticket.Registry
	ledger   *loyalty.Ledger
	votes    *poll.FutureConcertPoll
	bonus    uint64

	// ticketId -> asking price; absent means not listed.
	listings map[uint64]int64
}

func NewTicketMarket(
	addr, owner domain.Address,
	registry *ticket.Registry,
	ledger *loyalty.Ledger,
	votes *poll.FutureConcertPoll,
	commissionFee int64,
	markupCapBps int64,
	bonus uint64,
) *TicketMarket {
	if markupCapBps <= 0 {
		markupCapBps = DefaultMarkupCapBps
	}
	if bonus == 0 {
		bonus = DefaultRedemptionBonus
	}
	return &TicketMarket{
		addr:          addr,
		owner:         owner,
		commissionFee: commissionFee,
		markupCapBps:  markupCapBps,
		registry:      registry,
		ledger:        ledger,
		votes:         votes,
		bonus:         bonus,
		listings:      make(map[uint64]int64),
	}
}

func (m *TicketMarket) Addr() domain.Address {
	return m.addr
}

// maxListingPrice is basePrice * (1 + markupCap), rounded down to the
// smallest currency unit.
func (m *TicketMarket) maxListingPrice(basePrice int64) int64 {
	capped := decimal.NewFromInt(basePrice).
		Mul(decimal.NewFromInt(10000 + m.markupCapBps)).
		Div(decimal.NewFromInt(10000)).
		Floor()
	return capped.IntPart()
}

// List puts the caller's ticket up for resale. The price must cover the
// issuance price plus commission and stay inside the markup cap.
func (m *TicketMarket) List(caller domain.Address, ticketID uint64, price int64) (domain.Event, error) {
	t, err := m.registry.Get(ticketID)
	if err != nil {
		return nil, err
	}
	if t.Owner != caller {
		return nil, ErrNotTicketOwner
	}
	if t.IsFrozen() {
		return nil, ErrListFrozenTicket
	}
	if price < t.Price+m.commissionFee {
		return nil, ErrListingTooLow
	}
	if price > m.maxListingPrice(t.Price) {
		return nil, ErrListingTooHigh
	}

	m.listings[ticketID] = price
	return domain.TicketListed{TicketID: ticketID, Seller: caller, Price: price}, nil
}

func (m *TicketMarket) Unlist(caller domain.Address, ticketID uint64) (domain.Event, error) {
	t, err := m.registry.Get(ticketID)
	if err != nil {
		return nil, err
	}
	if t.Owner != caller {
		return nil, ErrNotTicketOwner
	}
	if _, listed := m.listings[ticketID]; !listed {
		return nil, ErrNotListed
	}

	delete(m.listings, ticketID)
	return domain.TicketUnlisted{TicketID: ticketID}, nil
}

// Buy transfers a listed ticket to the caller for the exact listed price.
// The listing is cleared atomically with the transfer; the seller receives
// the price minus commission and the market owner keeps the commission.
func (m *TicketMarket) Buy(caller domain.Address, ticketID uint64, payment int64) ([]domain.Event, error) {
	price, listed := m.listings[ticketID]
	if !listed {
		return nil, ErrNotListed
	}
	if payment != price {
		return nil, ErrIncorrectPayment
	}
	seller, err := m.registry.GetOwner(ticketID)
	if err != nil {
		return nil, err
	}

	transferred, err := m.registry.Transfer(m.addr, ticketID, caller, price)
	if err != nil {
		return nil, err
	}
	delete(m.listings, ticketID)

	return []domain.Event{
		transferred,
		domain.TicketSold{
			TicketID:       ticketID,
			Buyer:          caller,
			Seller:         seller,
			Price:          price,
			SellerProceeds: price - m.commissionFee,
			Commission:     m.commissionFee,
		},
	}, nil
}

// RedeemInTicketMarket mirrors the presale redemption contract: consume the
// ticket, award the bonus, optionally register-and-vote atomically.
func (m *TicketMarket) RedeemInTicketMarket(
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

// GetTicketPrice returns the listed price, or 0 when the ticket is not
// listed.
func (m *TicketMarket) GetTicketPrice(ticketID uint64) int64 {
	return m.listings[ticketID]
}

func (m *TicketMarket) CommissionFee() int64 {
	return m.commissionFee
}
