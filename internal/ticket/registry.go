// Package ticket is the minimal ticket-ownership ledger: issuance, transfer,
// redemption and freezing. Issuance and third-party transfers are restricted
// to the owner and allow-listed market components.
package ticket

import (
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/errors"
)

var (
	ErrNotAuthorizedIssuer = errors.Authorization("Caller is not authorized to create tickets")
	ErrOnlyOwner           = errors.Authorization("Only the owner can call this function.")
	ErrNotTicketOwner      = errors.Authorization("Caller is not the owner of this ticket")
	ErrTicketNotFound      = errors.Validation("Ticket does not exist")
	ErrAlreadyRedeemed     = errors.State("Ticket has already been redeemed")
	ErrTicketFrozen        = errors.State("Ticket is frozen")
)

type Registry struct {
	owner      domain.Address
	authorized map[domain.Address]bool
	tickets    []*domain.Ticket
}

func NewRegistry(owner domain.Address) *Registry {
	return &Registry{
		owner:      owner,
		authorized: make(map[domain.Address]bool),
	}
}

// Authorize allow-lists a market component as issuer and transfer agent.
func (r *Registry) Authorize(caller, component domain.Address) error {
	if caller != r.owner {
		return ErrOnlyOwner
	}
	r.authorized[component] = true
	return nil
}

func (r *Registry) isAuthorized(addr domain.Address) bool {
	return addr == r.owner || r.authorized[addr]
}

// CreateTicket mints a ticket owned by the issuer. Ids are assigned
// strictly increasing from 0.
func (r *Registry) CreateTicket(
	caller domain.Address,
	concertID uint64,
	concertName, concertVenue string,
	concertDate int64,
	sectionNo, seatNo uint64,
	price int64,
) (uint64, domain.Event, error) {
	if !r.isAuthorized(caller) {
		return 0, nil, ErrNotAuthorizedIssuer
	}

	t := &domain.Ticket{
		ID:           uint64(len(r.tickets)),
		ConcertID:    concertID,
		ConcertName:  concertName,
		ConcertVenue: concertVenue,
		ConcertDate:  concertDate,
		SectionNo:    sectionNo,
		SeatNo:       seatNo,
		Price:        price,
		Owner:        caller,
		State:        domain.TicketStateActive,
	}
	r.tickets = append(r.tickets, t)

	return t.ID, domain.TicketCreated{
		TicketID:  t.ID,
		ConcertID: concertID,
		Owner:     caller,
		Price:     price,
	}, nil
}

func (r *Registry) get(ticketID uint64) (*domain.Ticket, error) {
	if ticketID >= uint64(len(r.tickets)) {
		return nil, ErrTicketNotFound
	}
	return r.tickets[ticketID], nil
}

// Get returns a copy of the ticket entry.
func (r *Registry) Get(ticketID uint64) (domain.Ticket, error) {
	t, err := r.get(ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}
	return *t, nil
}

// Transfer moves ownership. The caller must be the current owner, or an
// allow-listed market transferring on the owner's behalf.
func (r *Registry) Transfer(caller domain.Address, ticketID uint64, to domain.Address, price int64) (domain.Event, error) {
	t, err := r.get(ticketID)
	if err != nil {
		return nil, err
	}
	if caller != t.Owner && !r.isAuthorized(caller) {
		return nil, ErrNotTicketOwner
	}
	if t.IsFrozen() {
		return nil, ErrTicketFrozen
	}

	from := t.Owner
	t.Owner = to
	return domain.TicketTransferred{TicketID: ticketID, From: from, To: to, Price: price}, nil
}

// RedeemTicket marks the ticket consumed. A second redemption attempt fails;
// frozen tickets cannot be redeemed.
func (r *Registry) RedeemTicket(caller domain.Address, ticketID uint64) error {
	t, err := r.get(ticketID)
	if err != nil {
		return err
	}
	if caller != t.Owner && !r.isAuthorized(caller) {
		return ErrNotTicketOwner
	}
	if t.IsRedeemed() {
		return ErrAlreadyRedeemed
	}
	if t.IsFrozen() {
		return ErrTicketFrozen
	}
	t.State = domain.TicketStateRedeemed
	return nil
}

// FreezeTicket is the post-event terminal transition: it blocks further
// transfer, listing and redemption from any prior state.
func (r *Registry) FreezeTicket(caller domain.Address, ticketID uint64) error {
	t, err := r.get(ticketID)
	if err != nil {
		return err
	}
	if !r.isAuthorized(caller) {
		return ErrNotAuthorizedIssuer
	}
	t.State = domain.TicketStateFrozen
	return nil
}

func (r *Registry) GetOwner(ticketID uint64) (domain.Address, error) {
	t, err := r.get(ticketID)
	if err != nil {
		return domain.ZeroAddress, err
	}
	return t.Owner, nil
}

func (r *Registry) GetTicketState(ticketID uint64) (domain.TicketState, error) {
	t, err := r.get(ticketID)
	if err != nil {
		return 0, err
	}
	return t.State, nil
}

// GetTicketID returns the id of the index-th ticket ever created.
func (r *Registry) GetTicketID(index int) (uint64, error) {
	if index < 0 || index >= len(r.tickets) {
		return 0, ErrTicketNotFound
	}
	return r.tickets[index].ID, nil
}

// BalanceOf counts tickets currently owned by addr.
func (r *Registry) BalanceOf(addr domain.Address) int {
	n := 0
	for _, t := range r.tickets {
		if t.Owner == addr {
			n++
		}
	}
	return n
}

func (r *Registry) TotalTickets() int {
	return len(r.tickets)
}
