// Package lottery runs time-boxed raffle rounds: one entry per address, one
// winner drawn from the pool when the round expires, one prize ticket
// transferred. Winner selection uses a pluggable entropy source that is
// pseudorandom, not cryptographically secure.
package lottery

import (
	"time"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/ticket"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/clock"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/entropy"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/errors"
)

var (
	ErrOnlyOwner          = errors.Authorization("Only the owner can call this function.")
	ErrAlreadyActive      = errors.State("Lottery is already active")
	ErrNotActive          = errors.State("Lottery is not active")
	ErrDuplicateEntry     = errors.State("Participant already added")
	ErrNotExpired         = errors.Timing("Lottery time has not expired yet.")
	ErrNoParticipants     = errors.State("No participants in the lottery")
	ErrNoTicketsAvailable = errors.State("No tickets available to award")
)

type Lottery struct {
	addr  domain.Address
	owner domain.Address
	clk   clock.Clock
	src   entropy.Source

	registry *ticket.Registry

	active       bool
	endTime      int64
	participants []domain.Address
	entered      map[domain.Address]bool
	availableIDs []uint64
}

func NewLottery(addr, owner domain.Address, registry *ticket.Registry, clk clock.Clock, src entropy.Source) *Lottery {
	return &Lottery{
		addr:     addr,
		owner:    owner,
		clk:      clk,
		src:      src,
		registry: registry,
		entered:  make(map[domain.Address]bool),
	}
}

func (l *Lottery) Addr() domain.Address {
	return l.addr
}

func (l *Lottery) StartLottery(caller domain.Address, duration time.Duration) (domain.Event, error) {
	if caller != l.owner {
		return nil, ErrOnlyOwner
	}
	if l.active {
		return nil, ErrAlreadyActive
	}

	l.active = true
	l.endTime = l.clk.Now().Add(duration).Unix()
	return domain.LotteryStarted{EndTime: l.endTime}, nil
}

// AddParticipant enters an address into the current round. Addresses enter
// themselves; the owner may also enter on behalf. One entry per round.
func (l *Lottery) AddParticipant(caller, addr domain.Address) error {
	if caller != addr && caller != l.owner {
		return ErrOnlyOwner
	}
	if !l.active {
		return ErrNotActive
	}
	if l.entered[addr] {
		return ErrDuplicateEntry
	}

	l.entered[addr] = true
	l.participants = append(l.participants, addr)
	return nil
}

// CreateAndAddTicket mints a prize ticket through the registry and adds it
// to the award pool.
func (l *Lottery) CreateAndAddTicket(
	caller domain.Address,
	concertID uint64,
	name, venue string,
	date int64,
	sectionNo, seatNo uint64,
	price int64,
) (uint64, domain.Event, error) {
	if caller != l.owner {
		return 0, nil, ErrOnlyOwner
	}

	ticketID, created, err := l.registry.CreateTicket(l.addr, concertID, name, venue, date, sectionNo, seatNo, price)
	if err != nil {
		return 0, nil, err
	}
	l.availableIDs = append(l.availableIDs, ticketID)
	return ticketID, created, nil
}

// AddAvailableTicketID adds an existing ticket to the award pool.
func (l *Lottery) AddAvailableTicketID(caller domain.Address, ticketID uint64) error {
	if caller != l.owner {
		return ErrOnlyOwner
	}
	if _, err := l.registry.Get(ticketID); err != nil {
		return err
	}
	l.availableIDs = append(l.availableIDs, ticketID)
	return nil
}

// EndLottery closes the round after its deadline, draws one winner
// uniformly from the participants and transfers one pooled ticket to them.
func (l *Lottery) EndLottery(caller domain.Address) ([]domain.Event, error) {
	if caller != l.owner {
		return nil, ErrOnlyOwner
	}
	if !l.active {
		return nil, ErrNotActive
	}
	if l.clk.Now().Unix() < l.endTime {
		return nil, ErrNotExpired
	}
	if len(l.participants) == 0 {
		return nil, ErrNoParticipants
	}
	if len(l.availableIDs) == 0 {
		return nil, ErrNoTicketsAvailable
	}

	winner := l.participants[l.src.Intn(len(l.participants))]
	ticketID := l.availableIDs[0]

	transferred, err := l.registry.Transfer(l.addr, ticketID, winner, 0)
	if err != nil {
		return nil, err
	}
	l.availableIDs = l.availableIDs[1:]
	l.active = false

	return []domain.Event{
		transferred,
		domain.WinnerSelected{Winner: winner, TicketID: ticketID},
	}, nil
}

// ResetParticipants clears the entrant set so a new round can start.
func (l *Lottery) ResetParticipants(caller domain.Address) error {
	if caller != l.owner {
		return ErrOnlyOwner
	}
	l.participants = nil
	l.entered = make(map[domain.Address]bool)
	return nil
}

func (l *Lottery) IsActive() bool {
	return l.active
}

func (l *Lottery) EndTime() int64 {
	return l.endTime
}

func (l *Lottery) Participants() []domain.Address {
	return append([]domain.Address(nil), l.participants...)
}

func (l *Lottery) AvailableTickets() []uint64 {
	return append([]uint64(nil), l.availableIDs...)
}
