// Package engine assembles the ledger components into one transactional
// unit. Every public method is a single atomic transaction: a global lock
// serializes operations, each component validates before it mutates, and the
// events of a committed operation are returned to the caller for journaling
// and publishing. Nothing observable leaks from a failed call.
package engine

import (
	"sync"
	"time"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/lottery"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/loyalty"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/market"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/poll"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/queue"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/ticket"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/clock"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/entropy"
)

// Component identities used on the shared-ledger allow-lists. They play the
// role of contract addresses in the original deployment.
const (
	AddrPresaleMarket domain.Address = "component:presale-market"
	AddrTicketMarket  domain.Address = "component:ticket-market"
	AddrLottery       domain.Address = "component:lottery"
	AddrFuturePoll    domain.Address = "component:future-concert-poll"
)

type Config struct {
	Organizer       domain.Address
	CommissionFee   int64
	MarkupCapBps    int64
	ReleaseWindow   time.Duration
	RedemptionBonus uint64
	VoteCap         uint64
}

type Engine struct {
	mu sync.Mutex

	organizer domain.Address

	ledger      *loyalty.Ledger
	queue       *queue.PriorityQueue
	registry    *ticket.Registry
	presale     *market.PresaleMarket
	ticketMkt   *market.TicketMarket
	lottery     *lottery.Lottery
	detailsPoll *poll.ConcertDetailsPoll
	futurePoll  *poll.FutureConcertPoll
}

// New builds the component graph and grants each market component its
// caller rights on the shared ledgers, acting as the deploying owner.
func New(cfg Config, clk clock.Clock, src entropy.Source) *Engine {
	org := cfg.Organizer

	ledger := loyalty.NewLedger(org)
	registry := ticket.NewRegistry(org)
	pq := queue.NewPriorityQueue(org, ledger)
	futurePoll := poll.NewFutureConcertPoll(AddrFuturePoll, org, ledger, cfg.VoteCap)
	detailsPoll := poll.NewConcertDetailsPoll(org, registry)
	presale := market.NewPresaleMarket(
		AddrPresaleMarket, org, pq, ledger, registry, futurePoll,
		clk, cfg.ReleaseWindow, cfg.RedemptionBonus,
	)
	ticketMkt := market.NewTicketMarket(
		AddrTicketMarket, org, registry, ledger, futurePoll,
		cfg.CommissionFee, cfg.MarkupCapBps, cfg.RedemptionBonus,
	)
	lot := lottery.NewLottery(AddrLottery, org, registry, clk, src)

	// Allow-list grants, made once at deployment by the owner. A component
	// missing from a ledger's list has every mutating call rejected.
	mustAuthorize := func(err error) {
		if err != nil {
			panic("engine: deployment authorization failed: " + err.Error())
		}
	}
	mustAuthorize(ledger.Authorize(org, AddrPresaleMarket))
	mustAuthorize(ledger.Authorize(org, AddrTicketMarket))
	mustAuthorize(ledger.Authorize(org, AddrFuturePoll))
	mustAuthorize(registry.Authorize(org, AddrPresaleMarket))
	mustAuthorize(registry.Authorize(org, AddrTicketMarket))
	mustAuthorize(registry.Authorize(org, AddrLottery))
	mustAuthorize(pq.Authorize(org, AddrPresaleMarket))

	return &Engine{
		organizer:   org,
		ledger:      ledger,
		queue:       pq,
		registry:    registry,
		presale:     presale,
		ticketMkt:   ticketMkt,
		lottery:     lot,
		detailsPoll: detailsPoll,
		futurePoll:  futurePoll,
	}
}

func (e *Engine) Organizer() domain.Address {
	return e.organizer
}

// ---- LoyaltyLedger ----

func (e *Engine) AddLoyaltyPoints(caller, addr domain.Address, n uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.AddPoints(caller, addr, n)
}

func (e *Engine) SubtractLoyaltyPoints(caller, addr domain.Address, n uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.SubtractPoints(caller, addr, n)
}

func (e *Engine) SetLoyaltyPoints(caller, addr domain.Address, n uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.SetPoints(caller, addr, n)
}

func (e *Engine) GetLoyaltyPoints(addr domain.Address) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.GetPoints(addr)
}

// ---- PriorityQueue ----

func (e *Engine) Enqueue(caller, addr domain.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Enqueue(caller, addr)
}

func (e *Engine) Dequeue(caller domain.Address) (domain.Address, []domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	addr, ev, err := e.queue.Dequeue(caller)
	if err != nil {
		return domain.ZeroAddress, nil, err
	}
	return addr, []domain.Event{ev}, nil
}

func (e *Engine) UpdatePriority(caller, addr domain.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.UpdatePriority(caller, addr)
}

func (e *Engine) IsInQueue(addr domain.Address) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.IsInQueue(addr)
}

func (e *Engine) QueueSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Size()
}

func (e *Engine) QueueMembers() []queue.Member {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Members()
}

// ---- TicketRegistry ----

func (e *Engine) CreateTicket(
	caller domain.Address,
	concertID uint64,
	name, venue string,
	date int64,
	sectionNo, seatNo uint64,
	price int64,
) (uint64, []domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ev, err := e.registry.CreateTicket(caller, concertID, name, venue, date, sectionNo, seatNo, price)
	if err != nil {
		return 0, nil, err
	}
	return id, []domain.Event{ev}, nil
}

func (e *Engine) TransferTicket(caller domain.Address, ticketID uint64, to domain.Address, price int64) ([]domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ev, err := e.registry.Transfer(caller, ticketID, to, price)
	if err != nil {
		return nil, err
	}
	return []domain.Event{ev}, nil
}

func (e *Engine) RedeemTicket(caller domain.Address, ticketID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.RedeemTicket(caller, ticketID)
}

func (e *Engine) FreezeTicket(caller domain.Address, ticketID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.FreezeTicket(caller, ticketID)
}

func (e *Engine) GetTicket(ticketID uint64) (domain.Ticket, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.Get(ticketID)
}

func (e *Engine) GetTicketOwner(ticketID uint64) (domain.Address, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.GetOwner(ticketID)
}

func (e *Engine) GetTicketState(ticketID uint64) (domain.TicketState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.GetTicketState(ticketID)
}

func (e *Engine) TicketBalanceOf(addr domain.Address) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.BalanceOf(addr)
}

// ---- PresaleMarket ----

func (e *Engine) CreateEvent(caller domain.Address, concertID uint64, name, venue string, date, price int64) ([]domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ev, err := e.presale.CreateEvent(caller, concertID, name, venue, date, price)
	if err != nil {
		return nil, err
	}
	return []domain.Event{ev}, nil
}

func (e *Engine) CreateTicketAndAddToEvent(
	caller domain.Address,
	concertID uint64,
	name, venue string,
	date int64,
	sectionNo, seatNo uint64,
	price int64,
) (uint64, []domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.presale.CreateTicketAndAddToEvent(caller, concertID, name, venue, date, sectionNo, seatNo, price)
}

func (e *Engine) ReleaseTicket(caller domain.Address, concertID uint64) ([]domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ev, err := e.presale.ReleaseTicket(caller, concertID)
	if err != nil {
		return nil, err
	}
	return []domain.Event{ev}, nil
}

func (e *Engine) BuyTicket(caller domain.Address, concertID, ticketID uint64, payment int64) ([]domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.presale.BuyTicket(caller, concertID, ticketID, payment)
}

func (e *Engine) RedeemInPresaleMarket(caller domain.Address, ticketID uint64, wantsToVote bool, concertOptionID, voteAmount uint64) ([]domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.presale.RedeemInPresaleMarket(caller, ticketID, wantsToVote, concertOptionID, voteAmount)
}

func (e *Engine) GetEventDetails(concertID uint64) (domain.Concert, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.presale.GetEventDetails(concertID)
}

// ---- TicketMarket ----

func (e *Engine) ListTicket(caller domain.Address, ticketID uint64, price int64) ([]domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ev, err := e.ticketMkt.List(caller, ticketID, price)
	if err != nil {
		return nil, err
	}
	return []domain.Event{ev}, nil
}

func (e *Engine) UnlistTicket(caller domain.Address, ticketID uint64) ([]domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ev, err := e.ticketMkt.Unlist(caller, ticketID)
	if err != nil {
		return nil, err
	}
	return []domain.Event{ev}, nil
}

func (e *Engine) BuyListedTicket(caller domain.Address, ticketID uint64, payment int64) ([]domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticketMkt.Buy(caller, ticketID, payment)
}

func (e *Engine) RedeemInTicketMarket(caller domain.Address, ticketID uint64, wantsToVote bool, concertOptionID, voteAmount uint64) ([]domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticketMkt.RedeemInTicketMarket(caller, ticketID, wantsToVote, concertOptionID, voteAmount)
}

func (e *Engine) GetListedTicketPrice(ticketID uint64) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticketMkt.GetTicketPrice(ticketID)
}

// ---- Lottery ----

func (e *Engine) StartLottery(caller domain.Address, duration time.Duration) ([]domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ev, err := e.lottery.StartLottery(caller, duration)
	if err != nil {
		return nil, err
	}
	return []domain.Event{ev}, nil
}

func (e *Engine) AddLotteryParticipant(caller, addr domain.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lottery.AddParticipant(caller, addr)
}

func (e *Engine) CreateAndAddLotteryTicket(
	caller domain.Address,
	concertID uint64,
	name, venue string,
	date int64,
	sectionNo, seatNo uint64,
	price int64,
) (uint64, []domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ev, err := e.lottery.CreateAndAddTicket(caller, concertID, name, venue, date, sectionNo, seatNo, price)
	if err != nil {
		return 0, nil, err
	}
	return id, []domain.Event{ev}, nil
}

func (e *Engine) AddAvailableLotteryTicket(caller domain.Address, ticketID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lottery.AddAvailableTicketID(caller, ticketID)
}

func (e *Engine) EndLottery(caller domain.Address) ([]domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lottery.EndLottery(caller)
}

func (e *Engine) ResetLotteryParticipants(caller domain.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lottery.ResetParticipants(caller)
}

// LotteryStatus is a read-only snapshot of the current round.
type LotteryStatus struct {
	Active       bool             `json:"active"`
	EndTime      int64            `json:"end_time"`
	Participants []domain.Address `json:"participants"`
	TicketPool   []uint64         `json:"ticket_pool"`
}

func (e *Engine) GetLotteryStatus() LotteryStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return LotteryStatus{
		Active:       e.lottery.IsActive(),
		EndTime:      e.lottery.EndTime(),
		Participants: e.lottery.Participants(),
		TicketPool:   e.lottery.AvailableTickets(),
	}
}

// ---- ConcertDetailsPoll ----

func (e *Engine) CreatePoll(caller domain.Address, concertID uint64, question string, options []string) (uint64, []domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ev, err := e.detailsPoll.CreatePoll(caller, concertID, question, options)
	if err != nil {
		return 0, nil, err
	}
	return id, []domain.Event{ev}, nil
}

func (e *Engine) Vote(caller domain.Address, ticketID, pollID, optionID uint64) ([]domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ev, err := e.detailsPoll.Vote(caller, ticketID, pollID, optionID)
	if err != nil {
		return nil, err
	}
	return []domain.Event{ev}, nil
}

func (e *Engine) RetractVote(caller domain.Address, ticketID, pollID uint64) ([]domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ev, err := e.detailsPoll.RetractVote(caller, ticketID, pollID)
	if err != nil {
		return nil, err
	}
	return []domain.Event{ev}, nil
}

func (e *Engine) ClosePoll(caller domain.Address, pollID uint64) ([]domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ev, err := e.detailsPoll.ClosePoll(caller, pollID)
	if err != nil {
		return nil, err
	}
	return []domain.Event{ev}, nil
}

func (e *Engine) GetVotesForOption(pollID, optionID uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.detailsPoll.GetVotesForOption(pollID, optionID)
}

func (e *Engine) GetPoll(pollID uint64) (poll.Poll, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.detailsPoll.GetPoll(pollID)
}

// ---- FutureConcertPoll ----

func (e *Engine) AddConcertOption(caller domain.Address, name, venue string, date int64) (uint64, []domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ev, err := e.futurePoll.AddConcertOption(caller, name, venue, date)
	if err != nil {
		return 0, nil, err
	}
	return id, []domain.Event{ev}, nil
}

func (e *Engine) RegisterToVote(caller domain.Address, concertOptionID uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.futurePoll.RegisterToVote(caller, concertOptionID)
}

func (e *Engine) CastVote(caller domain.Address, concertOptionID, amount uint64) ([]domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ev, err := e.futurePoll.CastVote(caller, concertOptionID, amount)
	if err != nil {
		return nil, err
	}
	return []domain.Event{ev}, nil
}

func (e *Engine) WithdrawVoteRegistration(caller domain.Address, concertOptionID, amount uint64) ([]domain.Event, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ev, err := e.futurePoll.WithdrawVoteRegistration(caller, concertOptionID, amount)
	if err != nil {
		return nil, err
	}
	return []domain.Event{ev}, nil
}

func (e *Engine) GetTotalVotes(concertOptionID uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.futurePoll.GetTotalVotes(concertOptionID)
}

func (e *Engine) GetConcertOption(concertOptionID uint64) (poll.ConcertOption, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.futurePoll.GetConcertOption(concertOptionID)
}

func (e *Engine) IsRegisteredToVote(addr domain.Address, concertOptionID uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.futurePoll.IsRegistered(addr, concertOptionID)
}
