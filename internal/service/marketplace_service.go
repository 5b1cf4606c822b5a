package service

import (
	"context"
	"time"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/delivery/kafka/producer"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/engine"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/monitoring"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/poll"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/repository/bolt"
	repo "github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/repository/redis"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/clock"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/logger"
)

// MarketplaceService is the application surface over the ledger engine.
// Every mutating call runs as one engine transaction; on commit the emitted
// events are journaled, published and counted.
type MarketplaceService interface {
	// Presale
	CreateEvent(ctx context.Context, caller domain.Address, in CreateEventInput) (OperationOutput, error)
	CreateTicketAndAddToEvent(ctx context.Context, caller domain.Address, in CreateTicketInput) (TicketOutput, error)
	ReleaseTicket(ctx context.Context, caller domain.Address, concertID uint64) (OperationOutput, error)
	BuyTicket(ctx context.Context, caller domain.Address, in BuyTicketInput) (OperationOutput, error)
	RedeemInPresaleMarket(ctx context.Context, caller domain.Address, in RedeemInput) (OperationOutput, error)
	GetEventDetails(ctx context.Context, concertID uint64) (domain.Concert, error)

	// Priority queue
	JoinQueue(ctx context.Context, caller domain.Address) error
	RefreshPriority(ctx context.Context, caller domain.Address) error
	QueueStatus(ctx context.Context, caller domain.Address) (QueueStatusOutput, error)

	// Loyalty (organizer/admin)
	AwardLoyaltyPoints(ctx context.Context, caller, addr domain.Address, n uint64) error
	GetLoyaltyPoints(ctx context.Context, addr domain.Address) uint64

	// Tickets
	TransferTicket(ctx context.Context, caller domain.Address, ticketID uint64, to domain.Address, price int64) (OperationOutput, error)
	FreezeTicket(ctx context.Context, caller domain.Address, ticketID uint64) error
	GetTicket(ctx context.Context, ticketID uint64) (domain.Ticket, error)

	// Secondary market
	ListTicket(ctx context.Context, caller domain.Address, in ListTicketInput) (OperationOutput, error)
	UnlistTicket(ctx context.Context, caller domain.Address, ticketID uint64) (OperationOutput, error)
	BuyListedTicket(ctx context.Context, caller domain.Address, ticketID uint64, payment int64) (OperationOutput, error)
	RedeemInTicketMarket(ctx context.Context, caller domain.Address, in RedeemInput) (OperationOutput, error)
	GetListedTicketPrice(ctx context.Context, ticketID uint64) int64

	// Lottery
	StartLottery(ctx context.Context, caller domain.Address, duration time.Duration) (OperationOutput, error)
	EnterLottery(ctx context.Context, caller domain.Address) error
	CreateAndAddLotteryTicket(ctx context.Context, caller domain.Address, in CreateTicketInput) (TicketOutput, error)
	EndLottery(ctx context.Context, caller domain.Address) (OperationOutput, error)
	ResetLotteryParticipants(ctx context.Context, caller domain.Address) error
	LotteryStatus(ctx context.Context) engine.LotteryStatus

	// Concert details polls
	CreatePoll(ctx context.Context, caller domain.Address, in CreatePollInput) (PollOutput, error)
	Vote(ctx context.Context, caller domain.Address, ticketID, pollID, optionID uint64) (OperationOutput, error)
	RetractVote(ctx context.Context, caller domain.Address, ticketID, pollID uint64) (OperationOutput, error)
	ClosePoll(ctx context.Context, caller domain.Address, pollID uint64) (OperationOutput, error)
	GetPoll(ctx context.Context, pollID uint64) (poll.Poll, error)
	GetVotesForOption(ctx context.Context, pollID, optionID uint64) (uint64, error)

	// Future concert poll
	AddConcertOption(ctx context.Context, caller domain.Address, in ConcertOptionInput) (ConcertOptionOutput, error)
	RegisterToVote(ctx context.Context, caller domain.Address, concertOptionID uint64) error
	CastVote(ctx context.Context, caller domain.Address, concertOptionID, amount uint64) (OperationOutput, error)
	WithdrawVoteRegistration(ctx context.Context, caller domain.Address, concertOptionID, amount uint64) (OperationOutput, error)
	GetTotalVotes(ctx context.Context, concertOptionID uint64) (uint64, error)
	GetConcertOption(ctx context.Context, concertOptionID uint64) (poll.ConcertOption, error)
}

type marketplaceService struct {
	eng        *engine.Engine
	journal    *bolt.Journal
	prod       producer.Producer
	projection repo.QueueProjection
	clk        clock.Clock
	l          logger.Logger
}

func NewMarketplaceService(
	eng *engine.Engine,
	journal *bolt.Journal,
	prod producer.Producer,
	projection repo.QueueProjection,
	clk clock.Clock,
	l logger.Logger,
) MarketplaceService {
	return &marketplaceService{
		eng:        eng,
		journal:    journal,
		prod:       prod,
		projection: projection,
		clk:        clk,
		l:          l,
	}
}

// commit records the outcome of one engine transaction: metrics always,
// journal and publish only when the operation emitted events. The in-memory
// ledger is already committed at this point, so journal or broker failures
// are logged rather than surfaced as operation failures.
func (s *marketplaceService) commit(ctx context.Context, op string, events []domain.Event, err error) {
	monitoring.RecordOperation(op, err)
	if err != nil || len(events) == 0 {
		return
	}
	for _, ev := range events {
		monitoring.RecordDomainEvent(ev.Name())
	}
	if s.journal != nil {
		if jerr := s.journal.Append(s.clk.Now(), events); jerr != nil {
			s.l.Errorf(ctx, "marketplaceService.%s: journal append failed: %v", op, jerr)
		}
	}
	if s.prod != nil {
		if perr := s.prod.PublishDomainEvents(ctx, events); perr != nil {
			s.l.Errorf(ctx, "marketplaceService.%s: event publish failed: %v", op, perr)
		}
	}
}

// refreshQueueProjection mirrors the authoritative queue into Redis after
// any operation that changed it.
func (s *marketplaceService) refreshQueueProjection(ctx context.Context) {
	members := s.eng.QueueMembers()
	monitoring.SetQueueLength(len(members))
	if s.projection == nil {
		return
	}
	if err := s.projection.Rewrite(ctx, members); err != nil {
		s.l.Warnf(ctx, "marketplaceService: queue projection rewrite failed: %v", err)
	}
}

// ---- Presale ----

func (s *marketplaceService) CreateEvent(ctx context.Context, caller domain.Address, in CreateEventInput) (OperationOutput, error) {
	events, err := s.eng.CreateEvent(caller, in.ConcertID, in.Name, in.Venue, in.Date, in.Price)
	s.commit(ctx, "create_event", events, err)
	if err != nil {
		return OperationOutput{}, err
	}
	s.l.Infof(ctx, "Event created: concert_id=%d name=%q", in.ConcertID, in.Name)
	return OperationOutput{Events: events}, nil
}

func (s *marketplaceService) CreateTicketAndAddToEvent(ctx context.Context, caller domain.Address, in CreateTicketInput) (TicketOutput, error) {
	id, events, err := s.eng.CreateTicketAndAddToEvent(caller, in.ConcertID, in.Name, in.Venue, in.Date, in.SectionNo, in.SeatNo, in.Price)
	s.commit(ctx, "create_ticket", events, err)
	if err != nil {
		return TicketOutput{}, err
	}
	return TicketOutput{TicketID: id, Events: events}, nil
}

func (s *marketplaceService) ReleaseTicket(ctx context.Context, caller domain.Address, concertID uint64) (OperationOutput, error) {
	events, err := s.eng.ReleaseTicket(caller, concertID)
	s.commit(ctx, "release_ticket", events, err)
	if err != nil {
		return OperationOutput{}, err
	}
	s.l.Infof(ctx, "Tickets released: concert_id=%d", concertID)
	return OperationOutput{Events: events}, nil
}

func (s *marketplaceService) BuyTicket(ctx context.Context, caller domain.Address, in BuyTicketInput) (OperationOutput, error) {
	events, err := s.eng.BuyTicket(caller, in.ConcertID, in.TicketID, in.Payment)
	s.commit(ctx, "buy_ticket", events, err)
	if err != nil {
		return OperationOutput{}, err
	}
	s.refreshQueueProjection(ctx)
	s.l.Infof(ctx, "Ticket purchased: ticket_id=%d buyer=%s", in.TicketID, caller)
	return OperationOutput{Events: events}, nil
}

func (s *marketplaceService) RedeemInPresaleMarket(ctx context.Context, caller domain.Address, in RedeemInput) (OperationOutput, error) {
	events, err := s.eng.RedeemInPresaleMarket(caller, in.TicketID, in.WantsToVote, in.ConcertOptionID, in.VoteAmount)
	s.commit(ctx, "redeem_presale", events, err)
	if err != nil {
		return OperationOutput{}, err
	}
	return OperationOutput{Events: events}, nil
}

func (s *marketplaceService) GetEventDetails(ctx context.Context, concertID uint64) (domain.Concert, error) {
	return s.eng.GetEventDetails(concertID)
}

// ---- Priority queue ----

func (s *marketplaceService) JoinQueue(ctx context.Context, caller domain.Address) error {
	err := s.eng.Enqueue(caller, caller)
	monitoring.RecordOperation("join_queue", err)
	if err != nil {
		return err
	}
	s.refreshQueueProjection(ctx)
	return nil
}

func (s *marketplaceService) RefreshPriority(ctx context.Context, caller domain.Address) error {
	err := s.eng.UpdatePriority(caller, caller)
	monitoring.RecordOperation("refresh_priority", err)
	if err != nil {
		return err
	}
	s.refreshQueueProjection(ctx)
	return nil
}

func (s *marketplaceService) QueueStatus(ctx context.Context, caller domain.Address) (QueueStatusOutput, error) {
	out := QueueStatusOutput{
		InQueue: s.eng.IsInQueue(caller),
		Length:  int64(s.eng.QueueSize()),
	}
	if out.InQueue && s.projection != nil {
		pos, err := s.projection.Position(ctx, caller)
		if err == nil {
			out.Position = pos
		}
	}
	return out, nil
}

// ---- Loyalty ----

func (s *marketplaceService) AwardLoyaltyPoints(ctx context.Context, caller, addr domain.Address, n uint64) error {
	err := s.eng.AddLoyaltyPoints(caller, addr, n)
	monitoring.RecordOperation("award_points", err)
	return err
}

func (s *marketplaceService) GetLoyaltyPoints(ctx context.Context, addr domain.Address) uint64 {
	return s.eng.GetLoyaltyPoints(addr)
}

// ---- Tickets ----

func (s *marketplaceService) TransferTicket(ctx context.Context, caller domain.Address, ticketID uint64, to domain.Address, price int64) (OperationOutput, error) {
	events, err := s.eng.TransferTicket(caller, ticketID, to, price)
	s.commit(ctx, "transfer_ticket", events, err)
	if err != nil {
		return OperationOutput{}, err
	}
	return OperationOutput{Events: events}, nil
}

func (s *marketplaceService) FreezeTicket(ctx context.Context, caller domain.Address, ticketID uint64) error {
	err := s.eng.FreezeTicket(caller, ticketID)
	monitoring.RecordOperation("freeze_ticket", err)
	return err
}

func (s *marketplaceService) GetTicket(ctx context.Context, ticketID uint64) (domain.Ticket, error) {
	return s.eng.GetTicket(ticketID)
}

// ---- Secondary market ----

func (s *marketplaceService) ListTicket(ctx context.Context, caller domain.Address, in ListTicketInput) (OperationOutput, error) {
	events, err := s.eng.ListTicket(caller, in.TicketID, in.Price)
	s.commit(ctx, "list_ticket", events, err)
	if err != nil {
		return OperationOutput{}, err
	}
	return OperationOutput{Events: events}, nil
}

func (s *marketplaceService) UnlistTicket(ctx context.Context, caller domain.Address, ticketID uint64) (OperationOutput, error) {
	events, err := s.eng.UnlistTicket(caller, ticketID)
	s.commit(ctx, "unlist_ticket", events, err)
	if err != nil {
		return OperationOutput{}, err
	}
	return OperationOutput{Events: events}, nil
}

func (s *marketplaceService) BuyListedTicket(ctx context.Context, caller domain.Address, ticketID uint64, payment int64) (OperationOutput, error) {
	events, err := s.eng.BuyListedTicket(caller, ticketID, payment)
	s.commit(ctx, "buy_listed_ticket", events, err)
	if err != nil {
		return OperationOutput{}, err
	}
	s.l.Infof(ctx, "Ticket resold: ticket_id=%d buyer=%s", ticketID, caller)
	return OperationOutput{Events: events}, nil
}

func (s *marketplaceService) RedeemInTicketMarket(ctx context.Context, caller domain.Address, in RedeemInput) (OperationOutput, error) {
	events, err := s.eng.RedeemInTicketMarket(caller, in.TicketID, in.WantsToVote, in.ConcertOptionID, in.VoteAmount)
	s.commit(ctx, "redeem_market", events, err)
	if err != nil {
		return OperationOutput{}, err
	}
	return OperationOutput{Events: events}, nil
}

func (s *marketplaceService) GetListedTicketPrice(ctx context.Context, ticketID uint64) int64 {
	return s.eng.GetListedTicketPrice(ticketID)
}

// ---- Lottery ----

func (s *marketplaceService) StartLottery(ctx context.Context, caller domain.Address, duration time.Duration) (OperationOutput, error) {
	events, err := s.eng.StartLottery(caller, duration)
	s.commit(ctx, "start_lottery", events, err)
	if err != nil {
		return OperationOutput{}, err
	}
	return OperationOutput{Events: events}, nil
}

func (s *marketplaceService) EnterLottery(ctx context.Context, caller domain.Address) error {
	err := s.eng.AddLotteryParticipant(caller, caller)
	monitoring.RecordOperation("enter_lottery", err)
	return err
}

func (s *marketplaceService) CreateAndAddLotteryTicket(ctx context.Context, caller domain.Address, in CreateTicketInput) (TicketOutput, error) {
	id, events, err := s.eng.CreateAndAddLotteryTicket(caller, in.ConcertID, in.Name, in.Venue, in.Date, in.SectionNo, in.SeatNo, in.Price)
	s.commit(ctx, "create_lottery_ticket", events, err)
	if err != nil {
		return TicketOutput{}, err
	}
	return TicketOutput{TicketID: id, Events: events}, nil
}

func (s *marketplaceService) EndLottery(ctx context.Context, caller domain.Address) (OperationOutput, error) {
	events, err := s.eng.EndLottery(caller)
	s.commit(ctx, "end_lottery", events, err)
	if err != nil {
		return OperationOutput{}, err
	}
	return OperationOutput{Events: events}, nil
}

func (s *marketplaceService) ResetLotteryParticipants(ctx context.Context, caller domain.Address) error {
	err := s.eng.ResetLotteryParticipants(caller)
	monitoring.RecordOperation("reset_lottery", err)
	return err
}

func (s *marketplaceService) LotteryStatus(ctx context.Context) engine.LotteryStatus {
	return s.eng.GetLotteryStatus()
}

// ---- Concert details polls ----

func (s *marketplaceService) CreatePoll(ctx context.Context, caller domain.Address, in CreatePollInput) (PollOutput, error) {
	id, events, err := s.eng.CreatePoll(caller, in.ConcertID, in.Question, in.Options)
	s.commit(ctx, "create_poll", events, err)
	if err != nil {
		return PollOutput{}, err
	}
	return PollOutput{PollID: id, Events: events}, nil
}

func (s *marketplaceService) Vote(ctx context.Context, caller domain.Address, ticketID, pollID, optionID uint64) (OperationOutput, error) {
	events, err := s.eng.Vote(caller, ticketID, pollID, optionID)
	s.commit(ctx, "vote", events, err)
	if err != nil {
		return OperationOutput{}, err
	}
	return OperationOutput{Events: events}, nil
}

func (s *marketplaceService) RetractVote(ctx context.Context, caller domain.Address, ticketID, pollID uint64) (OperationOutput, error) {
	events, err := s.eng.RetractVote(caller, ticketID, pollID)
	s.commit(ctx, "retract_vote", events, err)
	if err != nil {
		return OperationOutput{}, err
	}
	return OperationOutput{Events: events}, nil
}

func (s *marketplaceService) ClosePoll(ctx context.Context, caller domain.Address, pollID uint64) (OperationOutput, error) {
	events, err := s.eng.ClosePoll(caller, pollID)
	s.commit(ctx, "close_poll", events, err)
	if err != nil {
		return OperationOutput{}, err
	}
	return OperationOutput{Events: events}, nil
}

func (s *marketplaceService) GetPoll(ctx context.Context, pollID uint64) (poll.Poll, error) {
	return s.eng.GetPoll(pollID)
}

func (s *marketplaceService) GetVotesForOption(ctx context.Context, pollID, optionID uint64) (uint64, error) {
	return s.eng.GetVotesForOption(pollID, optionID)
}

// ---- Future concert poll ----

func (s *marketplaceService) AddConcertOption(ctx context.Context, caller domain.Address, in ConcertOptionInput) (ConcertOptionOutput, error) {
	id, events, err := s.eng.AddConcertOption(caller, in.Name, in.Venue, in.Date)
	s.commit(ctx, "add_concert_option", events, err)
	if err != nil {
		return ConcertOptionOutput{}, err
	}
	return ConcertOptionOutput{ConcertOptionID: id, Events: events}, nil
}

func (s *marketplaceService) RegisterToVote(ctx context.Context, caller domain.Address, concertOptionID uint64) error {
	err := s.eng.RegisterToVote(caller, concertOptionID)
	monitoring.RecordOperation("register_to_vote", err)
	return err
}

func (s *marketplaceService) CastVote(ctx context.Context, caller domain.Address, concertOptionID, amount uint64) (OperationOutput, error) {
	events, err := s.eng.CastVote(caller, concertOptionID, amount)
	s.commit(ctx, "cast_vote", events, err)
	if err != nil {
		return OperationOutput{}, err
	}
	return OperationOutput{Events: events}, nil
}

func (s *marketplaceService) WithdrawVoteRegistration(ctx context.Context, caller domain.Address, concertOptionID, amount uint64) (OperationOutput, error) {
	events, err := s.eng.WithdrawVoteRegistration(caller, concertOptionID, amount)
	s.commit(ctx, "withdraw_vote_registration", events, err)
	if err != nil {
		return OperationOutput{}, err
	}
	return OperationOutput{Events: events}, nil
}

func (s *marketplaceService) GetTotalVotes(ctx context.Context, concertOptionID uint64) (uint64, error) {
	return s.eng.GetTotalVotes(concertOptionID)
}

func (s *marketplaceService) GetConcertOption(ctx context.Context, concertOptionID uint64) (poll.ConcertOption, error) {
	return s.eng.GetConcertOption(concertOptionID)
}
