// Package poll implements the two voting subsystems: the point-funded
// FutureConcertPoll that picks upcoming concerts, and the ticket-gated
// ConcertDetailsPoll for per-concert questions.
package poll

import (
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/loyalty"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/errors"
)

// DefaultVoteCap is the per-user, per-option loyalty point budget.
const DefaultVoteCap uint64 = 100

var (
	ErrOnlyOrganizer         = errors.Authorization("Only the organizer can perform this action")
	ErrOptionNotFound        = errors.Validation("Concert option does not exist.")
	ErrNotRegistered         = errors.State("Must be registered to vote for this concert option")
	ErrVotePointsLimit       = errors.Validation("Vote points limit exceeded")
	ErrWithdrawExceedsCommit = errors.Validation("Withdraw amount exceeds committed vote points")
)

// ConcertOption is a candidate future concert users vote on.
type ConcertOption struct {
	ConcertOptionID uint64 `json:"concert_option_id"`
	Name            string `json:"name"`
	Venue           string `json:"venue"`
	Date            int64  `json:"date"`
	TotalVotes      uint64 `json:"total_votes"`
}

type registrationKey struct {
	voter  domain.Address
	option uint64
}

// FutureConcertPoll spends loyalty points as voting weight. The component
// holds its own address and must be allow-listed on the loyalty ledger
// before any vote can move points.
type FutureConcertPoll struct {
	addr      domain.Address
	organizer domain.Address
	ledger    *loyalty.Ledger
	voteCap   uint64

	options    map[uint64]*ConcertOption
	nextOption uint64

	registered map[registrationKey]bool
	committed  map[registrationKey]uint64
}

func NewFutureConcertPoll(addr, organizer domain.Address, ledger *loyalty.Ledger, voteCap uint64) *FutureConcertPoll {
	if voteCap == 0 {
		voteCap = DefaultVoteCap
	}
	return &FutureConcertPoll{
		addr:       addr,
		organizer:  organizer,
		ledger:     ledger,
		voteCap:    voteCap,
		options:    make(map[uint64]*ConcertOption),
		nextOption: 1,
		registered: make(map[registrationKey]bool),
		committed:  make(map[registrationKey]uint64),
	}
}

// Addr is the component identity used on ledger allow-lists.
func (p *FutureConcertPoll) Addr() domain.Address {
	return p.addr
}

// AddConcertOption registers a candidate concert. Option ids are sequential
// starting at 1.
func (p *FutureConcertPoll) AddConcertOption(caller domain.Address, name, venue string, date int64) (uint64, domain.Event, error) {
	if caller != p.organizer {
		return 0, nil, ErrOnlyOrganizer
	}

	id := p.nextOption
	p.nextOption++
	p.options[id] = &ConcertOption{
		ConcertOptionID: id,
		Name:            name,
		Venue:           venue,
		Date:            date,
	}
	return id, domain.ConcertOptionAdded{ConcertOptionID: id, ConcertName: name}, nil
}

func (p *FutureConcertPoll) RegisterToVote(caller domain.Address, optionID uint64) error {
	if _, ok := p.options[optionID]; !ok {
		return ErrOptionNotFound
	}
	p.registered[registrationKey{caller, optionID}] = true
	return nil
}

func (p *FutureConcertPoll) IsRegistered(voter domain.Address, optionID uint64) bool {
	return p.registered[registrationKey{voter, optionID}]
}

// CheckVote validates a prospective vote of amount points against a balance
// of available points, without mutating anything. The presale market uses it
// to keep redemption-plus-vote all-or-nothing.
func (p *FutureConcertPoll) CheckVote(voter domain.Address, optionID uint64, amount, available uint64) error {
	if _, ok := p.options[optionID]; !ok {
		return ErrOptionNotFound
	}
	if p.committed[registrationKey{voter, optionID}]+amount > p.voteCap {
		return ErrVotePointsLimit
	}
	if amount > available {
		return loyalty.ErrInsufficientBalance
	}
	return nil
}

// CastVote spends amount loyalty points on an option. Registration is
// required first; the cumulative spend per option is capped.
func (p *FutureConcertPoll) CastVote(caller domain.Address, optionID uint64, amount uint64) (domain.Event, error) {
	opt, ok := p.options[optionID]
	if !ok {
		return nil, ErrOptionNotFound
	}
	key := registrationKey{caller, optionID}
	if !p.registered[key] {
		return nil, ErrNotRegistered
	}
	if p.committed[key]+amount > p.voteCap {
		return nil, ErrVotePointsLimit
	}
	if err := p.ledger.SubtractPoints(p.addr, caller, amount); err != nil {
		return nil, err
	}

	p.committed[key] += amount
	opt.TotalVotes += amount
	return domain.VoteCast{Voter: caller, ConcertOptionID: optionID, Amount: amount}, nil
}

// WithdrawVoteRegistration unregisters the caller from an option and refunds
// amount committed points back to their balance.
func (p *FutureConcertPoll) WithdrawVoteRegistration(caller domain.Address, optionID uint64, amount uint64) (domain.Event, error) {
	opt, ok := p.options[optionID]
	if !ok {
		return nil, ErrOptionNotFound
	}
	key := registrationKey{caller, optionID}
	if !p.registered[key] {
		return nil, ErrNotRegistered
	}
	if amount > p.committed[key] {
		return nil, ErrWithdrawExceedsCommit
	}
	if err := p.ledger.AddPoints(p.addr, caller, amount); err != nil {
		return nil, err
	}

	p.committed[key] -= amount
	opt.TotalVotes -= amount
	p.registered[key] = false
	return domain.VoteRegistrationWithdrawn{Voter: caller, ConcertOptionID: optionID, Refund: amount}, nil
}

func (p *FutureConcertPoll) GetTotalVotes(optionID uint64) (uint64, error) {
	opt, ok := p.options[optionID]
	if !ok {
		return 0, ErrOptionNotFound
	}
	return opt.TotalVotes, nil
}

func (p *FutureConcertPoll) GetConcertOption(optionID uint64) (ConcertOption, error) {
	opt, ok := p.options[optionID]
	if !ok {
		return ConcertOption{}, ErrOptionNotFound
	}
	return *opt, nil
}

// CommittedPoints reports how much of the per-option budget a voter has
// already spent.
func (p *FutureConcertPoll) CommittedPoints(voter domain.Address, optionID uint64) uint64 {
	return p.committed[registrationKey{voter, optionID}]
}
