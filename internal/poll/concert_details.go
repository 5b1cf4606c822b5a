package poll

import (
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/ticket"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/errors"
)

var (
	ErrPollNotFound    = errors.Validation("Poll does not exist")
	ErrInvalidOption   = errors.Validation("Invalid poll option")
	ErrPollClosed      = errors.State("Poll is closed")
	ErrWrongConcert    = errors.Validation("Ticket should be of same Concert")
	ErrAlreadyVoted    = errors.State("Ticket has already voted in this poll")
	ErrNoVoteOnRecord  = errors.State("No vote on record for this ticket")
	ErrDuplicatePoll   = errors.State("Poll already exists for this concert and question")
	ErrNotTicketHolder = errors.Authorization("Caller is not the owner of this ticket")
)

// Poll is one open question bound to a concert; votes are gated by ticket
// ownership, one active vote per ticket.
type Poll struct {
	PollID    uint64   `json:"poll_id"`
	ConcertID uint64   `json:"concert_id"`
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Votes     []uint64 `json:"votes"`
	Open      bool     `json:"open"`
}

type voteKey struct {
	ticketID uint64
	pollID   uint64
}

// ConcertDetailsPoll runs ticket-gated polls about concert logistics.
type ConcertDetailsPoll struct {
	organizer domain.Address
	registry  *ticket.Registry

	polls []*Poll
	// (ticketId, pollId) -> chosen option, kept to support retraction.
	votes map[voteKey]uint64
}

func NewConcertDetailsPoll(organizer domain.Address, registry *ticket.Registry) *ConcertDetailsPoll {
	return &ConcertDetailsPoll{
		organizer: organizer,
		registry:  registry,
		votes:     make(map[voteKey]uint64),
	}
}

// CreatePoll opens a poll bound to a concert. Poll ids are sequential from
// 0; re-creating an open poll with the same question for the same concert is
// rejected.
func (c *ConcertDetailsPoll) CreatePoll(caller domain.Address, concertID uint64, question string, options []string) (uint64, domain.Event, error) {
	if caller != c.organizer {
		return 0, nil, ErrOnlyOrganizer
	}
	if len(options) == 0 {
		return 0, nil, ErrInvalidOption
	}
	for _, p := range c.polls {
		if p.Open && p.ConcertID == concertID && p.Question == question {
			return 0, nil, ErrDuplicatePoll
		}
	}

	p := &Poll{
		PollID:    uint64(len(c.polls)),
		ConcertID: concertID,
		Question:  question,
		Options:   append([]string(nil), options...),
		Votes:     make([]uint64, len(options)),
		Open:      true,
	}
	c.polls = append(c.polls, p)
	return p.PollID, domain.PollCreated{PollID: p.PollID, Question: question}, nil
}

func (c *ConcertDetailsPoll) get(pollID uint64) (*Poll, error) {
	if pollID >= uint64(len(c.polls)) {
		return nil, ErrPollNotFound
	}
	return c.polls[pollID], nil
}

// Vote records one vote held by a ticket. The caller must own the ticket and
// the ticket must belong to the poll's concert.
func (c *ConcertDetailsPoll) Vote(caller domain.Address, ticketID, pollID, optionID uint64) (domain.Event, error) {
	p, err := c.get(pollID)
	if err != nil {
		return nil, err
	}
	t, err := c.registry.Get(ticketID)
	if err != nil {
		return nil, err
	}
	if t.Owner != caller {
		return nil, ErrNotTicketHolder
	}
	if t.ConcertID != p.ConcertID {
		return nil, ErrWrongConcert
	}
	if !p.Open {
		return nil, ErrPollClosed
	}
	if optionID >= uint64(len(p.Options)) {
		return nil, ErrInvalidOption
	}
	key := voteKey{ticketID, pollID}
	if _, voted := c.votes[key]; voted {
		return nil, ErrAlreadyVoted
	}

	c.votes[key] = optionID
	p.Votes[optionID]++
	return domain.Voted{TicketID: ticketID, PollID: pollID, OptionID: optionID}, nil
}

// RetractVote removes the vote this ticket holds in the poll, decrementing
// exactly the option it had chosen.
func (c *ConcertDetailsPoll) RetractVote(caller domain.Address, ticketID, pollID uint64) (domain.Event, error) {
	p, err := c.get(pollID)
	if err != nil {
		return nil, err
	}
	t, err := c.registry.Get(ticketID)
	if err != nil {
		return nil, err
	}
	if t.Owner != caller {
		return nil, ErrNotTicketHolder
	}
	if !p.Open {
		return nil, ErrPollClosed
	}
	key := voteKey{ticketID, pollID}
	optionID, voted := c.votes[key]
	if !voted {
		return nil, ErrNoVoteOnRecord
	}

	delete(c.votes, key)
	p.Votes[optionID]--
	return domain.VoteRetracted{TicketID: ticketID, PollID: pollID, OptionID: optionID}, nil
}

func (c *ConcertDetailsPoll) ClosePoll(caller domain.Address, pollID uint64) (domain.Event, error) {
	if caller != c.organizer {
		return nil, ErrOnlyOrganizer
	}
	p, err := c.get(pollID)
	if err != nil {
		return nil, err
	}
	if !p.Open {
		return nil, ErrPollClosed
	}

	p.Open = false
	return domain.PollClosed{PollID: pollID}, nil
}

func (c *ConcertDetailsPoll) GetVotesForOption(pollID, optionID uint64) (uint64, error) {
	p, err := c.get(pollID)
	if err != nil {
		return 0, err
	}
	if optionID >= uint64(len(p.Options)) {
		return 0, ErrInvalidOption
	}
	return p.Votes[optionID], nil
}

func (c *ConcertDetailsPoll) GetPoll(pollID uint64) (Poll, error) {
	p, err := c.get(pollID)
	if err != nil {
		return Poll{}, err
	}
	out := *p
	out.Options = append([]string(nil), p.Options...)
	out.Votes = append([]uint64(nil), p.Votes...)
	return out, nil
}
