package service

import "github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"

type CreateEventInput struct {
	ConcertID uint64 `json:"concert_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Venue     string `json:"venue" validate:"required"`
	Date      int64  `json:"date" validate:"required,gt=0"`
	Price     int64  `json:"price" validate:"gte=0"`
}

type CreateTicketInput struct {
	ConcertID uint64 `json:"concert_id"`
	Name      string `json:"name" validate:"required"`
	Venue     string `json:"venue" validate:"required"`
	Date      int64  `json:"date" validate:"required,gt=0"`
	SectionNo uint64 `json:"section_no"`
	SeatNo    uint64 `json:"seat_no"`
	Price     int64  `json:"price" validate:"gte=0"`
}

type BuyTicketInput struct {
	ConcertID uint64 `json:"concert_id"`
	TicketID  uint64 `json:"ticket_id"`
	Payment   int64  `json:"payment" validate:"gte=0"`
}

type RedeemInput struct {
	TicketID        uint64 `json:"ticket_id"`
	WantsToVote     bool   `json:"wants_to_vote"`
	ConcertOptionID uint64 `json:"concert_option_id"`
	VoteAmount      uint64 `json:"vote_amount"`
}

type ListTicketInput struct {
	TicketID uint64 `json:"ticket_id"`
	Price    int64  `json:"price" validate:"gt=0"`
}

type CreatePollInput struct {
	ConcertID uint64   `json:"concert_id"`
	Question  string   `json:"question" validate:"required"`
	Options   []string `json:"options" validate:"required,min=1"`
}

type ConcertOptionInput struct {
	Name  string `json:"name" validate:"required"`
	Venue string `json:"venue" validate:"required"`
	Date  int64  `json:"date" validate:"required,gt=0"`
}

// OperationOutput reports one committed operation: what it produced plus
// the domain events it emitted.
type OperationOutput struct {
	Events []domain.Event `json:"events"`
}

type TicketOutput struct {
	TicketID uint64         `json:"ticket_id"`
	Events   []domain.Event `json:"events"`
}

type PollOutput struct {
	PollID uint64         `json:"poll_id"`
	Events []domain.Event `json:"events"`
}

type ConcertOptionOutput struct {
	ConcertOptionID uint64         `json:"concert_option_id"`
	Events          []domain.Event `json:"events"`
}

type QueueStatusOutput struct {
	InQueue  bool  `json:"in_queue"`
	Position int64 `json:"position,omitempty"`
	Length   int64 `json:"length"`
}
