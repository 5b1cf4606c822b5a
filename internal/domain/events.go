package domain

// Event is an observable side effect of one committed ledger operation.
// Operations return the events they emitted; nothing is published until the
// whole operation has committed, so a rolled-back call leaves no trace.
type Event interface {
	Name() string
}

type EventCreated struct {
	ConcertID   uint64 `json:"concert_id"`
	ConcertName string `json:"concert_name"`
}

func (EventCreated) Name() string { return "EventCreated" }

type TicketAssignedToEvent struct {
	ConcertID uint64 `json:"concert_id"`
	TicketID  uint64 `json:"ticket_id"`
}

func (TicketAssignedToEvent) Name() string { return "TicketAssignedToEvent" }

type TicketsReleased struct {
	ConcertID uint64 `json:"concert_id"`
}

func (TicketsReleased) Name() string { return "TicketsReleased" }

type TicketCreated struct {
	TicketID  uint64  `json:"ticket_id"`
	ConcertID uint64  `json:"concert_id"`
	Owner     Address `json:"owner"`
	Price     int64   `json:"price"`
}

func (TicketCreated) Name() string { return "TicketCreated" }

type TicketTransferred struct {
	TicketID uint64  `json:"ticket_id"`
	From     Address `json:"from"`
	To       Address `json:"to"`
	Price    int64   `json:"price"`
}

func (TicketTransferred) Name() string { return "TicketTransferred" }

type TicketPurchased struct {
	TicketID  uint64  `json:"ticket_id"`
	ConcertID uint64  `json:"concert_id"`
	Buyer     Address `json:"buyer"`
	Price     int64   `json:"price"`
}

func (TicketPurchased) Name() string { return "TicketPurchased" }

type TicketRedeemed struct {
	TicketID      uint64  `json:"ticket_id"`
	Redeemer      Address `json:"redeemer"`
	PointsAwarded uint64  `json:"points_awarded"`
}

func (TicketRedeemed) Name() string { return "TicketRedeemed" }

type BuyerDequeued struct {
	Buyer    Address `json:"buyer"`
	Priority uint64  `json:"priority"`
}

func (BuyerDequeued) Name() string { return "BuyerDequeued" }

type TicketListed struct {
	TicketID uint64  `json:"ticket_id"`
	Seller   Address `json:"seller"`
	Price    int64   `json:"price"`
}

func (TicketListed) Name() string { return "TicketListed" }

type TicketUnlisted struct {
	TicketID uint64 `json:"ticket_id"`
}

func (TicketUnlisted) Name() string { return "TicketUnlisted" }

type TicketSold struct {
	TicketID       uint64  `json:"ticket_id"`
	Buyer          Address `json:"buyer"`
	Seller         Address `json:"seller"`
	Price          int64   `json:"price"`
	SellerProceeds int64   `json:"seller_proceeds"`
	Commission     int64   `json:"commission"`
}

func (TicketSold) Name() string { return "TicketSold" }

type LotteryStarted struct {
	EndTime int64 `json:"end_time"`
}

func (LotteryStarted) Name() string { return "LotteryStarted" }

type WinnerSelected struct {
	Winner   Address `json:"winner"`
	TicketID uint64  `json:"ticket_id"`
}

func (WinnerSelected) Name() string { return "WinnerSelected" }

type PollCreated struct {
	PollID   uint64 `json:"poll_id"`
	Question string `json:"question"`
}

func (PollCreated) Name() string { return "PollCreated" }

type Voted struct {
	TicketID uint64 `json:"ticket_id"`
	PollID   uint64 `json:"poll_id"`
	OptionID uint64 `json:"option_id"`
}

func (Voted) Name() string { return "Voted" }

type VoteRetracted struct {
	TicketID uint64 `json:"ticket_id"`
	PollID   uint64 `json:"poll_id"`
	OptionID uint64 `json:"option_id"`
}

func (VoteRetracted) Name() string { return "VoteRetracted" }

type PollClosed struct {
	PollID uint64 `json:"poll_id"`
}

func (PollClosed) Name() string { return "PollClosed" }

type ConcertOptionAdded struct {
	ConcertOptionID uint64 `json:"concert_option_id"`
	ConcertName     string `json:"concert_name"`
}

func (ConcertOptionAdded) Name() string { return "ConcertOptionAdded" }

type VoteCast struct {
	Voter           Address `json:"voter"`
	ConcertOptionID uint64  `json:"concert_option_id"`
	Amount          uint64  `json:"amount"`
}

func (VoteCast) Name() string { return "VoteCast" }

type VoteRegistrationWithdrawn struct {
	Voter           Address `json:"voter"`
	ConcertOptionID uint64  `json:"concert_option_id"`
	Refund          uint64  `json:"refund"`
}

func (VoteRegistrationWithdrawn) Name() string { return "VoteRegistrationWithdrawn" }
