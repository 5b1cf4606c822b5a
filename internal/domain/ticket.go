package domain

type TicketState int

const (
	TicketStateActive TicketState = iota
	TicketStateRedeemed
	TicketStateFrozen
)

func (s TicketState) String() string {
	switch s {
	case TicketStateActive:
		return "active"
	case TicketStateRedeemed:
		return "redeemed"
	case TicketStateFrozen:
		return "frozen"
	default:
		return "unknown"
	}
}

// Ticket is the minimal ledger entry for one issued ticket. Price is the
// issuance price in the smallest currency unit (wei).
type Ticket struct {
	ID           uint64      `json:"ticket_id"`
	ConcertID    uint64      `json:"concert_id"`
	ConcertName  string      `json:"concert_name"`
	ConcertVenue string      `json:"concert_venue"`
	ConcertDate  int64       `json:"concert_date"`
	SectionNo    uint64      `json:"section_no"`
	SeatNo       uint64      `json:"seat_no"`
	Price        int64       `json:"price"`
	Owner        Address     `json:"owner"`
	State        TicketState `json:"state"`
}

func (t *Ticket) IsRedeemed() bool {
	return t.State == TicketStateRedeemed
}

func (t *Ticket) IsFrozen() bool {
	return t.State == TicketStateFrozen
}
