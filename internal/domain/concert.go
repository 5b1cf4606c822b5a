package domain

// Concert is one presale event. Date is a unix timestamp; tickets may only
// be released inside the configured window before it.
type Concert struct {
	ConcertID       uint64   `json:"concert_id"`
	Name            string   `json:"name"`
	Venue           string   `json:"venue"`
	Date            int64    `json:"date"`
	Price           int64    `json:"price"`
	TicketsReleased bool     `json:"tickets_released"`
	TicketIDs       []uint64 `json:"ticket_ids"`
}
