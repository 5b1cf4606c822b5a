package kafka

import (
	"time"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
)

// Message is the wire envelope for one domain event.
type Message struct {
	Name      string       `json:"name"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   domain.Event `json:"payload"`
}

// TopicFor routes an event to its topic by family.
func TopicFor(ev domain.Event) string {
	switch ev.(type) {
	case domain.LotteryStarted, domain.WinnerSelected:
		return TopicLotteryEvents
	case domain.PollCreated, domain.Voted, domain.VoteRetracted, domain.PollClosed,
		domain.ConcertOptionAdded, domain.VoteCast, domain.VoteRegistrationWithdrawn:
		return TopicPollEvents
	default:
		return TopicMarketEvents
	}
}
