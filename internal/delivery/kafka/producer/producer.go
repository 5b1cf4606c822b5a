package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"

	kafka "github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/delivery/kafka"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/logger"
)

// Producer publishes committed domain events. Publishing is best-effort:
// the ledger has already committed, so a broker failure is logged, not
// propagated back to the caller.
type Producer interface {
	PublishDomainEvents(ctx context.Context, events []domain.Event) error
	Close() error
}

type implProducer struct {
	l    logger.Logger
	prod sarama.SyncProducer
}

func NewProducer(prod sarama.SyncProducer, l logger.Logger) Producer {
	return &implProducer{
		l:    l,
		prod: prod,
	}
}

func (p *implProducer) PublishDomainEvents(ctx context.Context, events []domain.Event) error {
	for _, ev := range events {
		msg := kafka.Message{
			Name:      ev.Name(),
			Timestamp: time.Now(),
			Payload:   ev,
		}
		val, err := json.Marshal(msg)
		if err != nil {
			p.l.Errorf(ctx, "delivery.kafka.producer.PublishDomainEvents: %v", err)
			return err
		}

		pm := &sarama.ProducerMessage{
			Topic: kafka.TopicFor(ev),
			Key:   sarama.StringEncoder(ev.Name()),
			Value: sarama.ByteEncoder(val),
			Headers: []sarama.RecordHeader{
				{
					Key:   []byte("timestamp"),
					Value: []byte(msg.Timestamp.Format(time.RFC3339)),
				},
			},
		}

		if _, _, err := p.prod.SendMessage(pm); err != nil {
			return err
		}
	}
	return nil
}

func (p *implProducer) Close() error {
	return p.prod.Close()
}
