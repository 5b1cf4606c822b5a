// Package bolt persists the append-only domain-event journal. The journal
// is the durable record of every committed operation, in commit order, so
// external consumers can replay the full history of the ledger.
package bolt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
)

var bucketEvents = []byte("domain_events")

// Envelope wraps one domain event with its journal position and commit time.
type Envelope struct {
	Seq     uint64          `json:"seq"`
	Name    string          `json:"name"`
	At      int64           `json:"at"`
	Payload json.RawMessage `json:"payload"`
}

type Journal struct {
	db *bbolt.DB
}

func Open(path string) (*Journal, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal db: %w", err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEvents)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create journal bucket: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Append writes the events of one committed operation in a single bolt
// transaction, preserving their in-operation order.
func (j *Journal) Append(at time.Time, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	return j.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEvents)
		for _, ev := range events {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				return err
			}
			env := Envelope{
				Seq:     seq,
				Name:    ev.Name(),
				At:      at.Unix(),
				Payload: payload,
			}
			val, err := json.Marshal(env)
			if err != nil {
				return err
			}
			var key [8]byte
			binary.BigEndian.PutUint64(key[:], seq)
			if err := b.Put(key[:], val); err != nil {
				return err
			}
		}
		return nil
	})
}

// Replay streams every journaled envelope in commit order.
func (j *Journal) Replay(fn func(Envelope) error) error {
	return j.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketEvents).ForEach(func(_, v []byte) error {
			var env Envelope
			if err := json.Unmarshal(v, &env); err != nil {
				return err
			}
			return fn(env)
		})
	})
}

// Len reports how many events have been journaled.
func (j *Journal) Len() (uint64, error) {
	var n uint64
	err := j.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketEvents).Sequence()
		return nil
	})
	return n, err
}
