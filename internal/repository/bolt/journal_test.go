package bolt

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestAppendAndReplayPreservesOrder(t *testing.T) {
	j := openTestJournal(t)
	at := time.Unix(1_700_000_000, 0)

	require.NoError(t, j.Append(at, []domain.Event{
		domain.EventCreated{ConcertID: 1, ConcertName: "Eras Tour"},
		domain.TicketCreated{TicketID: 0, ConcertID: 1, Owner: "0xorganizer", Price: 100},
	}))
	require.NoError(t, j.Append(at.Add(time.Minute), []domain.Event{
		domain.TicketPurchased{TicketID: 0, ConcertID: 1, Buyer: "0xbuyer", Price: 100},
	}))

	n, err := j.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	var got []Envelope
	require.NoError(t, j.Replay(func(env Envelope) error {
		got = append(got, env)
		return nil
	}))

	require.Len(t, got, 3)
	assert.Equal(t, uint64(1), got[0].Seq)
	assert.Equal(t, "EventCreated", got[0].Name)
	assert.Equal(t, at.Unix(), got[0].At)
	assert.Equal(t, "TicketCreated", got[1].Name)
	assert.Equal(t, "TicketPurchased", got[2].Name)
	assert.Equal(t, at.Add(time.Minute).Unix(), got[2].At)

	var purchased domain.TicketPurchased
	require.NoError(t, json.Unmarshal(got[2].Payload, &purchased))
	assert.Equal(t, domain.Address("0xbuyer"), purchased.Buyer)
}

func TestAppendEmptyIsNoop(t *testing.T) {
	j := openTestJournal(t)
	require.NoError(t, j.Append(time.Now(), nil))

	n, err := j.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)
}

func TestJournalSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Append(time.Unix(1_700_000_000, 0), []domain.Event{
		domain.PollCreated{PollID: 0, Question: "Which opener?"},
	}))
	require.NoError(t, j.Close())

	j2, err := Open(path)
	require.NoError(t, err)
	defer j2.Close()

	n, err := j2.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	count := 0
	require.NoError(t, j2.Replay(func(env Envelope) error {
		count++
		assert.Equal(t, "PollCreated", env.Name)
		return nil
	}))
	assert.Equal(t, 1, count)
}
