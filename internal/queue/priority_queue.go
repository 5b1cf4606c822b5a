// Package queue implements the presale priority queue: a max-heap of buyer
// addresses keyed by loyalty point balance, stable on ties in enqueue order.
package queue

import (
	"container/heap"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/loyalty"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/errors"
)

var (
	ErrNotAuthorized  = errors.Authorization("Caller is not authorized to modify the queue")
	ErrOnlyOwner      = errors.Authorization("Only the owner can call this function.")
	ErrAlreadyInQueue = errors.State("Address is already in the queue")
	ErrEmptyQueue     = errors.State("Queue is empty")
	ErrNotInQueue     = errors.Validation("Address is not in the queue")
)

type entry struct {
	addr     domain.Address
	priority uint64
	seq      uint64
	index    int
}

// entryHeap orders by priority descending, then enqueue sequence ascending,
// which gives a strict total order with no ambiguity.
type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// PriorityQueue snapshots each buyer's loyalty balance at enqueue time.
// The snapshot is re-synced only through UpdatePriority; balance changes do
// not reorder the queue on their own.
type PriorityQueue struct {
	owner      domain.Address
	authorized map[domain.Address]bool
	ledger     *loyalty.Ledger
	entries    entryHeap
	byAddr     map[domain.Address]*entry
	nextSeq    uint64
}

func NewPriorityQueue(owner domain.Address, ledger *loyalty.Ledger) *PriorityQueue {
	return &PriorityQueue{
		owner:      owner,
		authorized: make(map[domain.Address]bool),
		ledger:     ledger,
		byAddr:     make(map[domain.Address]*entry),
	}
}

func (q *PriorityQueue) Authorize(caller, component domain.Address) error {
	if caller != q.owner {
		return ErrOnlyOwner
	}
	q.authorized[component] = true
	return nil
}

func (q *PriorityQueue) isAuthorized(addr domain.Address) bool {
	return addr == q.owner || q.authorized[addr]
}

func (q *PriorityQueue) Enqueue(caller, addr domain.Address) error {
	if !q.isAuthorized(caller) && caller != addr {
		return ErrNotAuthorized
	}
	if _, ok := q.byAddr[addr]; ok {
		return ErrAlreadyInQueue
	}

	e := &entry{
		addr:     addr,
		priority: q.ledger.GetPoints(addr),
		seq:      q.nextSeq,
	}
	q.nextSeq++
	q.byAddr[addr] = e
	heap.Push(&q.entries, e)
	return nil
}

// Dequeue removes and returns the highest-priority address, emitting a
// BuyerDequeued event consumed by the presale market.
func (q *PriorityQueue) Dequeue(caller domain.Address) (domain.Address, domain.Event, error) {
	if !q.isAuthorized(caller) {
		return domain.ZeroAddress, nil, ErrNotAuthorized
	}
	if q.entries.Len() == 0 {
		return domain.ZeroAddress, nil, ErrEmptyQueue
	}

	e := heap.Pop(&q.entries).(*entry)
	delete(q.byAddr, e.addr)
	return e.addr, domain.BuyerDequeued{Buyer: e.addr, Priority: e.priority}, nil
}

// PopHighestPriorityBuyer is the market-facing alias for Dequeue.
func (q *PriorityQueue) PopHighestPriorityBuyer(caller domain.Address) (domain.Address, domain.Event, error) {
	return q.Dequeue(caller)
}

// Peek returns the current head without removing it.
func (q *PriorityQueue) Peek() (domain.Address, error) {
	if q.entries.Len() == 0 {
		return domain.ZeroAddress, ErrEmptyQueue
	}
	return q.entries[0].addr, nil
}

// UpdatePriority re-snapshots addr's loyalty balance and re-heapifies. The
// original enqueue sequence is kept, so ties still resolve FIFO.
func (q *PriorityQueue) UpdatePriority(caller, addr domain.Address) error {
	if !q.isAuthorized(caller) && caller != addr {
		return ErrNotAuthorized
	}
	e, ok := q.byAddr[addr]
	if !ok {
		return ErrNotInQueue
	}
	e.priority = q.ledger.GetPoints(addr)
	heap.Fix(&q.entries, e.index)
	return nil
}

func (q *PriorityQueue) IsInQueue(addr domain.Address) bool {
	_, ok := q.byAddr[addr]
	return ok
}

func (q *PriorityQueue) Size() int {
	return q.entries.Len()
}

// Member is one queue entry in a Members snapshot.
type Member struct {
	Addr     domain.Address
	Priority uint64
}

// Members returns the queue contents in dequeue order without mutating the
// queue. Used for read-only projections; O(n log n).
func (q *PriorityQueue) Members() []Member {
	cp := make(entryHeap, len(q.entries))
	for i, e := range q.entries {
		c := *e
		cp[i] = &c
	}
	out := make([]Member, 0, len(cp))
	for cp.Len() > 0 {
		e := heap.Pop(&cp).(*entry)
		out = append(out, Member{Addr: e.addr, Priority: e.priority})
	}
	return out
}
