// Package entropy provides the randomness source used for lottery winner
// selection. The default source is pseudorandom and NOT cryptographically
// secure; it mirrors the block-derived entropy of the original raffle, which
// is acceptable because no financial-critical decision depends on it.
package entropy

import (
	"math/rand"
	"sync"
	"time"
)

type Source interface {
	// Intn returns a uniform value in [0, n). n must be > 0.
	Intn(n int) int
}

type weakSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// Weak returns the default pseudorandom source, seeded from the wall clock.
func Weak() Source {
	return &weakSource{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *weakSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Fixed is a deterministic source for tests: it replays the given values in
// order and keeps returning the last one once exhausted.
type Fixed struct {
	mu     sync.Mutex
	values []int
	next   int
}

func NewFixed(values ...int) *Fixed {
	if len(values) == 0 {
		values = []int{0}
	}
	return &Fixed{values: values}
}

func (f *Fixed) Intn(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.values[f.next]
	if f.next < len(f.values)-1 {
		f.next++
	}
	if v >= n {
		v = n - 1
	}
	return v
}
