// Package loyalty owns the per-address loyalty point balances. It is the
// sole source of truth for priority scores and voting weight; markets and
// polls mutate it only after being allow-listed by the owner.
package loyalty

import (
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/errors"
)

var (
	ErrNotAuthorized       = errors.Authorization("Caller is not authorized to update loyalty points")
	ErrOnlyOwner           = errors.Authorization("Only the owner can call this function.")
	ErrInsufficientBalance = errors.Validation("Insufficient loyalty points balance")
)

// Ledger maps addresses to non-negative point balances. It carries no lock
// of its own: in production every call arrives through the engine's single
// transaction lock.
type Ledger struct {
	owner      domain.Address
	authorized map[domain.Address]bool
	balances   map[domain.Address]uint64
}

func NewLedger(owner domain.Address) *Ledger {
	return &Ledger{
		owner:      owner,
		authorized: make(map[domain.Address]bool),
		balances:   make(map[domain.Address]uint64),
	}
}

func (l *Ledger) Owner() domain.Address {
	return l.owner
}

// Authorize grants caller rights to a market or poll component. Only the
// owner may grant.
func (l *Ledger) Authorize(caller, component domain.Address) error {
	if caller != l.owner {
		return ErrOnlyOwner
	}
	l.authorized[component] = true
	return nil
}

func (l *Ledger) IsAuthorized(addr domain.Address) bool {
	return addr == l.owner || l.authorized[addr]
}

func (l *Ledger) AddPoints(caller, addr domain.Address, n uint64) error {
	if !l.IsAuthorized(caller) {
		return ErrNotAuthorized
	}
	l.balances[addr] += n
	return nil
}

func (l *Ledger) SubtractPoints(caller, addr domain.Address, n uint64) error {
	if !l.IsAuthorized(caller) {
		return ErrNotAuthorized
	}
	if n > l.balances[addr] {
		return ErrInsufficientBalance
	}
	l.balances[addr] -= n
	return nil
}

// SetPoints overwrites a balance outright. Admin use only.
func (l *Ledger) SetPoints(caller, addr domain.Address, n uint64) error {
	if !l.IsAuthorized(caller) {
		return ErrNotAuthorized
	}
	l.balances[addr] = n
	return nil
}

func (l *Ledger) GetPoints(addr domain.Address) uint64 {
	return l.balances[addr]
}
