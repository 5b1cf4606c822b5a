package domain

// Address identifies a participant on the ledger: a wallet, the organizer,
// or one of the market components themselves. Components carry their own
// address so shared ledgers can allow-list them as callers.
type Address string

const ZeroAddress Address = ""

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) String() string {
	return string(a)
}
