// Package errors defines the error taxonomy shared by the on-chain style
// ledger components. Every failure carries a Kind used by the delivery layer
// to pick a status code, and a stable Reason string that callers assert on.
package errors

import "errors"

type Kind string

const (
	// KindAuthorization covers callers lacking a required role: contract
	// owner, organizer, current ticket owner, or an authorized component.
	KindAuthorization Kind = "authorization"
	// KindState covers operations invalid for the current lifecycle state,
	// such as double redemption or voting on a closed poll.
	KindState Kind = "state"
	// KindValidation covers bad amounts, prices outside the allowed band and
	// references to nonexistent ids.
	KindValidation Kind = "validation"
	// KindTiming covers operations attempted outside their allowed window.
	KindTiming Kind = "timing"
)

type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	return e.Reason
}

func Authorization(reason string) *Error {
	return &Error{Kind: KindAuthorization, Reason: reason}
}

func State(reason string) *Error {
	return &Error{Kind: KindState, Reason: reason}
}

func Validation(reason string) *Error {
	return &Error{Kind: KindValidation, Reason: reason}
}

func Timing(reason string) *Error {
	return &Error{Kind: KindTiming, Reason: reason}
}

// KindOf reports the Kind of err, or "" when err is not a taxonomy error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsAuthorization(err error) bool { return KindOf(err) == KindAuthorization }
func IsState(err error) bool         { return KindOf(err) == KindState }
func IsValidation(err error) bool    { return KindOf(err) == KindValidation }
func IsTiming(err error) bool        { return KindOf(err) == KindTiming }
