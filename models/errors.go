package models

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies an error for the drivers. Every error returned by the
// ledger, the gate and the engine maps onto exactly one kind.
type Kind string

const (
	KindValidation             Kind = "validation"
	KindUnauthorized           Kind = "unauthorized"
	KindPasswordChangeRequired Kind = "password_change_required"
	KindNotYourTurn            Kind = "not_your_turn"
	KindNotFound               Kind = "not_found"
	KindInsufficientFunds      Kind = "insufficient_funds"
	KindDuplicateID            Kind = "duplicate_id"
	KindCapacityExceeded       Kind = "capacity_exceeded"
	KindPoolExhausted          Kind = "pool_exhausted"
	KindTimeout                Kind = "timeout"
	KindInternal               Kind = "internal"
)

var (
	// ErrValidation is the parent of every caller-argument failure.
	ErrValidation         = errors.New("validation failure")
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrInvalidAccountType = fmt.Errorf("%w: account type must be S (savings) or C (current)", ErrValidation)

	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrPasswordChangeRequired = errors.New("password must be changed before continuing")
	ErrNotYourTurn            = errors.New("another session is at the front of the queue")
	ErrNoSession              = errors.New("no active session")

	ErrNotFound          = errors.New("customer not found")
	ErrInsufficientFunds = errors.New("insufficient funds")

	ErrDuplicateID      = errors.New("customer ID already exists")
	ErrCapacityExceeded = errors.New("maximum customer limit reached")
	ErrPoolExhausted    = errors.New("no more default credentials available")
)

// KindOf reports the kind of err, or "" for a nil error.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrInvalidCredentials):
		return KindUnauthorized
	case errors.Is(err, ErrPasswordChangeRequired):
		return KindPasswordChangeRequired
	case errors.Is(err, ErrNotYourTurn):
		return KindNotYourTurn
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoSession):
		return KindNotFound
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrDuplicateID):
		return KindDuplicateID
	case errors.Is(err, ErrCapacityExceeded):
		return KindCapacityExceeded
	case errors.Is(err, ErrPoolExhausted):
		return KindPoolExhausted
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindTimeout
	}
	return KindInternal
}
