/*
errors.go - Centralized error types for the ledger engine

All failure kinds surfaced by the engine live here. Every failure is
terminal for the single mutation attempt: no retries, no partial writes.
Callers map these to transport-level status codes with errors.Is/As.
*/
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAccountNotFound is returned when a referenced account doesn't exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrMovementNotFound is returned when a referenced movement doesn't exist.
	ErrMovementNotFound = errors.New("movement not found")

	// ErrInsufficientBalance is returned when a mutation would leave any
	// running balance negative.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrDailyLimitExceeded is returned when a withdrawal would push the
	// same-day debit total over the daily cap.
	ErrDailyLimitExceeded = errors.New("daily withdrawal limit exceeded")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientBalanceError reports the projected negative balance.
type InsufficientBalanceError struct {
	AccountID string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance on account %s: available %s, requested %s",
		e.AccountID, e.Available, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// DailyLimitError reports how far over the cap the withdrawal would land.
type DailyLimitError struct {
	AccountID string
	Limit     decimal.Decimal
	Attempted decimal.Decimal // same-day debit total including the candidate
}

func (e *DailyLimitError) Error() string {
	return fmt.Sprintf("daily withdrawal limit exceeded on account %s: %s of %s",
		e.AccountID, e.Attempted, e.Limit)
}

func (e *DailyLimitError) Unwrap() error { return ErrDailyLimitExceeded }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether err indicates a missing account or movement.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound) || errors.Is(err, ErrMovementNotFound)
}

// IsRejected reports whether err is a business-rule rejection (as opposed to
// a store failure): the mutation was understood but refused.
func IsRejected(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) || errors.Is(err, ErrDailyLimitExceeded)
}
