/*
Package ledger provides the account ledger engine.

PURPOSE:
  This package contains the types and algorithms that keep an account's
  movement history consistent: signed-value normalization, running-balance
  derivation, the daily withdrawal cap, and the mutation engine that
  enforces both invariants on every create, update and delete.

KEY CONCEPTS IN THIS FILE (types.go):
  - Account: the balance-bearing entity; its initial balance anchors the chain
  - Movement: a single signed ledger entry with its derived running balance

DESIGN PRINCIPLES:
  1. Derived balances: Movement.Balance is never caller-supplied; it is
     always recomputed from the ordered history
  2. Precision: uses decimal.Decimal to avoid floating-point drift
  3. Explicit ordering: the (Date, CreatedAt, ID) order is a contract, not
     an accident of the store (see ordering.go)

SEE ALSO:
  - kind.go:     movement-type classification and sign normalization
  - balance.go:  running-balance resolution
  - limits.go:   daily withdrawal cap
  - engine.go:   mutation engine tying it all together
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ACCOUNT
// =============================================================================

// Account is the balance-bearing entity. InitialBalance is fixed at creation
// and anchors the running-balance chain; it never changes afterwards.
// Accounts are deactivated (Active=false) rather than deleted so historical
// movements stay resolvable.
type Account struct {
	ID             string
	Number         string
	Type           string
	InitialBalance decimal.Decimal
	Active         bool
	ClientID       string
	CreatedAt      time.Time
}

// =============================================================================
// MOVEMENT
// =============================================================================

// Movement is a single signed ledger entry against an account.
//
// INVARIANT: within an account's ordered history m1..mn,
//
//	Balance(m1) = account.InitialBalance + Value(m1)
//	Balance(mi) = Balance(mi-1) + Value(mi)   for i > 1
//
// Value carries the normalized sign (withdrawals negative, deposits
// positive). Balance is derived by the engine and never trusted from input.
type Movement struct {
	ID        string
	AccountID string
	Date      time.Time
	Kind      string
	Value     decimal.Decimal
	Balance   decimal.Decimal
	CreatedAt time.Time
}
