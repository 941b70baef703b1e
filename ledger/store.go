/*
store.go - Persistence interface for accounts and movements

PURPOSE:
  Defines the interface between the ledger engine and the database.
  Persistence mechanics live behind this boundary; the engine only needs
  lookup-by-id, ordered per-account listings, and save/delete.

ORDERING CONTRACT:
  ListMovements and ListMovementsInRange MUST return movements in the
  canonical account order (see ordering.go). The engine derives every
  running balance from that order.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store
  - store/memory: in-memory store for tests and dev
*/
package ledger

import (
	"context"
	"time"
)

// Store handles persistence of accounts and movements. Lookups return
// (nil, nil) when the record is absent; the engine turns that into the
// appropriate not-found error.
type Store interface {
	// FindAccount returns the account with the given id, or nil.
	FindAccount(ctx context.Context, id string) (*Account, error)

	// FindMovement returns the movement with the given id, or nil.
	FindMovement(ctx context.Context, id string) (*Movement, error)

	// ListMovements returns all movements of an account in canonical order.
	ListMovements(ctx context.Context, accountID string) ([]Movement, error)

	// ListMovementsInRange returns the account's movements with
	// from <= Date <= to (inclusive bounds), in canonical order.
	ListMovementsInRange(ctx context.Context, accountID string, from, to time.Time) ([]Movement, error)

	// ListAllMovements returns every movement across accounts, in canonical order.
	ListAllMovements(ctx context.Context) ([]Movement, error)

	// SaveMovement inserts or overwrites a movement.
	SaveMovement(ctx context.Context, m *Movement) error

	// DeleteMovement removes a movement by id.
	DeleteMovement(ctx context.Context, id string) error
}

// TxStore wraps Store with transaction support. Mutations that touch more
// than one row (cascade rebalancing) run inside WithTx so a failure writes
// nothing at all.
type TxStore interface {
	Store

	// WithTx executes fn against a transactional view of the store.
	// If fn returns an error the transaction is rolled back, otherwise
	// it is committed.
	WithTx(ctx context.Context, fn func(Store) error) error
}
