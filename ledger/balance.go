package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Resolver answers balance questions over an account's ordered movement
// history. Read-only; it never mutates the store.
type Resolver struct {
	Store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{Store: store}
}

// CurrentBalance returns the last movement's running balance, or the
// account's initial balance when the history is empty.
func (r *Resolver) CurrentBalance(ctx context.Context, account *Account) (decimal.Decimal, error) {
	movs, err := r.Store.ListMovements(ctx, account.ID)
	if err != nil {
		return decimal.Zero, err
	}
	if len(movs) == 0 {
		return account.InitialBalance, nil
	}
	return movs[len(movs)-1].Balance, nil
}

// BalanceBefore returns the running balance immediately before the given
// movement: the balance of its predecessor in the account order, or the
// initial balance when the movement is (or would be) first. A movement not
// present in the history anchors after the last stored movement.
func (r *Resolver) BalanceBefore(ctx context.Context, account *Account, movementID string) (decimal.Decimal, error) {
	movs, err := r.Store.ListMovements(ctx, account.ID)
	if err != nil {
		return decimal.Zero, err
	}

	prev := account.InitialBalance
	for _, m := range movs {
		if m.ID == movementID {
			break
		}
		prev = m.Balance
	}
	return prev, nil
}

// SliceBetween returns the account's movements with from <= Date <= to,
// preserving the canonical order.
func (r *Resolver) SliceBetween(ctx context.Context, accountID string, from, to time.Time) ([]Movement, error) {
	return r.Store.ListMovementsInRange(ctx, accountID, from, to)
}
