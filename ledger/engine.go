/*
engine.go - Movement mutation engine

PURPOSE:
  Orchestrates create, update, partial-update and delete of movements while
  keeping every stored running balance consistent with the account's initial
  balance and the full ordered history.

MUTATION SHAPE:
  Every mutation is read-validate-write:
    1. Resolve the referenced account/movement (fail NotFound early)
    2. Normalize the signed value from the kind label
    3. For debit-like values, check the daily withdrawal cap
    4. Write, then replay the account chain in one transaction;
       reject if any replayed balance goes negative

CASCADE REBALANCING:
  Creating a backdated movement, or editing or deleting a non-terminal
  one, shifts the balance of every later movement in the same account.
  The engine replays the whole chain after each mutation and rewrites any
  balance that changed, inside a single store transaction: either the
  full consistent chain lands, or nothing does. A cascade that would
  drive any later balance negative rejects the mutation with
  InsufficientBalance.

CONCURRENCY:
  Mutations are serialized per account with a keyed lock held across the
  read-validate-write sequence. When a movement changes accounts, both
  accounts are locked in sorted order.

DAILY CAP:
  The cap is evaluated against the day of the movement's own effective
  date, so backdated withdrawals count against their own day, and it is
  re-checked on updates whose resulting value is debit-like (the prior
  version of the edited movement is excluded from the same-day sum).
*/
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Engine applies movement mutations against a transactional store.
type Engine struct {
	store TxStore
	guard *LimitGuard
	locks *accountLocks
	now   func() time.Time
}

func NewEngine(store TxStore) *Engine {
	return &Engine{
		store: store,
		guard: NewLimitGuard(store),
		locks: newAccountLocks(),
		now:   time.Now,
	}
}

// =============================================================================
// INPUTS
// =============================================================================

// CreateInput describes a new movement. Date is optional; when nil the
// engine stamps its own processing time.
type CreateInput struct {
	AccountID string
	Kind      string
	Magnitude decimal.Decimal
	Date      *time.Time
}

// UpdateInput is a full replace of a movement's mutable fields.
type UpdateInput struct {
	AccountID string
	Kind      string
	Magnitude decimal.Decimal
	Date      time.Time
}

// PatchInput carries only the fields to change; nil means keep.
type PatchInput struct {
	AccountID *string
	Kind      *string
	Magnitude *decimal.Decimal
	Date      *time.Time
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Create inserts a movement into the account's history at its effective
// date. A backdated movement lands mid-chain, so the whole chain is
// replayed like any other mutation; the new balance is whatever the
// replay assigns, not an increment on the latest balance.
func (e *Engine) Create(ctx context.Context, in CreateInput) (*Movement, error) {
	unlock := e.locks.acquire(in.AccountID)
	defer unlock()

	account, err := e.store.FindAccount(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, in.AccountID)
	}

	signed := Normalize(in.Kind, in.Magnitude)

	date := e.now()
	if in.Date != nil {
		date = *in.Date
	}

	if signed.IsNegative() {
		if err := e.guard.CheckWithdrawal(ctx, account, date, signed.Abs(), ""); err != nil {
			return nil, err
		}
	}

	mov := &Movement{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Date:      date,
		Kind:      in.Kind,
		Value:     signed,
		CreatedAt: e.now(),
	}

	var final Movement
	err = e.store.WithTx(ctx, func(s Store) error {
		if err := s.SaveMovement(ctx, mov); err != nil {
			return err
		}
		chain, err := rebuildChain(ctx, s, account)
		if err != nil {
			return err
		}
		for _, m := range chain {
			if m.ID == mov.ID {
				final = m
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &final, nil
}

// lockMovement acquires the lock set covering the movement's owning
// account plus any extra account ids, and returns the movement as read
// under that lock. The owner is chosen from a pre-lock read, so it is
// re-checked after locking: a concurrent update may have moved the
// movement to another account, in which case the lock set is rebuilt
// around the new owner.
func (e *Engine) lockMovement(ctx context.Context, id string, extra ...string) (*Movement, func(), error) {
	existing, err := e.store.FindMovement(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if existing == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrMovementNotFound, id)
	}

	for {
		ids := append([]string{existing.AccountID}, extra...)
		unlock := e.locks.acquire(ids...)

		latest, err := e.store.FindMovement(ctx, id)
		if err != nil {
			unlock()
			return nil, nil, err
		}
		if latest == nil {
			unlock()
			return nil, nil, fmt.Errorf("%w: %s", ErrMovementNotFound, id)
		}
		if latest.AccountID == existing.AccountID {
			return latest, unlock, nil
		}
		unlock()
		existing = latest
	}
}

// Update fully replaces a movement and rebalances the affected account
// chain(s).
func (e *Engine) Update(ctx context.Context, id string, in UpdateInput) (*Movement, error) {
	existing, unlock, err := e.lockMovement(ctx, id, in.AccountID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	account, err := e.store.FindAccount(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, in.AccountID)
	}

	updated := *existing
	updated.AccountID = account.ID
	updated.Date = in.Date
	updated.Kind = in.Kind
	updated.Value = Normalize(in.Kind, in.Magnitude)

	return e.commit(ctx, &updated, existing.AccountID, account)
}

// PartialUpdate changes only the supplied fields. Value and balance are
// recomputed when kind or magnitude is supplied; the stored kind is the
// classification basis when the caller changes only the magnitude.
func (e *Engine) PartialUpdate(ctx context.Context, id string, in PatchInput) (*Movement, error) {
	var extra []string
	if in.AccountID != nil {
		extra = append(extra, *in.AccountID)
	}
	existing, unlock, err := e.lockMovement(ctx, id, extra...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	targetAccountID := existing.AccountID
	if in.AccountID != nil {
		targetAccountID = *in.AccountID
	}

	account, err := e.store.FindAccount(ctx, targetAccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, targetAccountID)
	}

	updated := *existing
	updated.AccountID = account.ID
	if in.Date != nil {
		updated.Date = *in.Date
	}
	if in.Kind != nil {
		updated.Kind = *in.Kind
	}
	if in.Kind != nil || in.Magnitude != nil {
		magnitude := existing.Value
		if in.Magnitude != nil {
			magnitude = *in.Magnitude
		}
		updated.Value = Normalize(updated.Kind, magnitude)
	}

	return e.commit(ctx, &updated, existing.AccountID, account)
}

// Delete removes a movement and rebalances the remaining chain.
func (e *Engine) Delete(ctx context.Context, id string) error {
	existing, unlock, err := e.lockMovement(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	account, err := e.store.FindAccount(ctx, existing.AccountID)
	if err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, existing.AccountID)
	}

	return e.store.WithTx(ctx, func(s Store) error {
		if err := s.DeleteMovement(ctx, existing.ID); err != nil {
			return err
		}
		_, err := rebuildChain(ctx, s, account)
		return err
	})
}

// =============================================================================
// READS
// =============================================================================

// Get returns a movement by id.
func (e *Engine) Get(ctx context.Context, id string) (*Movement, error) {
	mov, err := e.store.FindMovement(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, fmt.Errorf("%w: %s", ErrMovementNotFound, id)
	}
	return mov, nil
}

// List returns movements in canonical order: all of them, or one account's
// history when accountID is non-empty.
func (e *Engine) List(ctx context.Context, accountID string) ([]Movement, error) {
	if accountID == "" {
		return e.store.ListAllMovements(ctx)
	}
	return e.store.ListMovements(ctx, accountID)
}

// =============================================================================
// INTERNALS
// =============================================================================

// commit validates the daily cap for the updated movement, then writes it
// and rebalances the new (and, on account change, the old) chain inside
// one transaction.
func (e *Engine) commit(ctx context.Context, updated *Movement, oldAccountID string, account *Account) (*Movement, error) {
	if updated.Value.IsNegative() {
		if err := e.guard.CheckWithdrawal(ctx, account, updated.Date, updated.Value.Abs(), updated.ID); err != nil {
			return nil, err
		}
	}

	var final Movement
	err := e.store.WithTx(ctx, func(s Store) error {
		if err := s.SaveMovement(ctx, updated); err != nil {
			return err
		}

		chain, err := rebuildChain(ctx, s, account)
		if err != nil {
			return err
		}
		for _, m := range chain {
			if m.ID == updated.ID {
				final = m
			}
		}

		if oldAccountID != account.ID {
			old, err := s.FindAccount(ctx, oldAccountID)
			if err != nil {
				return err
			}
			if old == nil {
				return fmt.Errorf("%w: %s", ErrAccountNotFound, oldAccountID)
			}
			if _, err := rebuildChain(ctx, s, old); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &final, nil
}

// rebuildChain replays the account's ordered history from the initial
// balance, rewriting any stored balance that drifted. Fails without
// committing when a replayed balance goes negative.
func rebuildChain(ctx context.Context, s Store, account *Account) ([]Movement, error) {
	movs, err := s.ListMovements(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	running := account.InitialBalance
	for i := range movs {
		pre := running
		running = running.Add(movs[i].Value)
		if running.IsNegative() {
			return nil, &InsufficientBalanceError{
				AccountID: account.ID,
				Available: pre,
				Requested: movs[i].Value.Abs(),
			}
		}
		if !movs[i].Balance.Equal(running) {
			movs[i].Balance = running
			if err := s.SaveMovement(ctx, &movs[i]); err != nil {
				return nil, err
			}
		}
	}
	return movs, nil
}
