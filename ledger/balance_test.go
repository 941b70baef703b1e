package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/atlasbank/ledger-engine/ledger"
	"github.com/atlasbank/ledger-engine/store/memory"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func seedAccount(t *testing.T, store *memory.Memory, id string, initial int64) *ledger.Account {
	t.Helper()
	account := &ledger.Account{
		ID:             id,
		Number:         "478758",
		Type:           "savings",
		InitialBalance: dec(initial),
		Active:         true,
		ClientID:       "client-1",
		CreatedAt:      time.Now(),
	}
	require.NoError(t, store.SaveAccount(context.Background(), account))
	return account
}

func seedMovement(t *testing.T, store *memory.Memory, id, accountID string, date time.Time, value, balance int64) {
	t.Helper()
	require.NoError(t, store.SaveMovement(context.Background(), &ledger.Movement{
		ID:        id,
		AccountID: accountID,
		Date:      date,
		Kind:      "DEPOSITO",
		Value:     dec(value),
		Balance:   dec(balance),
		CreatedAt: date,
	}))
}

// =============================================================================
// RESOLVER TESTS
// =============================================================================

func TestCurrentBalance_EmptyHistoryFallsBackToInitial(t *testing.T) {
	store := memory.New()
	account := seedAccount(t, store, "acc-1", 2000)

	resolver := ledger.NewResolver(store)
	balance, err := resolver.CurrentBalance(context.Background(), account)
	require.NoError(t, err)
	require.True(t, balance.Equal(dec(2000)))
}

func TestCurrentBalance_LastMovementWins(t *testing.T) {
	store := memory.New()
	account := seedAccount(t, store, "acc-1", 2000)

	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	seedMovement(t, store, "m1", "acc-1", day, 600, 2600)
	seedMovement(t, store, "m2", "acc-1", day.AddDate(0, 0, 1), -575, 2025)

	resolver := ledger.NewResolver(store)
	balance, err := resolver.CurrentBalance(context.Background(), account)
	require.NoError(t, err)
	require.True(t, balance.Equal(dec(2025)))
}

func TestBalanceBefore_PredecessorBalance(t *testing.T) {
	// GIVEN: Two movements on an account with initial balance 2000
	// WHEN: Asking for the balance before each, and before an unknown id
	// THEN: First anchors at the initial balance, second after the first,
	//       and an unknown id anchors after the last movement

	store := memory.New()
	account := seedAccount(t, store, "acc-1", 2000)

	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	seedMovement(t, store, "m1", "acc-1", day, 600, 2600)
	seedMovement(t, store, "m2", "acc-1", day.AddDate(0, 0, 1), -575, 2025)

	resolver := ledger.NewResolver(store)
	ctx := context.Background()

	before, err := resolver.BalanceBefore(ctx, account, "m1")
	require.NoError(t, err)
	require.True(t, before.Equal(dec(2000)))

	before, err = resolver.BalanceBefore(ctx, account, "m2")
	require.NoError(t, err)
	require.True(t, before.Equal(dec(2600)))

	before, err = resolver.BalanceBefore(ctx, account, "missing")
	require.NoError(t, err)
	require.True(t, before.Equal(dec(2025)))
}

func TestSliceBetween_InclusiveBounds(t *testing.T) {
	store := memory.New()
	seedAccount(t, store, "acc-1", 0)

	day1 := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	day3 := day1.AddDate(0, 0, 2)
	seedMovement(t, store, "m1", "acc-1", day1, 100, 100)
	seedMovement(t, store, "m2", "acc-1", day2, 100, 200)
	seedMovement(t, store, "m3", "acc-1", day3, 100, 300)

	resolver := ledger.NewResolver(store)
	movs, err := resolver.SliceBetween(context.Background(), "acc-1", day1, day2)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	require.Equal(t, "m1", movs[0].ID)
	require.Equal(t, "m2", movs[1].ID)
}
