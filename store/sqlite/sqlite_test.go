package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasbank/ledger-engine/bank"
	"github.com/atlasbank/ledger-engine/ledger"
	"github.com/atlasbank/ledger-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func saveMovement(t *testing.T, store *sqlite.Store, id, accountID string, date, created time.Time, value int64) {
	t.Helper()
	require.NoError(t, store.SaveMovement(context.Background(), &ledger.Movement{
		ID:        id,
		AccountID: accountID,
		Date:      date,
		Kind:      "DEPOSITO",
		Value:     dec(value),
		Balance:   dec(value),
		CreatedAt: created,
	}))
}

// =============================================================================
// CLIENTS AND ACCOUNTS
// =============================================================================

func TestClientRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	client := &bank.Client{
		ID: "client-1",
		Person: bank.Person{
			Name:           "Jose Lema",
			Gender:         "M",
			Age:            34,
			Identification: "098254785",
			Address:        "Otavalo sn y principal",
			Phone:          "098254785",
		},
		ClientID:     "jose.lema",
		PasswordHash: "salt$hash",
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.SaveClient(ctx, client))

	got, err := store.FindClient(ctx, "client-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jose Lema", got.Person.Name)
	assert.Equal(t, 34, got.Person.Age)
	assert.Equal(t, "salt$hash", got.PasswordHash)

	byLogin, err := store.FindClientByClientID(ctx, "jose.lema")
	require.NoError(t, err)
	require.NotNil(t, byLogin)
	assert.Equal(t, "client-1", byLogin.ID)

	byIdent, err := store.FindClientByIdentification(ctx, "098254785")
	require.NoError(t, err)
	require.NotNil(t, byIdent)

	missing, err := store.FindClient(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSaveClient_DuplicateLoginRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &bank.Client{
		ID:           "client-1",
		Person:       bank.Person{Name: "A", Identification: "id-1"},
		ClientID:     "dup.login",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.SaveClient(ctx, first))

	second := &bank.Client{
		ID:           "client-2",
		Person:       bank.Person{Name: "B", Identification: "id-2"},
		ClientID:     "dup.login",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	err := store.SaveClient(ctx, second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bank.ErrDuplicateClient))
}

func TestAccountRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	account := &ledger.Account{
		ID:             "acc-1",
		Number:         "478758",
		Type:           "savings",
		InitialBalance: decimal.RequireFromString("2000.50"),
		Active:         true,
		ClientID:       "client-1",
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, store.SaveAccount(ctx, account))

	got, err := store.FindAccountByNumber(ctx, "478758")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.InitialBalance.Equal(decimal.RequireFromString("2000.50")))

	byClient, err := store.ListAccountsByClient(ctx, "client-1")
	require.NoError(t, err)
	assert.Len(t, byClient, 1)
}

// =============================================================================
// MOVEMENT ORDERING
// =============================================================================

func TestListMovements_CanonicalOrder(t *testing.T) {
	// GIVEN: Movements inserted out of order, with date and created_at ties
	// WHEN: Listing them
	// THEN: Ordered by date, then created_at, then id

	store := newTestStore(t)
	day1 := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	t1 := day1.Add(9 * time.Hour)
	t2 := t1.Add(time.Hour)

	saveMovement(t, store, "m-c", "acc-1", day2, t1, 1)
	saveMovement(t, store, "m-b", "acc-1", day1, t2, 2)
	saveMovement(t, store, "m-d", "acc-1", day1, t1, 3) // ties with m-a on date+created
	saveMovement(t, store, "m-a", "acc-1", day1, t1, 4)

	movs, err := store.ListMovements(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Len(t, movs, 4)

	ids := []string{movs[0].ID, movs[1].ID, movs[2].ID, movs[3].ID}
	assert.Equal(t, []string{"m-a", "m-d", "m-b", "m-c"}, ids)
}

func TestListMovements_MixedFractionalSecondsStayChronological(t *testing.T) {
	// GIVEN: Movements at 09:00:00 and 09:00:00.5 with identical created_at
	// WHEN: Listing them
	// THEN: Whole-second timestamps sort before fractional ones in the
	//       same second; the TEXT encoding must compare chronologically

	store := newTestStore(t)
	created := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	whole := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	fractional := whole.Add(500 * time.Millisecond)

	saveMovement(t, store, "m-late", "acc-1", fractional, created, 1)
	saveMovement(t, store, "m-early", "acc-1", whole, created, 2)

	movs, err := store.ListMovements(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, "m-early", movs[0].ID)
	assert.Equal(t, "m-late", movs[1].ID)
	assert.True(t, movs[0].Date.Equal(whole))
	assert.True(t, movs[1].Date.Equal(fractional))
}

func TestListMovementsInRange_FractionalSecondsInsideDayStart(t *testing.T) {
	// A movement half a second into the day must fall inside a range
	// starting at midnight.

	store := newTestStore(t)
	dayStart := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	saveMovement(t, store, "m1", "acc-1", dayStart.Add(500*time.Millisecond), dayStart, 1)

	movs, err := store.ListMovementsInRange(context.Background(), "acc-1", dayStart, dayEnd)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "m1", movs[0].ID)
}

func TestListMovementsInRange_InclusiveBounds(t *testing.T) {
	store := newTestStore(t)
	day1 := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	day3 := day1.AddDate(0, 0, 2)

	saveMovement(t, store, "m1", "acc-1", day1, day1, 1)
	saveMovement(t, store, "m2", "acc-1", day2, day2, 2)
	saveMovement(t, store, "m3", "acc-1", day3, day3, 3)

	movs, err := store.ListMovementsInRange(context.Background(), "acc-1", day1, day2)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, "m1", movs[0].ID)
	assert.Equal(t, "m2", movs[1].ID)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestWithTx_ReadsSeeUncommittedWrites(t *testing.T) {
	// Rebalancing rewrites rows and re-reads the chain inside one
	// transaction; the transactional view must see its own writes.

	store := newTestStore(t)
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	err := store.WithTx(context.Background(), func(s ledger.Store) error {
		if err := s.SaveMovement(context.Background(), &ledger.Movement{
			ID:        "m1",
			AccountID: "acc-1",
			Date:      day,
			Kind:      "DEPOSITO",
			Value:     dec(100),
			Balance:   dec(100),
			CreatedAt: day,
		}); err != nil {
			return err
		}

		movs, err := s.ListMovements(context.Background(), "acc-1")
		if err != nil {
			return err
		}
		require.Len(t, movs, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestWithTx_ErrorRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	saveMovement(t, store, "kept", "acc-1", day, day, 1)

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(s ledger.Store) error {
		if err := s.DeleteMovement(ctx, "kept"); err != nil {
			return err
		}
		if err := s.SaveMovement(ctx, &ledger.Movement{
			ID: "new", AccountID: "acc-1", Date: day, Kind: "DEPOSITO",
			Value: dec(5), Balance: dec(5), CreatedAt: day,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	movs, err := store.ListMovements(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "kept", movs[0].ID)
}
