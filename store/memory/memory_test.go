package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasbank/ledger-engine/bank"
	"github.com/atlasbank/ledger-engine/ledger"
	"github.com/atlasbank/ledger-engine/store/memory"
)

func TestSaveClient_DuplicateLoginRejected(t *testing.T) {
	// The in-memory store enforces the same uniqueness the sqlite schema
	// does, so the two backends agree on duplicate writes.

	store := memory.New()
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
	assert.ErrorIs(t, err, bank.ErrDuplicateClient)

	// Updating the existing record under its own id stays allowed.
	first.Person.Name = "A2"
	require.NoError(t, store.SaveClient(ctx, first))
}

func TestSaveClient_DuplicateIdentificationRejected(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	require.NoError(t, store.SaveClient(ctx, &bank.Client{
		ID:        "client-1",
		Person:    bank.Person{Name: "A", Identification: "shared-id"},
		ClientID:  "login.a",
		CreatedAt: time.Now().UTC(),
	}))

	err := store.SaveClient(ctx, &bank.Client{
		ID:        "client-2",
		Person:    bank.Person{Name: "B", Identification: "shared-id"},
		ClientID:  "login.b",
		CreatedAt: time.Now().UTC(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, bank.ErrDuplicateClient)
}

func TestSaveAccount_DuplicateNumberRejected(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	require.NoError(t, store.SaveAccount(ctx, &ledger.Account{
		ID:             "acc-1",
		Number:         "478758",
		Type:           "savings",
		InitialBalance: decimal.NewFromInt(100),
		Active:         true,
		ClientID:       "client-1",
		CreatedAt:      time.Now().UTC(),
	}))

	err := store.SaveAccount(ctx, &ledger.Account{
		ID:             "acc-2",
		Number:         "478758",
		Type:           "checking",
		InitialBalance: decimal.NewFromInt(0),
		Active:         true,
		ClientID:       "client-1",
		CreatedAt:      time.Now().UTC(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, bank.ErrDuplicateAccount)

	// Rewriting the same account keeps its number without conflict.
	require.NoError(t, store.SaveAccount(ctx, &ledger.Account{
		ID:             "acc-1",
		Number:         "478758",
		Type:           "checking",
		InitialBalance: decimal.NewFromInt(100),
		Active:         true,
		ClientID:       "client-1",
		CreatedAt:      time.Now().UTC(),
	}))
}
