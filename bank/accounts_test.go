package bank_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasbank/ledger-engine/bank"
	"github.com/atlasbank/ledger-engine/ledger"
	"github.com/atlasbank/ledger-engine/store/memory"
)

func newAccountFixture(t *testing.T) (*bank.AccountService, *bank.Client, *memory.Memory) {
	t.Helper()
	store := memory.New()
	clients := bank.NewClientService(store)
	client := createJose(t, clients)

	svc := bank.NewAccountService(store, store, ledger.NewResolver(store))
	return svc, client, store
}

func TestAccountService_Create(t *testing.T) {
	svc, client, _ := newAccountFixture(t)

	account, err := svc.Create(context.Background(), bank.CreateAccountInput{
		Number:         "478758",
		Type:           "savings",
		InitialBalance: decimal.NewFromInt(2000),
		ClientID:       client.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.True(t, account.Active)
	assert.Equal(t, client.ID, account.ClientID)
}

func TestAccountService_Create_DuplicateNumber(t *testing.T) {
	svc, client, _ := newAccountFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, bank.CreateAccountInput{
		Number: "478758", Type: "savings", ClientID: client.ID,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, bank.CreateAccountInput{
		Number: "478758", Type: "checking", ClientID: client.ID,
	})
	require.Error(t, err)
	assert.True(t, bank.IsDuplicate(err))
}

func TestAccountService_Create_UnknownClient(t *testing.T) {
	svc, _, _ := newAccountFixture(t)

	_, err := svc.Create(context.Background(), bank.CreateAccountInput{
		Number: "478758", Type: "savings", ClientID: "ghost",
	})
	require.Error(t, err)
	assert.True(t, bank.IsNotFound(err))
}

func TestAccountService_CurrentBalance_ReflectsMovements(t *testing.T) {
	svc, client, store := newAccountFixture(t)
	ctx := context.Background()

	account, err := svc.Create(ctx, bank.CreateAccountInput{
		Number:         "478758",
		Type:           "savings",
		InitialBalance: decimal.NewFromInt(2000),
		ClientID:       client.ID,
	})
	require.NoError(t, err)

	// Fresh account: balance equals the opening amount.
	balance, err := svc.CurrentBalance(ctx, account)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(2000)))

	engine := ledger.NewEngine(store)
	_, err = engine.Create(ctx, ledger.CreateInput{
		AccountID: account.ID, Kind: "RETIRO", Magnitude: decimal.NewFromInt(575),
	})
	require.NoError(t, err)

	balance, err = svc.CurrentBalance(ctx, account)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(1425)))
}

func TestAccountService_Deactivate_IsLogical(t *testing.T) {
	svc, client, _ := newAccountFixture(t)
	ctx := context.Background()

	account, err := svc.Create(ctx, bank.CreateAccountInput{
		Number: "478758", Type: "savings", ClientID: client.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, account.ID))

	kept, err := svc.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, kept.Active)
}

func TestAccountService_Patch_MoveToOtherClient(t *testing.T) {
	svc, client, store := newAccountFixture(t)
	ctx := context.Background()

	clients := bank.NewClientService(store)
	other, err := clients.Create(ctx, bank.CreateClientInput{
		Person: bank.Person{
			Name:           "Marianela Montalvo",
			Identification: "097548965",
		},
		ClientID: "marianela.m",
		Password: "5678",
	})
	require.NoError(t, err)

	account, err := svc.Create(ctx, bank.CreateAccountInput{
		Number: "478758", Type: "savings", ClientID: client.ID,
	})
	require.NoError(t, err)

	patched, err := svc.Patch(ctx, account.ID, bank.PatchAccountInput{ClientID: &other.ID})
	require.NoError(t, err)
	assert.Equal(t, other.ID, patched.ClientID)
}
