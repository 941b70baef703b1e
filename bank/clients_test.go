package bank_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasbank/ledger-engine/bank"
	"github.com/atlasbank/ledger-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func josePerson() bank.Person {
	return bank.Person{
		Name:           "Jose Lema",
		Gender:         "M",
		Age:            34,
		Identification: "098254785",
		Address:        "Otavalo sn y principal",
		Phone:          "098254785",
	}
}

func createJose(t *testing.T, svc *bank.ClientService) *bank.Client {
	t.Helper()
	client, err := svc.Create(context.Background(), bank.CreateClientInput{
		Person:   josePerson(),
		ClientID: "jose.lema",
		Password: "1234",
	})
	require.NoError(t, err)
	return client
}

// =============================================================================
// CLIENT LIFECYCLE
// =============================================================================

func TestClientService_Create(t *testing.T) {
	svc := bank.NewClientService(memory.New())
	client := createJose(t, svc)

	assert.NotEmpty(t, client.ID)
	assert.True(t, client.Active)
	assert.Equal(t, "jose.lema", client.ClientID)
	assert.NotEqual(t, "1234", client.PasswordHash)
	assert.True(t, bank.VerifyPassword("1234", client.PasswordHash))
}

func TestClientService_Create_PasswordRequired(t *testing.T) {
	svc := bank.NewClientService(memory.New())

	_, err := svc.Create(context.Background(), bank.CreateClientInput{
		Person:   josePerson(),
		ClientID: "jose.lema",
		Password: "  ",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, bank.ErrInvalidPassword)
}

func TestClientService_Create_DuplicateClientID(t *testing.T) {
	svc := bank.NewClientService(memory.New())
	createJose(t, svc)

	other := josePerson()
	other.Identification = "111111111"
	_, err := svc.Create(context.Background(), bank.CreateClientInput{
		Person:   other,
		ClientID: "jose.lema",
		Password: "5678",
	})
	require.Error(t, err)
	assert.True(t, bank.IsDuplicate(err))
}

func TestClientService_Create_DuplicateIdentification(t *testing.T) {
	svc := bank.NewClientService(memory.New())
	createJose(t, svc)

	_, err := svc.Create(context.Background(), bank.CreateClientInput{
		Person:   josePerson(),
		ClientID: "otro.login",
		Password: "5678",
	})
	require.Error(t, err)
	assert.True(t, bank.IsDuplicate(err))
}

func TestClientService_Update_EmptyPasswordKeepsHash(t *testing.T) {
	svc := bank.NewClientService(memory.New())
	client := createJose(t, svc)

	updated, err := svc.Update(context.Background(), client.ID, bank.UpdateClientInput{
		Person:   josePerson(),
		ClientID: "jose.lema",
		Password: "",
		Active:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, client.PasswordHash, updated.PasswordHash)
}

func TestClientService_Patch_ChangesOnlySuppliedFields(t *testing.T) {
	svc := bank.NewClientService(memory.New())
	client := createJose(t, svc)

	phone := "022345678"
	password := "n3w-pass"
	patched, err := svc.Patch(context.Background(), client.ID, bank.PatchClientInput{
		Phone:    &phone,
		Password: &password,
	})
	require.NoError(t, err)
	assert.Equal(t, "022345678", patched.Person.Phone)
	assert.Equal(t, "Jose Lema", patched.Person.Name)
	assert.True(t, bank.VerifyPassword("n3w-pass", patched.PasswordHash))
}

func TestClientService_Patch_ShortPasswordRejected(t *testing.T) {
	svc := bank.NewClientService(memory.New())
	client := createJose(t, svc)

	bad := "abc"
	_, err := svc.Patch(context.Background(), client.ID, bank.PatchClientInput{Password: &bad})
	require.Error(t, err)
	assert.ErrorIs(t, err, bank.ErrInvalidPassword)
}

func TestClientService_Deactivate_IsLogical(t *testing.T) {
	store := memory.New()
	svc := bank.NewClientService(store)
	client := createJose(t, svc)

	require.NoError(t, svc.Deactivate(context.Background(), client.ID))

	kept, err := svc.Get(context.Background(), client.ID)
	require.NoError(t, err)
	assert.False(t, kept.Active)
}

func TestClientService_Get_NotFound(t *testing.T) {
	svc := bank.NewClientService(memory.New())
	_, err := svc.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, bank.IsNotFound(err))
}
