/*
accounts.go - Account lifecycle service

Accounts are created against an existing client with a unique account
number. The initial balance is fixed at creation; account reads expose the
derived current balance alongside it. Delete is logical so movements stay
resolvable.
*/
package bank

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atlasbank/ledger-engine/ledger"
)

// AccountService owns account CRUD. It reads balances through the ledger
// resolver but never mutates movements.
type AccountService struct {
	store    AccountStore
	clients  ClientStore
	resolver *ledger.Resolver
	now      func() time.Time
}

func NewAccountService(store AccountStore, clients ClientStore, resolver *ledger.Resolver) *AccountService {
	return &AccountService{store: store, clients: clients, resolver: resolver, now: time.Now}
}

// CreateAccountInput carries the fields for a new account.
type CreateAccountInput struct {
	Number         string
	Type           string
	InitialBalance decimal.Decimal
	ClientID       string
	Active         *bool
}

// UpdateAccountInput is a full replace of the account's mutable fields.
type UpdateAccountInput struct {
	Number         string
	Type           string
	InitialBalance decimal.Decimal
	ClientID       string
	Active         bool
}

// PatchAccountInput carries only the fields to change; nil means keep.
type PatchAccountInput struct {
	Number         *string
	Type           *string
	InitialBalance *decimal.Decimal
	ClientID       *string
	Active         *bool
}

// Create opens an account for an existing client.
func (s *AccountService) Create(ctx context.Context, in CreateAccountInput) (*ledger.Account, error) {
	if existing, err := s.store.FindAccountByNumber(ctx, in.Number); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: number %s", ErrDuplicateAccount, in.Number)
	}

	client, err := s.clients.FindClient(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("%w: %s", ErrClientNotFound, in.ClientID)
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	account := &ledger.Account{
		ID:             uuid.NewString(),
		Number:         in.Number,
		Type:           in.Type,
		InitialBalance: in.InitialBalance,
		Active:         active,
		ClientID:       client.ID,
		CreatedAt:      s.now(),
	}
	if err := s.store.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Update fully replaces an account's mutable fields.
func (s *AccountService) Update(ctx context.Context, id string, in UpdateAccountInput) (*ledger.Account, error) {
	account, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	client, err := s.clients.FindClient(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("%w: %s", ErrClientNotFound, in.ClientID)
	}

	account.Number = in.Number
	account.Type = in.Type
	account.InitialBalance = in.InitialBalance
	account.Active = in.Active
	account.ClientID = client.ID

	if err := s.store.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Patch changes only the supplied fields.
func (s *AccountService) Patch(ctx context.Context, id string, in PatchAccountInput) (*ledger.Account, error) {
	account, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Number != nil {
		account.Number = *in.Number
	}
	if in.Type != nil {
		account.Type = *in.Type
	}
	if in.InitialBalance != nil {
		account.InitialBalance = *in.InitialBalance
	}
	if in.ClientID != nil {
		client, err := s.clients.FindClient(ctx, *in.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, fmt.Errorf("%w: %s", ErrClientNotFound, *in.ClientID)
		}
		account.ClientID = client.ID
	}
	if in.Active != nil {
		account.Active = *in.Active
	}

	if err := s.store.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Deactivate flips the active flag; movements stay resolvable.
func (s *AccountService) Deactivate(ctx context.Context, id string) error {
	account, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	account.Active = false
	return s.store.SaveAccount(ctx, account)
}

// Get returns an account by id.
func (s *AccountService) Get(ctx context.Context, id string) (*ledger.Account, error) {
	return s.get(ctx, id)
}

// List returns all accounts.
func (s *AccountService) List(ctx context.Context) ([]ledger.Account, error) {
	return s.store.ListAccounts(ctx)
}

// ListByClient returns a client's accounts.
func (s *AccountService) ListByClient(ctx context.Context, clientID string) ([]ledger.Account, error) {
	return s.store.ListAccountsByClient(ctx, clientID)
}

// CurrentBalance returns the account's derived current balance.
func (s *AccountService) CurrentBalance(ctx context.Context, account *ledger.Account) (decimal.Decimal, error) {
	return s.resolver.CurrentBalance(ctx, account)
}

func (s *AccountService) get(ctx context.Context, id string) (*ledger.Account, error) {
	account, err := s.store.FindAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, id)
	}
	return account, nil
}
