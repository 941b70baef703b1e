package bank

import (
	"context"

	"github.com/atlasbank/ledger-engine/ledger"
)

// ClientStore handles persistence of clients. Lookups return (nil, nil)
// when the record is absent.
type ClientStore interface {
	FindClient(ctx context.Context, id string) (*Client, error)
	FindClientByClientID(ctx context.Context, clientID string) (*Client, error)
	FindClientByIdentification(ctx context.Context, identification string) (*Client, error)
	ListClients(ctx context.Context) ([]Client, error)
	SaveClient(ctx context.Context, c *Client) error
}

// AccountStore handles persistence of accounts.
type AccountStore interface {
	FindAccount(ctx context.Context, id string) (*ledger.Account, error)
	FindAccountByNumber(ctx context.Context, number string) (*ledger.Account, error)
	ListAccounts(ctx context.Context) ([]ledger.Account, error)
	ListAccountsByClient(ctx context.Context, clientID string) ([]ledger.Account, error)
	SaveAccount(ctx context.Context, a *ledger.Account) error
}
