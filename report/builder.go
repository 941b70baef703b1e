package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atlasbank/ledger-engine/bank"
	"github.com/atlasbank/ledger-engine/ledger"
)

// ErrNoAccounts is returned when the client exists but owns no accounts.
var ErrNoAccounts = errors.New("no accounts for client")

// Store is the slice of persistence the builder needs.
type Store interface {
	FindClient(ctx context.Context, id string) (*bank.Client, error)
	ListAccountsByClient(ctx context.Context, clientID string) ([]ledger.Account, error)
	ListMovementsInRange(ctx context.Context, accountID string, from, to time.Time) ([]ledger.Movement, error)
}

// Builder assembles client statements. Read-only.
type Builder struct {
	store Store
}

func NewBuilder(store Store) *Builder {
	return &Builder{store: store}
}

// BuildClientReport slices each of the client's account histories to
// [from, to] (inclusive) and computes period totals per account.
func (b *Builder) BuildClientReport(ctx context.Context, clientID string, from, to time.Time) (*ClientReport, error) {
	client, err := b.store.FindClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("%w: %s", bank.ErrClientNotFound, clientID)
	}

	accounts, err := b.store.ListAccountsByClient(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAccounts, client.Person.Name)
	}

	out := &ClientReport{
		ClientName: client.Person.Name,
		ClientID:   client.ClientID,
		From:       from.Format("2006-01-02"),
		To:         to.Format("2006-01-02"),
	}
	for i := range accounts {
		ar, err := b.buildAccountReport(ctx, &accounts[i], from, to)
		if err != nil {
			return nil, err
		}
		out.Accounts = append(out.Accounts, *ar)
	}
	return out, nil
}

func (b *Builder) buildAccountReport(ctx context.Context, account *ledger.Account, from, to time.Time) (*AccountReport, error) {
	movs, err := b.store.ListMovementsInRange(ctx, account.ID, from, to)
	if err != nil {
		return nil, err
	}

	credits := decimal.Zero
	debits := decimal.Zero
	lines := make([]MovementLine, 0, len(movs))
	for _, m := range movs {
		if m.Value.IsPositive() {
			credits = credits.Add(m.Value)
		} else if m.Value.IsNegative() {
			debits = debits.Add(m.Value.Abs())
		}
		lines = append(lines, MovementLine{
			Date:    m.Date,
			Kind:    m.Kind,
			Value:   m.Value,
			Balance: m.Balance,
		})
	}

	available := account.InitialBalance
	if len(movs) > 0 {
		available = movs[len(movs)-1].Balance
	}

	return &AccountReport{
		AccountNumber:    account.Number,
		AccountType:      account.Type,
		InitialBalance:   account.InitialBalance,
		Active:           account.Active,
		TotalCredits:     credits,
		TotalDebits:      debits,
		AvailableBalance: available,
		Movements:        lines,
	}, nil
}
