package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// JSONRenderer flattens a client report into one statement line per
// movement, with the account context repeated on each row.
type JSONRenderer struct{}

func (JSONRenderer) Render(_ context.Context, report *ClientReport) (Rendered, error) {
	lines := make([]StatementLine, 0)
	for _, account := range report.Accounts {
		for _, m := range account.Movements {
			lines = append(lines, StatementLine{
				Date:             m.Date.Format(time.RFC3339),
				Client:           report.ClientName,
				AccountNumber:    account.AccountNumber,
				AccountType:      account.AccountType,
				InitialBalance:   account.InitialBalance,
				Active:           account.Active,
				Movement:         m.Value,
				AvailableBalance: m.Balance,
			})
		}
	}

	payload, err := json.MarshalIndent(lines, "", "  ")
	if err != nil {
		return Rendered{}, fmt.Errorf("failed to encode statement: %w", err)
	}
	return Rendered{Payload: payload, ContentType: "application/json"}, nil
}
