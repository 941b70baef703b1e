/*
Package report builds and renders account statements.

A statement is a derived, read-only projection over a date-bounded slice of
the ledger: per-account period totals plus the movement lines themselves,
aggregated per client. Reports exist only for the duration of a request;
nothing here is persisted.
*/
package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementLine is one ledger entry as it appears on a statement.
type MovementLine struct {
	Date    time.Time       `json:"date"`
	Kind    string          `json:"movementType"`
	Value   decimal.Decimal `json:"value"`
	Balance decimal.Decimal `json:"balance"`
}

// AccountReport summarizes one account over the report period.
type AccountReport struct {
	AccountNumber    string          `json:"accountNumber"`
	AccountType      string          `json:"accountType"`
	InitialBalance   decimal.Decimal `json:"initialBalance"`
	Active           bool            `json:"status"`
	TotalCredits     decimal.Decimal `json:"totalCredits"`
	TotalDebits      decimal.Decimal `json:"totalDebits"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	Movements        []MovementLine  `json:"movements"`
}

// ClientReport aggregates the per-account reports for one client.
type ClientReport struct {
	ClientName string          `json:"clientName"`
	ClientID   string          `json:"clientId"`
	From       string          `json:"startDate"` // formatted 2006-01-02
	To         string          `json:"endDate"`
	Accounts   []AccountReport `json:"accounts"`
}

// StatementLine is the flattened row shape used by the JSON renderer: one
// row per movement with its account context repeated.
type StatementLine struct {
	Date             string          `json:"date"`
	Client           string          `json:"client"`
	AccountNumber    string          `json:"accountNumber"`
	AccountType      string          `json:"type"`
	InitialBalance   decimal.Decimal `json:"initialBalance"`
	Active           bool            `json:"status"`
	Movement         decimal.Decimal `json:"movement"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
}
