package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DailyWithdrawalLimit is the maximum total magnitude of same-day debit
// movements permitted per account. The cap is inclusive: a day summing to
// exactly the limit is allowed.
var DailyWithdrawalLimit = decimal.NewFromInt(1000)

// LimitGuard checks candidate withdrawals against the daily cap. The
// same-day total is recomputed from stored movements on every check.
type LimitGuard struct {
	Store Store
	Limit decimal.Decimal
}

func NewLimitGuard(store Store) *LimitGuard {
	return &LimitGuard{Store: store, Limit: DailyWithdrawalLimit}
}

// CheckWithdrawal sums the magnitudes of the account's debit movements on
// the day containing ref, adds the candidate magnitude, and fails with a
// DailyLimitError when the total exceeds the cap. excludeID names a
// movement to leave out of the sum (the prior version of an edited
// movement); pass "" on create.
//
// Only debit-like candidates are ever checked; callers skip credits.
func (g *LimitGuard) CheckWithdrawal(ctx context.Context, account *Account, ref time.Time, magnitude decimal.Decimal, excludeID string) error {
	start, end := dayWindow(ref)
	movs, err := g.Store.ListMovementsInRange(ctx, account.ID, start, end)
	if err != nil {
		return err
	}

	total := magnitude.Abs()
	for _, m := range movs {
		if m.ID == excludeID || !m.Value.IsNegative() {
			continue
		}
		total = total.Add(m.Value.Abs())
	}

	if total.GreaterThan(g.Limit) {
		return &DailyLimitError{AccountID: account.ID, Limit: g.Limit, Attempted: total}
	}
	return nil
}

// dayWindow returns the inclusive start and end of the day containing t,
// in t's location.
func dayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}
