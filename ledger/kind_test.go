package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/atlasbank/ledger-engine/ledger"
)

func TestClassify_DebitAndCreditStems(t *testing.T) {
	// GIVEN: Kind labels in mixed case and both naming families
	// WHEN: Classifying each
	// THEN: Withdrawal-family labels are debits, deposit-family credits,
	//       anything else is neutral

	cases := []struct {
		kind string
		want ledger.Class
	}{
		{"RETIRO", ledger.ClassDebit},
		{"retiro", ledger.ClassDebit},
		{"Retiro", ledger.ClassDebit},
		{"WITHDRAWAL", ledger.ClassDebit},
		{"withdraw", ledger.ClassDebit},
		{"DEPOSITO", ledger.ClassCredit},
		{"deposito", ledger.ClassCredit},
		{"DEPOSIT", ledger.ClassCredit},
		{"deposit", ledger.ClassCredit},
		{"TRANSFER", ledger.ClassNeutral},
		{"", ledger.ClassNeutral},
		{"fee", ledger.ClassNeutral},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ledger.Classify(tc.kind), "kind=%q", tc.kind)
	}
}

func TestNormalize_SignsFollowKind(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	// Debits come out negative regardless of the input sign.
	assert.True(t, ledger.Normalize("RETIRO", hundred).Equal(hundred.Neg()))
	assert.True(t, ledger.Normalize("retiro", hundred.Neg()).Equal(hundred.Neg()))

	// Credits come out positive regardless of the input sign.
	assert.True(t, ledger.Normalize("DEPOSITO", hundred).Equal(hundred))
	assert.True(t, ledger.Normalize("deposit", hundred.Neg()).Equal(hundred))

	// Neutral kinds pass the signed value through untouched.
	assert.True(t, ledger.Normalize("adjustment", hundred.Neg()).Equal(hundred.Neg()))
	assert.True(t, ledger.Normalize("adjustment", hundred).Equal(hundred))
}

func TestNormalize_ZeroMagnitude(t *testing.T) {
	assert.True(t, ledger.Normalize("RETIRO", decimal.Zero).IsZero())
	assert.True(t, ledger.Normalize("DEPOSITO", decimal.Zero).IsZero())
}
