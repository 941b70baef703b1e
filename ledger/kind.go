package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Class is the normalized direction of a movement kind.
type Class int

const (
	// ClassNeutral means the label is unrecognized and the caller's sign is trusted.
	ClassNeutral Class = iota
	ClassCredit
	ClassDebit
)

// Kind labels are free text; classification is a case-insensitive prefix
// match so "RETIRO", "retiro cajero" and "Withdrawal" all count as debits.
var (
	debitStems  = []string{"retiro", "withdraw"}
	creditStems = []string{"deposito", "deposit"}
)

// Classify maps a movement-kind label to its direction.
func Classify(kind string) Class {
	label := strings.ToLower(strings.TrimSpace(kind))
	for _, stem := range debitStems {
		if strings.HasPrefix(label, stem) {
			return ClassDebit
		}
	}
	for _, stem := range creditStems {
		if strings.HasPrefix(label, stem) {
			return ClassCredit
		}
	}
	return ClassNeutral
}

// Normalize turns a kind label and a raw magnitude into the signed value
// stored on a movement: debit-like kinds force a negative value, credit-like
// kinds a positive one, anything else passes through unchanged.
// Pure function; no failure modes.
func Normalize(kind string, magnitude decimal.Decimal) decimal.Decimal {
	switch Classify(kind) {
	case ClassDebit:
		return magnitude.Abs().Neg()
	case ClassCredit:
		return magnitude.Abs()
	default:
		return magnitude
	}
}
