package ledger

import "sort"

// Movements belonging to one account form a strict total order used for
// balance derivation: Date ascending, then CreatedAt, then ID as the final
// tie-breaker. Every store implementation must list movements in exactly
// this order; ambiguity here directly corrupts the balance chain.

// MovementLess reports whether a orders before b.
func MovementLess(a, b Movement) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// OrderMovements sorts movements in place into the canonical account order.
func OrderMovements(movs []Movement) {
	sort.SliceStable(movs, func(i, j int) bool {
		return MovementLess(movs[i], movs[j])
	})
}
