/*
Package bank manages clients and accounts around the ledger core.

Clients carry a Person-shaped field set by composition (no subtype
hierarchy) plus credentials and an active flag. Both clients and accounts
are deactivated rather than deleted so the movement history they anchor
stays resolvable.
*/
package bank

import "time"

// Person is the identity field set shared by people in the system.
type Person struct {
	Name           string
	Gender         string
	Age            int
	Identification string
	Address        string
	Phone          string
}

// Client is a bank customer: a Person plus credentials and lifecycle state.
type Client struct {
	ID           string
	Person       Person
	ClientID     string // login identifier, unique
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
}
