/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request structs carry go-playground/validator tags; handlers run the
  shared validator before touching domain logic. Monetary fields are
  decimal.Decimal, which accepts both JSON numbers and quoted strings,
  and are range-checked in the services rather than by tag.

SEE ALSO:
  - handlers.go: Uses these types
  - report/types.go: Statement response shapes
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/atlasbank/ledger-engine/bank"
	"github.com/atlasbank/ledger-engine/ledger"
)

// =============================================================================
// CLIENT TYPES
// =============================================================================

// ClientDTO represents a client in API responses. The password hash never
// leaves the server.
type ClientDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Gender         string `json:"gender,omitempty"`
	Age            int    `json:"age,omitempty"`
	Identification string `json:"identification"`
	Address        string `json:"address,omitempty"`
	Phone          string `json:"phone,omitempty"`
	ClientID       string `json:"clientId"`
	Status         bool   `json:"status"`
	CreatedAt      string `json:"createdAt,omitempty"`
}

// CreateClientRequest is the request to register a client.
type CreateClientRequest struct {
	Name           string `json:"name" validate:"required"`
	Gender         string `json:"gender"`
	Age            int    `json:"age" validate:"gte=0"`
	Identification string `json:"identification" validate:"required"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	ClientID       string `json:"clientId" validate:"required"`
	Password       string `json:"password" validate:"required,min=4,max=255"`
	Status         *bool  `json:"status"`
}

// UpdateClientRequest fully replaces a client. An empty password keeps the
// stored one.
type UpdateClientRequest struct {
	Name           string `json:"name" validate:"required"`
	Gender         string `json:"gender"`
	Age            int    `json:"age" validate:"gte=0"`
	Identification string `json:"identification" validate:"required"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	ClientID       string `json:"clientId" validate:"required"`
	Password       string `json:"password" validate:"omitempty,min=4,max=255"`
	Status         bool   `json:"status"`
}

// PatchClientRequest changes only the supplied fields.
type PatchClientRequest struct {
	Name           *string `json:"name"`
	Gender         *string `json:"gender"`
	Age            *int    `json:"age"`
	Identification *string `json:"identification"`
	Address        *string `json:"address"`
	Phone          *string `json:"phone"`
	ClientID       *string `json:"clientId"`
	Password       *string `json:"password" validate:"omitempty,min=4,max=255"`
	Status         *bool   `json:"status"`
}

// =============================================================================
// ACCOUNT TYPES
// =============================================================================

// AccountDTO represents an account in API responses.
type AccountDTO struct {
	ID             string          `json:"id"`
	AccountNumber  string          `json:"accountNumber"`
	AccountType    string          `json:"accountType"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	Status         bool            `json:"status"`
	ClientID       string          `json:"clientId"`
	CreatedAt      string          `json:"createdAt,omitempty"`
}

// CreateAccountRequest is the request to open an account.
type CreateAccountRequest struct {
	AccountNumber  string          `json:"accountNumber" validate:"required"`
	AccountType    string          `json:"accountType" validate:"required"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	ClientID       string          `json:"clientId" validate:"required"`
	Status         *bool           `json:"status"`
}

// UpdateAccountRequest fully replaces an account's mutable fields.
type UpdateAccountRequest struct {
	AccountNumber  string          `json:"accountNumber" validate:"required"`
	AccountType    string          `json:"accountType" validate:"required"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	ClientID       string          `json:"clientId" validate:"required"`
	Status         bool            `json:"status"`
}

// PatchAccountRequest changes only the supplied fields.
type PatchAccountRequest struct {
	AccountNumber  *string          `json:"accountNumber"`
	AccountType    *string          `json:"accountType"`
	InitialBalance *decimal.Decimal `json:"initialBalance"`
	ClientID       *string          `json:"clientId"`
	Status         *bool            `json:"status"`
}

// =============================================================================
// MOVEMENT TYPES
// =============================================================================

// MovementDTO represents a movement in API responses. Value carries the
// normalized sign; balance is the running balance after the movement.
type MovementDTO struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"accountId"`
	Date         string          `json:"date"`
	MovementType string          `json:"movementType"`
	Value        decimal.Decimal `json:"value"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    string          `json:"createdAt,omitempty"`
}

// CreateMovementRequest is the request to record a movement. Value is a
// magnitude; the movement type decides the sign. Date is optional and
// defaults to the processing time.
type CreateMovementRequest struct {
	AccountID    string          `json:"accountId" validate:"required"`
	MovementType string          `json:"movementType" validate:"required"`
	Value        decimal.Decimal `json:"value"`
	Date         *time.Time      `json:"date"`
}

// UpdateMovementRequest fully replaces a movement's mutable fields.
type UpdateMovementRequest struct {
	AccountID    string          `json:"accountId" validate:"required"`
	MovementType string          `json:"movementType" validate:"required"`
	Value        decimal.Decimal `json:"value"`
	Date         time.Time       `json:"date" validate:"required"`
}

// PatchMovementRequest changes only the supplied fields.
type PatchMovementRequest struct {
	AccountID    *string          `json:"accountId"`
	MovementType *string          `json:"movementType"`
	Value        *decimal.Decimal `json:"value"`
	Date         *time.Time       `json:"date"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toClientDTO(c *bank.Client) ClientDTO {
	return ClientDTO{
		ID:             c.ID,
		Name:           c.Person.Name,
		Gender:         c.Person.Gender,
		Age:            c.Person.Age,
		Identification: c.Person.Identification,
		Address:        c.Person.Address,
		Phone:          c.Person.Phone,
		ClientID:       c.ClientID,
		Status:         c.Active,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
}

func toAccountDTO(a *ledger.Account, current decimal.Decimal) AccountDTO {
	return AccountDTO{
		ID:             a.ID,
		AccountNumber:  a.Number,
		AccountType:    a.Type,
		InitialBalance: a.InitialBalance,
		CurrentBalance: current,
		Status:         a.Active,
		ClientID:       a.ClientID,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
	}
}

func toMovementDTO(m *ledger.Movement) MovementDTO {
	return MovementDTO{
		ID:           m.ID,
		AccountID:    m.AccountID,
		Date:         m.Date.Format(time.RFC3339),
		MovementType: m.Kind,
		Value:        m.Value,
		Balance:      m.Balance,
		CreatedAt:    m.CreatedAt.Format(time.RFC3339),
	}
}
