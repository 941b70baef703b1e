package bank

import "errors"

var (
	// ErrClientNotFound is returned when a referenced client doesn't exist.
	ErrClientNotFound = errors.New("client not found")

	// ErrDuplicateClient is returned when the client id or identification
	// is already in use.
	ErrDuplicateClient = errors.New("client already exists")

	// ErrDuplicateAccount is returned when the account number is already in use.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrInvalidPassword is returned when a password is missing or outside
	// the allowed length.
	ErrInvalidPassword = errors.New("password must be between 4 and 255 characters")
)

// IsNotFound reports whether err indicates a missing client.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrClientNotFound)
}

// IsDuplicate reports whether err indicates a uniqueness violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateClient) || errors.Is(err, ErrDuplicateAccount)
}
