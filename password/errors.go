package password

import "errors"

var (
	// ErrPolicy is matched by every password policy violation.
	ErrPolicy = errors.New("password policy violation")
	// ErrUnknownHash indicates no configured hasher recognises a stored hash.
	ErrUnknownHash = errors.New("unknown password hash format")
	// ErrEmptyPassword indicates an empty password was passed to a hasher.
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrPasswordTooLong indicates the password exceeds the hasher byte limit.
	ErrPasswordTooLong = errors.New("password exceeds maximum length")
)

// PolicyError reports the first policy rule a password failed.
type PolicyError struct {
	Reason string
}

// Error implements the error interface.
func (e *PolicyError) Error() string {
	return e.Reason
}

// Unwrap lets errors.Is match ErrPolicy.
func (e *PolicyError) Unwrap() error {
	return ErrPolicy
}

func policyError(reason string) error {
	return &PolicyError{Reason: reason}
}
