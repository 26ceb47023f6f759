package jwt

import (
	"errors"
	"strings"
)

var (
	// ErrToken is matched by every error returned from this package.
	ErrToken = errors.New("token error")
	// ErrMisconfigured reports an unusable lifetime, secret or algorithm.
	ErrMisconfigured = errors.New("token codec misconfigured")
	// ErrMissingClaims reports absent required claims.
	ErrMissingClaims = errors.New("token is missing required claims")
	// ErrExpired reports an exp claim in the past.
	ErrExpired = errors.New("token has expired")
	// ErrMalformedIssuedAt reports an iat claim that is not an integer timestamp.
	ErrMalformedIssuedAt = errors.New("token iat claim is malformed")
	// ErrNotYetValid reports an nbf or iat claim in the future.
	ErrNotYetValid = errors.New("token is not yet valid")
	// ErrInvalid reports an unparseable token, a bad signature or an ill-typed claim.
	ErrInvalid = errors.New("token is invalid")
)

// TokenError is the single error kind produced by Issue and Verify.
//
// Reason is one of the reason sentinels declared in this package. Missing is
// populated only for [ErrMissingClaims].
type TokenError struct {
	Reason  error
	Missing []string
	Detail  string
}

// Error implements the error interface.
func (e *TokenError) Error() string {
	if e == nil || e.Reason == nil {
		return ErrToken.Error()
	}
	msg := e.Reason.Error()
	switch {
	case len(e.Missing) > 0:
		msg += ": " + strings.Join(e.Missing, ", ")
	case e.Detail != "":
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap exposes ErrToken and the reason sentinel to errors.Is.
func (e *TokenError) Unwrap() []error {
	if e == nil || e.Reason == nil {
		return []error{ErrToken}
	}
	return []error{ErrToken, e.Reason}
}

func newError(reason error, detail string) *TokenError {
	return &TokenError{Reason: reason, Detail: detail}
}

func missingClaims(names ...string) *TokenError {
	return &TokenError{Reason: ErrMissingClaims, Missing: names}
}
