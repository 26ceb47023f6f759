package jwt

import (
	"encoding/json"
	"errors"
	"math"
	"time"
)

// Registered claim names used by the codec.
const (
	ClaimSubject   = "sub"
	ClaimIssuedAt  = "iat"
	ClaimNotBefore = "nbf"
	ClaimExpiresAt = "exp"
	ClaimScopes    = "scopes"
	ClaimAudience  = "aud"
)

var errNotNumeric = errors.New("claim is not a numeric date")

// Claims is a decoded token payload.
//
// Numeric claims decoded by Verify hold json.Number values; the accessor
// methods accept json.Number, float64 and integer representations.
type Claims map[string]any

// Subject returns the sub claim when it is a string.
func (c Claims) Subject() (string, bool) {
	return c.String(ClaimSubject)
}

// String returns the named claim when it is a string.
func (c Claims) String(name string) (string, bool) {
	v, ok := c[name].(string)
	return v, ok
}

// Scopes returns the scopes claim as a string slice. Non-string members are
// skipped.
func (c Claims) Scopes() []string {
	switch v := c[ClaimScopes].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// IssuedAt returns the iat claim.
func (c Claims) IssuedAt() (time.Time, error) { return c.numericDate(ClaimIssuedAt) }

// NotBefore returns the nbf claim.
func (c Claims) NotBefore() (time.Time, error) { return c.numericDate(ClaimNotBefore) }

// ExpiresAt returns the exp claim.
func (c Claims) ExpiresAt() (time.Time, error) { return c.numericDate(ClaimExpiresAt) }

func (c Claims) numericDate(name string) (time.Time, error) {
	switch v := c[name].(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return time.Unix(i, 0), nil
		}
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, errNotNumeric
		}
		return fromFloat(f)
	case float64:
		return fromFloat(v)
	case int64:
		return time.Unix(v, 0), nil
	case int:
		return time.Unix(int64(v), 0), nil
	default:
		return time.Time{}, errNotNumeric
	}
}

func fromFloat(f float64) (time.Time, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, errNotNumeric
	}
	return time.Unix(int64(f), 0), nil
}
