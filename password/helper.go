package password

import (
	"errors"
	"fmt"
)

// Helper combines the password policy with a primary hasher and an ordered
// set of legacy hashers. It holds no mutable state and is safe for concurrent use.
type Helper struct {
	primary Hasher
	legacy  []Hasher
}

// NewHelper returns a Helper that hashes with primary and additionally
// accepts hashes produced by any of legacy, tried in order.
func NewHelper(primary Hasher, legacy ...Hasher) (*Helper, error) {
	if primary == nil {
		return nil, errors.New("password helper requires a primary hasher")
	}
	h := &Helper{primary: primary}
	for i, l := range legacy {
		if l == nil {
			return nil, fmt.Errorf("legacy hasher %d is nil", i)
		}
		h.legacy = append(h.legacy, l)
	}
	return h, nil
}

// NewDefaultHelper returns a Helper with argon2id as primary and bcrypt as
// the only legacy hasher, both at their default costs.
func NewDefaultHelper() (*Helper, error) {
	primary, err := NewArgon2(DefaultArgon2Config())
	if err != nil {
		return nil, err
	}
	legacy, err := NewBcrypt(DefaultBcryptCost)
	if err != nil {
		return nil, err
	}
	return NewHelper(primary, legacy)
}

// DefaultBcryptCost is the bcrypt cost used by NewDefaultHelper.
const DefaultBcryptCost = 12

// ValidatePassword applies the package policy.
func (h *Helper) ValidatePassword(password string) error { return ValidatePassword(password) }

// IsValidPassword applies the package policy.
func (h *Helper) IsValidPassword(password string) bool { return IsValidPassword(password) }

// GeneratePassword returns a random policy-compliant password.
func (h *Helper) GeneratePassword(length int) (string, error) { return GeneratePassword(length) }

// HashPassword hashes password with the primary hasher.
func (h *Helper) HashPassword(password string) (string, error) {
	return h.primary.Hash(password)
}

// Verify reports whether password matches encoded using whichever configured
// hasher recognises it. A mismatch returns false and a nil error, as does a
// password too long to have been hashed. An unrecognised hash returns
// ErrUnknownHash.
func (h *Helper) Verify(password, encoded string) (bool, error) {
	hasher, _, err := h.identify(encoded)
	if err != nil {
		return false, err
	}
	ok, err := hasher.Verify(password, encoded)
	if errors.Is(err, ErrPasswordTooLong) {
		return false, nil
	}
	return ok, err
}

// VerifyAndUpdate verifies password against encoded and, when it matches a
// hash that is not current for the primary hasher, returns a fresh primary
// hash the caller should persist. newHash is empty when no update is needed.
func (h *Helper) VerifyAndUpdate(password, encoded string) (valid bool, newHash string, err error) {
	hasher, primary, err := h.identify(encoded)
	if err != nil {
		return false, "", err
	}
	ok, err := hasher.Verify(password, encoded)
	if errors.Is(err, ErrPasswordTooLong) {
		return false, "", nil
	}
	if err != nil || !ok {
		return false, "", err
	}

	if primary {
		upgrader, canUpgrade := hasher.(Upgrader)
		if !canUpgrade {
			return true, "", nil
		}
		needs, err := upgrader.NeedsUpgrade(encoded)
		if err != nil {
			return true, "", err
		}
		if !needs {
			return true, "", nil
		}
	}

	newHash, err = h.primary.Hash(password)
	if err != nil {
		return true, "", err
	}
	return true, newHash, nil
}

func (h *Helper) identify(encoded string) (Hasher, bool, error) {
	if h.primary.Identify(encoded) {
		return h.primary, true, nil
	}
	for _, l := range h.legacy {
		if l.Identify(encoded) {
			return l, false, nil
		}
	}
	return nil, false, ErrUnknownHash
}
