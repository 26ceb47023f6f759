package password

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MinLength is the minimum number of characters a password must contain.
	MinLength = 8
	// Punctuation is the set of characters that satisfy the special-character rule.
	Punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

	upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerLetters = "abcdefghijklmnopqrstuvwxyz"
	digits       = "0123456789"
	alphabet     = upperLetters + lowerLetters + digits + Punctuation
)

// Policy reasons. Callers match on the keyword, not the full text.
const (
	ReasonTooShort      = "password is too short: it must contain at least 8 characters"
	ReasonNoUppercase   = "password must contain at least one uppercase letter"
	ReasonNoLowercase   = "password must contain at least one lowercase letter"
	ReasonNoDigit       = "password must contain at least one digit"
	ReasonNoPunctuation = "password must contain at least one special (punctuation) character"
)

// ValidatePassword returns a *PolicyError for the first rule password breaks.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinLength {
		return policyError(ReasonTooShort)
	}

	var upper, lower, digit, punct bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(Punctuation, r):
			punct = true
		}
	}

	switch {
	case !upper:
		return policyError(ReasonNoUppercase)
	case !lower:
		return policyError(ReasonNoLowercase)
	case !digit:
		return policyError(ReasonNoDigit)
	case !punct:
		return policyError(ReasonNoPunctuation)
	}
	return nil
}

// IsValidPassword reports whether password satisfies every policy rule.
func IsValidPassword(password string) bool {
	return ValidatePassword(password) == nil
}

// GeneratePassword returns a random password of exactly length characters
// that satisfies every policy rule.
func GeneratePassword(length int) (string, error) {
	if length < MinLength {
		return "", policyError(ReasonTooShort)
	}

	out := make([]byte, 0, length)
	for _, class := range []string{upperLetters, lowerLetters, digits, Punctuation} {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < length {
		c, err := randomChar(alphabet)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	// Fisher-Yates so the guaranteed classes do not sit at fixed positions.
	for i := len(out) - 1; i > 0; i-- {
		j, err := randomIndex(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

func randomChar(set string) (byte, error) {
	i, err := randomIndex(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
