package jwt

import (
	"fmt"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

const (
	// AlgorithmHS256 is the HMAC-SHA256 algorithm identifier.
	AlgorithmHS256 = "HS256"
	// DefaultAlgorithm is used when no algorithm is configured.
	DefaultAlgorithm = AlgorithmHS256

	// NotBeforeSkew backdates nbf relative to iat on every issued token.
	NotBeforeSkew = 10 * time.Second
	// Leeway is the tolerated clock skew applied during verification.
	Leeway = 5 * time.Second
)

var supportedAlgorithms = map[string]gjwt.SigningMethod{
	AlgorithmHS256: gjwt.SigningMethodHS256,
}

// Supported reports whether algorithm may be used to issue or verify tokens.
func Supported(algorithm string) bool {
	_, ok := supportedAlgorithms[algorithm]
	return ok
}

// Config defines a public type used by accountcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// Algorithm signs issued tokens. Empty means DefaultAlgorithm.
	Algorithm string
	Secret    []byte
	// Algorithms lists the algorithms accepted by Verify. Empty means Algorithm only.
	Algorithms     []string
	ScopesRequired bool
	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// Codec defines a public type used by accountcore APIs.
//
// Codec holds only immutable configuration and is safe for concurrent use.
type Codec struct {
	config Config
}

// NewCodec describes the newcodec operation and its observable behavior.
//
// NewCodec may return an error when the secret is empty or an algorithm is unsupported.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Algorithm == "" {
		cfg.Algorithm = DefaultAlgorithm
	}
	if !Supported(cfg.Algorithm) {
		return nil, newError(ErrMisconfigured, fmt.Sprintf("unsupported algorithm %q", cfg.Algorithm))
	}
	if len(cfg.Secret) == 0 {
		return nil, newError(ErrMisconfigured, "secret key must be provided")
	}
	if len(cfg.Algorithms) == 0 {
		cfg.Algorithms = []string{cfg.Algorithm}
	}
	for _, alg := range cfg.Algorithms {
		if !Supported(alg) {
			return nil, newError(ErrMisconfigured, fmt.Sprintf("unsupported algorithm %q", alg))
		}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.Secret = append([]byte(nil), cfg.Secret...)
	cfg.Algorithms = append([]string(nil), cfg.Algorithms...)
	return &Codec{config: cfg}, nil
}

// ScopesRequired reports whether this codec demands a scopes claim.
func (c *Codec) ScopesRequired() bool { return c.config.ScopesRequired }

// Issue describes the issue operation and its observable behavior.
//
// Issue may return an error when lifetime is not positive or data lacks a required claim.
// Issue does not mutate shared global state and can be used concurrently.
func (c *Codec) Issue(data map[string]any, lifetime time.Duration) (string, error) {
	return issue(c.config.Now(), data, lifetime, c.config.Algorithm, c.config.Secret, c.config.ScopesRequired)
}

// Verify describes the verify operation and its observable behavior.
//
// Verify may return an error when the token is malformed, badly signed, outside its time window, or missing claims.
// Verify does not mutate shared global state and can be used concurrently.
func (c *Codec) Verify(token string) (Claims, error) {
	return verify(c.config.Now(), token, c.config.Secret, c.config.Algorithms, c.config.ScopesRequired)
}

// Issue signs data with a fresh time window of the given lifetime.
//
// data must contain sub, and scopes when scopesRequired is set. data itself is
// not modified.
func Issue(data map[string]any, lifetime time.Duration, algorithm string, secret []byte, scopesRequired bool) (string, error) {
	return issue(time.Now(), data, lifetime, algorithm, secret, scopesRequired)
}

// Verify checks the signature against algorithms and validates the claim set.
// An empty algorithms slice accepts DefaultAlgorithm only.
func Verify(token string, secret []byte, algorithms []string, scopesRequired bool) (Claims, error) {
	return verify(time.Now(), token, secret, algorithms, scopesRequired)
}

func issue(now time.Time, data map[string]any, lifetime time.Duration, algorithm string, secret []byte, scopesRequired bool) (string, error) {
	if lifetime <= 0 {
		return "", newError(ErrMisconfigured, "lifetime must be greater than zero")
	}
	if len(secret) == 0 {
		return "", newError(ErrMisconfigured, "secret key must be provided for encoding")
	}
	method, ok := supportedAlgorithms[algorithm]
	if !ok {
		return "", newError(ErrMisconfigured, fmt.Sprintf("unsupported algorithm %q", algorithm))
	}
	if _, ok := data[ClaimSubject]; !ok {
		return "", missingClaims(ClaimSubject)
	}
	if _, ok := data[ClaimScopes]; scopesRequired && !ok {
		return "", missingClaims(ClaimScopes)
	}

	payload := make(gjwt.MapClaims, len(data)+3)
	for k, v := range data {
		payload[k] = v
	}
	payload[ClaimIssuedAt] = now.Unix()
	payload[ClaimExpiresAt] = now.Unix() + wholeSeconds(lifetime)
	payload[ClaimNotBefore] = now.Add(-NotBeforeSkew).Unix()

	signed, err := gjwt.NewWithClaims(method, payload).SignedString(secret)
	if err != nil {
		return "", newError(ErrInvalid, "token could not be signed")
	}
	return signed, nil
}

// wholeSeconds rounds d up to whole seconds so exp always lands after iat.
func wholeSeconds(d time.Duration) int64 {
	secs := int64(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}

func requiredClaims(scopesRequired bool) []string {
	required := []string{ClaimExpiresAt, ClaimSubject, ClaimIssuedAt, ClaimNotBefore}
	if scopesRequired {
		required = append(required, ClaimScopes)
	}
	return required
}

func verify(now time.Time, token string, secret []byte, algorithms []string, scopesRequired bool) (Claims, error) {
	if len(secret) == 0 {
		return nil, newError(ErrMisconfigured, "secret key must be provided for decoding")
	}
	if len(algorithms) == 0 {
		algorithms = []string{DefaultAlgorithm}
	}

	// Time-based claims are checked below so the order and reasons stay fixed.
	parser := gjwt.NewParser(
		gjwt.WithValidMethods(algorithms),
		gjwt.WithoutClaimsValidation(),
		gjwt.WithJSONNumber(),
	)
	mapClaims := gjwt.MapClaims{}
	_, err := parser.ParseWithClaims(token, mapClaims, func(t *gjwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*gjwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		return nil, newError(ErrInvalid, "token could not be decoded")
	}
	claims := Claims(mapClaims)

	var missing []string
	for _, name := range requiredClaims(scopesRequired) {
		if _, ok := claims[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, missingClaims(missing...)
	}

	exp, err := claims.ExpiresAt()
	if err != nil {
		return nil, newError(ErrInvalid, "exp claim must be an integer")
	}
	if !exp.Add(Leeway).After(now) {
		return nil, newError(ErrExpired, "")
	}

	iat, err := claims.IssuedAt()
	if err != nil {
		return nil, newError(ErrMalformedIssuedAt, "iat claim must be an integer")
	}
	if iat.After(now.Add(Leeway)) {
		return nil, newError(ErrNotYetValid, "iat is in the future")
	}

	nbf, err := claims.NotBefore()
	if err != nil {
		return nil, newError(ErrInvalid, "nbf claim must be an integer")
	}
	if nbf.After(now.Add(Leeway)) {
		return nil, newError(ErrNotYetValid, "nbf is in the future")
	}

	if _, ok := claims.Subject(); !ok {
		return nil, newError(ErrInvalid, "sub claim must be a string")
	}
	return claims, nil
}
