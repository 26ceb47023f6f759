package jwt

import (
	"errors"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret-test-secret-test-secret")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func signRaw(t *testing.T, method gjwt.SigningMethod, claims gjwt.MapClaims, secret []byte) string {
	t.Helper()
	token, err := gjwt.NewWithClaims(method, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign raw token: %v", err)
	}
	return token
}

func requireReason(t *testing.T, err, reason error) *TokenError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", reason)
	}
	if !errors.Is(err, ErrToken) {
		t.Fatalf("expected ErrToken kind, got %v", err)
	}
	if !errors.Is(err, reason) {
		t.Fatalf("expected reason %v, got %v", reason, err)
	}
	var tokenErr *TokenError
	if !errors.As(err, &tokenErr) {
		t.Fatalf("expected *TokenError, got %T", err)
	}
	return tokenErr
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	data := map[string]any{"sub": "user-1", "scopes": []string{"read", "write"}}

	token, err := Issue(data, 15*time.Minute, AlgorithmHS256, testSecret, true)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := Verify(token, testSecret, nil, true)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if sub, _ := claims.Subject(); sub != "user-1" {
		t.Fatalf("expected sub user-1, got %q", sub)
	}
	scopes := claims.Scopes()
	if len(scopes) != 2 || scopes[0] != "read" || scopes[1] != "write" {
		t.Fatalf("unexpected scopes %v", scopes)
	}

	iat, _ := claims.IssuedAt()
	nbf, _ := claims.NotBefore()
	exp, _ := claims.ExpiresAt()
	if !nbf.Before(iat) || !iat.Before(exp) {
		t.Fatalf("expected nbf < iat < exp, got %v %v %v", nbf, iat, exp)
	}
	if iat.Sub(nbf) != NotBeforeSkew {
		t.Fatalf("expected iat == nbf + %v, got %v", NotBeforeSkew, iat.Sub(nbf))
	}
	if exp.Sub(iat) != 15*time.Minute {
		t.Fatalf("expected lifetime of 15m, got %v", exp.Sub(iat))
	}
}

func TestIssueSubSecondLifetimeExpiresAfterIssue(t *testing.T) {
	now := time.Unix(1700000000, 900*int64(time.Millisecond))

	token, err := issue(now, map[string]any{"sub": "u"}, 50*time.Millisecond, AlgorithmHS256, testSecret, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := verify(now, token, testSecret, nil, false)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	iat, _ := claims.IssuedAt()
	exp, _ := claims.ExpiresAt()
	if !iat.Before(exp) {
		t.Fatalf("expected iat < exp, got iat=%v exp=%v", iat.Unix(), exp.Unix())
	}
	if exp.Sub(iat) != time.Second {
		t.Fatalf("expected lifetime rounded up to 1s, got %v", exp.Sub(iat))
	}
}

func TestIssueDoesNotMutateInput(t *testing.T) {
	data := map[string]any{"sub": "user-1"}
	if _, err := Issue(data, time.Minute, AlgorithmHS256, testSecret, false); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(data) != 1 {
		t.Fatalf("expected input map untouched, got %v", data)
	}
}

func TestIssueRejectsInvalidInput(t *testing.T) {
	valid := map[string]any{"sub": "u", "scopes": []string{"a"}}
	tests := []struct {
		name     string
		data     map[string]any
		lifetime time.Duration
		alg      string
		secret   []byte
		scopes   bool
		reason   error
	}{
		{"zero lifetime", valid, 0, AlgorithmHS256, testSecret, true, ErrMisconfigured},
		{"negative lifetime", valid, -time.Second, AlgorithmHS256, testSecret, true, ErrMisconfigured},
		{"missing secret", valid, time.Minute, AlgorithmHS256, nil, true, ErrMisconfigured},
		{"unsupported algorithm", valid, time.Minute, "RS256", testSecret, true, ErrMisconfigured},
		{"missing sub", map[string]any{"scopes": []string{"a"}}, time.Minute, AlgorithmHS256, testSecret, true, ErrMissingClaims},
		{"missing scopes", map[string]any{"sub": "u"}, time.Minute, AlgorithmHS256, testSecret, true, ErrMissingClaims},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := Issue(tt.data, tt.lifetime, tt.alg, tt.secret, tt.scopes)
			requireReason(t, err, tt.reason)
			if token != "" {
				t.Fatalf("expected no token, got %q", token)
			}
		})
	}
}

func TestIssueWithoutScopesWhenNotRequired(t *testing.T) {
	token, err := Issue(map[string]any{"sub": "u"}, time.Minute, AlgorithmHS256, testSecret, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := Verify(token, testSecret, nil, false); err != nil {
		t.Fatalf("verify: %v", err)
	}
	_, err = Verify(token, testSecret, nil, true)
	tokenErr := requireReason(t, err, ErrMissingClaims)
	if len(tokenErr.Missing) != 1 || tokenErr.Missing[0] != ClaimScopes {
		t.Fatalf("expected missing scopes, got %v", tokenErr.Missing)
	}
}

func TestVerifyExpired(t *testing.T) {
	now := time.Now()
	issued, err := issue(now.Add(-time.Hour), map[string]any{"sub": "u"}, time.Minute, AlgorithmHS256, testSecret, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, err = verify(now, issued, testSecret, nil, false)
	requireReason(t, err, ErrExpired)
}

func TestVerifyExpiryHonoursLeeway(t *testing.T) {
	now := time.Now()
	token := signRaw(t, gjwt.SigningMethodHS256, gjwt.MapClaims{
		"sub": "u",
		"iat": now.Add(-time.Minute).Unix(),
		"nbf": now.Add(-time.Minute).Unix(),
		"exp": now.Add(-2 * time.Second).Unix(),
	}, testSecret)

	if _, err := verify(now, token, testSecret, nil, false); err != nil {
		t.Fatalf("expected exp within leeway to pass, got %v", err)
	}
}

func TestVerifyNotYetValid(t *testing.T) {
	now := time.Now()
	token := signRaw(t, gjwt.SigningMethodHS256, gjwt.MapClaims{
		"sub": "u",
		"iat": now.Unix(),
		"nbf": now.Add(60 * time.Second).Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}, testSecret)

	_, err := verify(now, token, testSecret, nil, false)
	requireReason(t, err, ErrNotYetValid)
}

func TestVerifyNotBeforeWithinLeeway(t *testing.T) {
	now := time.Now()
	token := signRaw(t, gjwt.SigningMethodHS256, gjwt.MapClaims{
		"sub": "u",
		"iat": now.Unix(),
		"nbf": now.Add(3 * time.Second).Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}, testSecret)

	if _, err := verify(now, token, testSecret, nil, false); err != nil {
		t.Fatalf("expected nbf within leeway to pass, got %v", err)
	}
}

func TestVerifyMissingClaimsNamesEveryClaim(t *testing.T) {
	token := signRaw(t, gjwt.SigningMethodHS256, gjwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	_, err := Verify(token, testSecret, nil, true)
	tokenErr := requireReason(t, err, ErrMissingClaims)
	want := []string{ClaimSubject, ClaimIssuedAt, ClaimNotBefore, ClaimScopes}
	if len(tokenErr.Missing) != len(want) {
		t.Fatalf("expected missing %v, got %v", want, tokenErr.Missing)
	}
	for i := range want {
		if tokenErr.Missing[i] != want[i] {
			t.Fatalf("expected missing %v, got %v", want, tokenErr.Missing)
		}
	}
}

func TestVerifyMalformedIssuedAt(t *testing.T) {
	now := time.Now()
	token := signRaw(t, gjwt.SigningMethodHS256, gjwt.MapClaims{
		"sub": "u",
		"iat": "yesterday",
		"nbf": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}, testSecret)

	_, err := Verify(token, testSecret, nil, false)
	requireReason(t, err, ErrMalformedIssuedAt)
}

func TestVerifyRejectsBadSignatureAndAlgorithm(t *testing.T) {
	token, err := Issue(map[string]any{"sub": "u"}, time.Minute, AlgorithmHS256, testSecret, false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, err = Verify(token, []byte("another-secret-another-secret-xx"), nil, false)
	requireReason(t, err, ErrInvalid)

	now := time.Now()
	hs384 := signRaw(t, gjwt.SigningMethodHS384, gjwt.MapClaims{
		"sub": "u",
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}, testSecret)
	_, err = Verify(hs384, testSecret, []string{AlgorithmHS256}, false)
	requireReason(t, err, ErrInvalid)

	_, err = Verify("not.a.token", testSecret, nil, false)
	requireReason(t, err, ErrInvalid)
}

func TestVerifyRequiresSecret(t *testing.T) {
	_, err := Verify("anything", nil, nil, false)
	requireReason(t, err, ErrMisconfigured)
}

func TestVerifyRejectsNonStringSubject(t *testing.T) {
	now := time.Now()
	token := signRaw(t, gjwt.SigningMethodHS256, gjwt.MapClaims{
		"sub": 42,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}, testSecret)

	_, err := Verify(token, testSecret, nil, false)
	requireReason(t, err, ErrInvalid)
}

func TestCodecUsesConfiguredClock(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	codec, err := NewCodec(Config{Secret: testSecret, ScopesRequired: true, Now: fixedClock(start)})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	token, err := codec.Issue(map[string]any{"sub": "u", "scopes": []string{}}, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if iat, _ := claims.IssuedAt(); !iat.Equal(start) {
		t.Fatalf("expected iat %v, got %v", start, iat)
	}

	later, err := NewCodec(Config{Secret: testSecret, ScopesRequired: true, Now: fixedClock(start.Add(2 * time.Minute))})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	_, err = later.Verify(token)
	requireReason(t, err, ErrExpired)
}

func TestNewCodecValidatesConfig(t *testing.T) {
	if _, err := NewCodec(Config{}); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected missing secret to be rejected, got %v", err)
	}
	if _, err := NewCodec(Config{Algorithm: "none", Secret: testSecret}); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected unsupported algorithm to be rejected, got %v", err)
	}
	if _, err := NewCodec(Config{Secret: testSecret, Algorithms: []string{"HS512"}}); !errors.Is(err, ErrMisconfigured) {
		t.Fatalf("expected unsupported verify algorithm to be rejected, got %v", err)
	}
	codec, err := NewCodec(Config{Secret: testSecret})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	if codec.ScopesRequired() {
		t.Fatal("expected scopes to be optional by default")
	}
}
