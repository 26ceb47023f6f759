package accountcore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MrEthical07/accountcore/jwt"
)

const (
	// VerifyAudience is the aud claim carried by verification tokens.
	VerifyAudience = "accountcore:verify"

	claimEmail = "email"
)

// VerificationTokens are the two tokens issued by RequestVerify.
type VerificationTokens struct {
	AccessToken  string
	RefreshToken string
}

// VerifyOption overrides a token setting for a single call.
type VerifyOption func(*verifyOptions)

type verifyOptions struct {
	algorithm      string
	secret         []byte
	scopesRequired bool
	scopes         []string
	scopesSet      bool
}

// WithAlgorithm overrides the signing algorithm.
func WithAlgorithm(algorithm string) VerifyOption {
	return func(o *verifyOptions) { o.algorithm = algorithm }
}

// WithSecret overrides the signing secret.
func WithSecret(secret []byte) VerifyOption {
	return func(o *verifyOptions) { o.secret = secret }
}

// WithScopesRequired overrides whether a scopes claim is mandatory.
func WithScopesRequired(required bool) VerifyOption {
	return func(o *verifyOptions) { o.scopesRequired = required }
}

// WithScopes supplies the scopes granted to the bearer. An empty list counts
// as supplied.
func WithScopes(scopes ...string) VerifyOption {
	return func(o *verifyOptions) {
		o.scopes = append([]string{}, scopes...)
		o.scopesSet = true
	}
}

func (m *Manager[U]) verifyOptions(opts []VerifyOption) verifyOptions {
	o := verifyOptions{
		algorithm:      m.config.JWT.Algorithm,
		secret:         []byte(m.config.JWT.SecretKey),
		scopesRequired: m.config.JWT.ScopesRequired,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func (m *Manager[U]) verifyCodec(o verifyOptions) (*jwt.Codec, error) {
	return jwt.NewCodec(jwt.Config{
		Algorithm:      o.algorithm,
		Secret:         o.secret,
		ScopesRequired: o.scopesRequired,
		Now:            m.now,
	})
}

// RequestVerify describes the requestverify operation and its observable behavior.
//
// RequestVerify issues an access token and a refresh token for an active,
// unverified user and hands them to Hooks.OnAfterRequestVerify. The user is
// not modified. RequestVerify may return ErrUserInactive, ErrUserAlreadyVerified,
// or a *TokenError when scopes are required but not supplied or the codec
// settings are unusable.
func (m *Manager[U]) RequestVerify(ctx context.Context, user U, opts ...VerifyOption) (VerificationTokens, error) {
	if !m.ready() {
		return VerificationTokens{}, ErrManagerNotReady
	}
	userID := user.GetID().String()

	if !user.IsActive() {
		m.emitAudit(ctx, AuditVerifyRequest, false, userID, ErrUserInactive, nil)
		return VerificationTokens{}, ErrUserInactive
	}
	if user.IsVerified() {
		m.emitAudit(ctx, AuditVerifyRequest, false, userID, ErrUserAlreadyVerified, nil)
		return VerificationTokens{}, ErrUserAlreadyVerified
	}

	o := m.verifyOptions(opts)
	data := map[string]any{
		jwt.ClaimSubject:  userID,
		jwt.ClaimAudience: VerifyAudience,
		claimEmail:        user.GetEmail(),
	}
	if o.scopesRequired {
		if !o.scopesSet {
			return VerificationTokens{}, &jwt.TokenError{Reason: jwt.ErrMissingClaims, Missing: []string{jwt.ClaimScopes}}
		}
		data[jwt.ClaimScopes] = o.scopes
	}

	codec, err := m.verifyCodec(o)
	if err != nil {
		return VerificationTokens{}, err
	}
	access, err := codec.Issue(data, m.config.JWT.AccessTokenLifetime())
	if err != nil {
		return VerificationTokens{}, err
	}
	refresh, err := codec.Issue(data, m.config.JWT.RefreshTokenLifetime())
	if err != nil {
		return VerificationTokens{}, err
	}
	tokens := VerificationTokens{AccessToken: access, RefreshToken: refresh}

	m.metrics.Inc(MetricVerifyRequested)
	m.emitAudit(ctx, AuditVerifyRequest, true, userID, nil, nil)
	m.logger.DebugContext(ctx, "verification tokens issued", slog.String("user_id", userID))

	if err := m.hooks.OnAfterRequestVerify(ctx, user, tokens); err != nil {
		return VerificationTokens{}, fmt.Errorf("after request verify hook: %w", err)
	}
	return tokens, nil
}

// Verify describes the verify operation and its observable behavior.
//
// Verify consumes a token produced by RequestVerify and marks its user
// verified. Options must match those used at issuance. Verify may return
// ErrInvalidVerifyToken (joined with the underlying *TokenError when decoding
// failed), ErrUserInactive, ErrUserAlreadyVerified, or a wrapped store error.
func (m *Manager[U]) Verify(ctx context.Context, token string, opts ...VerifyOption) (U, error) {
	var zero U
	if !m.ready() {
		return zero, ErrManagerNotReady
	}

	codec, err := m.verifyCodec(m.verifyOptions(opts))
	if err != nil {
		return zero, err
	}
	claims, err := codec.Verify(token)
	if err != nil {
		return zero, m.verifyFailed(ctx, "", fmt.Errorf("%w: %w", ErrInvalidVerifyToken, err))
	}
	if aud, _ := claims.String(jwt.ClaimAudience); aud != VerifyAudience {
		return zero, m.verifyFailed(ctx, "", ErrInvalidVerifyToken)
	}
	sub, _ := claims.Subject()
	email, ok := claims.String(claimEmail)
	if !ok {
		return zero, m.verifyFailed(ctx, sub, ErrInvalidVerifyToken)
	}
	id, err := m.ParseID(sub)
	if err != nil {
		return zero, m.verifyFailed(ctx, sub, ErrInvalidVerifyToken)
	}

	user, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			return zero, m.verifyFailed(ctx, sub, ErrInvalidVerifyToken)
		}
		return zero, fmt.Errorf("get user: %w", err)
	}
	if !strings.EqualFold(user.GetEmail(), email) {
		return zero, m.verifyFailed(ctx, sub, ErrInvalidVerifyToken)
	}
	if !user.IsActive() {
		return zero, m.verifyFailed(ctx, sub, ErrUserInactive)
	}
	if user.IsVerified() {
		return zero, m.verifyFailed(ctx, sub, ErrUserAlreadyVerified)
	}

	verified := true
	updated, err := m.store.Update(ctx, user, UpdateUserInput{IsVerified: &verified})
	if err != nil {
		return zero, fmt.Errorf("mark user verified: %w", err)
	}

	m.metrics.Inc(MetricVerifyConfirmed)
	m.emitAudit(ctx, AuditVerifyConfirm, true, sub, nil, nil)

	if err := m.hooks.OnAfterVerify(ctx, updated); err != nil {
		return updated, fmt.Errorf("after verify hook: %w", err)
	}
	return updated, nil
}

func (m *Manager[U]) verifyFailed(ctx context.Context, userID string, err error) error {
	m.metrics.Inc(MetricVerifyFailure)
	m.emitAudit(ctx, AuditVerifyConfirm, false, userID, err, nil)
	return err
}
