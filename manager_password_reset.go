package accountcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/accountcore/internal"
	"github.com/MrEthical07/accountcore/jwt"
)

const (
	// ResetPasswordAudience is the aud claim carried by reset tokens.
	ResetPasswordAudience = "accountcore:reset"

	claimPasswordFingerprint = "pwd_fgpt"
)

// ForgotPassword describes the forgotpassword operation and its observable behavior.
//
// ForgotPassword issues a single-use reset token bound to the current password
// hash and hands it to Hooks.OnAfterForgotPassword. It returns ErrUserInactive
// for an inactive user.
func (m *Manager[U]) ForgotPassword(ctx context.Context, user U) (string, error) {
	if !m.ready() {
		return "", ErrManagerNotReady
	}
	userID := user.GetID().String()
	if !user.IsActive() {
		m.emitAudit(ctx, AuditPasswordResetRequest, false, userID, ErrUserInactive, nil)
		return "", ErrUserInactive
	}

	token, err := m.resetCodec.Issue(map[string]any{
		jwt.ClaimSubject:         userID,
		jwt.ClaimAudience:        ResetPasswordAudience,
		claimPasswordFingerprint: internal.Fingerprint(user.GetHashedPassword()),
	}, m.config.JWT.ResetTokenLifetime())
	if err != nil {
		return "", err
	}

	m.metrics.Inc(MetricPasswordResetRequested)
	m.emitAudit(ctx, AuditPasswordResetRequest, true, userID, nil, nil)

	if err := m.hooks.OnAfterForgotPassword(ctx, user, token); err != nil {
		return "", fmt.Errorf("after forgot password hook: %w", err)
	}
	return token, nil
}

// ResetPassword describes the resetpassword operation and its observable behavior.
//
// ResetPassword validates a token from ForgotPassword, applies the password
// policy to newPassword and stores its hash. A token stops working once the
// password it was bound to changes. ResetPassword may return
// ErrInvalidResetPasswordToken, ErrUserInactive, a password policy error, or a
// wrapped store error.
func (m *Manager[U]) ResetPassword(ctx context.Context, token, newPassword string) (U, error) {
	var zero U
	if !m.ready() {
		return zero, ErrManagerNotReady
	}

	claims, err := m.resetCodec.Verify(token)
	if err != nil {
		return zero, m.resetFailed(ctx, "", fmt.Errorf("%w: %w", ErrInvalidResetPasswordToken, err))
	}
	if aud, _ := claims.String(jwt.ClaimAudience); aud != ResetPasswordAudience {
		return zero, m.resetFailed(ctx, "", ErrInvalidResetPasswordToken)
	}
	sub, _ := claims.Subject()
	fingerprint, ok := claims.String(claimPasswordFingerprint)
	if !ok {
		return zero, m.resetFailed(ctx, sub, ErrInvalidResetPasswordToken)
	}
	id, err := m.ParseID(sub)
	if err != nil {
		return zero, m.resetFailed(ctx, sub, ErrInvalidResetPasswordToken)
	}

	user, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			return zero, m.resetFailed(ctx, sub, ErrInvalidResetPasswordToken)
		}
		return zero, fmt.Errorf("get user: %w", err)
	}
	if !internal.FingerprintMatches(user.GetHashedPassword(), fingerprint) {
		return zero, m.resetFailed(ctx, sub, ErrInvalidResetPasswordToken)
	}
	if !user.IsActive() {
		return zero, m.resetFailed(ctx, sub, ErrUserInactive)
	}
	if err := m.passwords.ValidatePassword(newPassword); err != nil {
		return zero, m.resetFailed(ctx, sub, err)
	}

	hash, err := m.hashPassword(newPassword)
	if err != nil {
		return zero, err
	}
	updated, err := m.store.Update(ctx, user, UpdateUserInput{HashedPassword: &hash})
	if err != nil {
		return zero, fmt.Errorf("store new password hash: %w", err)
	}

	m.metrics.Inc(MetricPasswordResetConfirmed)
	m.emitAudit(ctx, AuditPasswordResetConfirm, true, sub, nil, nil)

	if err := m.hooks.OnAfterResetPassword(ctx, updated); err != nil {
		return updated, fmt.Errorf("after reset password hook: %w", err)
	}
	return updated, nil
}

func (m *Manager[U]) resetFailed(ctx context.Context, userID string, err error) error {
	m.metrics.Inc(MetricPasswordResetFailure)
	m.emitAudit(ctx, AuditPasswordResetConfirm, false, userID, err, nil)
	return err
}
