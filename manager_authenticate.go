package accountcore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Authenticate describes the authenticate operation and its observable behavior.
//
// Authenticate checks password against the stored hash of the user registered
// under email. When the hash was produced by a legacy hasher (or weaker
// parameters) and Config.Password.UpgradeOnLogin is set, the fresh hash is
// persisted before returning. Authenticate returns ErrInvalidCredentials for an
// unknown email or a wrong password. Account status is not checked here.
func (m *Manager[U]) Authenticate(ctx context.Context, email, plain string) (U, error) {
	var zero U
	if !m.ready() {
		return zero, ErrManagerNotReady
	}

	user, err := m.store.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrStoreNotFound) {
			return zero, fmt.Errorf("get user by email: %w", err)
		}
		// Unknown emails still pay for one hash comparison.
		if _, verr := m.passwords.Verify(plain, m.decoyHash); verr != nil {
			return zero, fmt.Errorf("verify password: %w", verr)
		}
		m.metrics.Inc(MetricAuthenticateFailure)
		m.emitAudit(ctx, AuditAuthenticate, false, "", ErrInvalidCredentials, nil)
		return zero, ErrInvalidCredentials
	}
	userID := user.GetID().String()

	valid, newHash, err := m.passwords.VerifyAndUpdate(plain, user.GetHashedPassword())
	if err != nil {
		return zero, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		m.metrics.Inc(MetricAuthenticateFailure)
		m.emitAudit(ctx, AuditAuthenticate, false, userID, ErrInvalidCredentials, nil)
		return zero, ErrInvalidCredentials
	}

	if newHash != "" && m.config.Password.UpgradeOnLogin {
		updated, err := m.store.Update(ctx, user, UpdateUserInput{HashedPassword: &newHash})
		if err != nil {
			m.logger.ErrorContext(ctx, "password hash upgrade failed",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
			return zero, fmt.Errorf("persist upgraded password hash: %w", err)
		}
		user = updated
		m.metrics.Inc(MetricPasswordRehash)
		m.emitAudit(ctx, AuditPasswordRehash, true, userID, nil, nil)
		m.logger.InfoContext(ctx, "password hash upgraded", slog.String("user_id", userID))
	}

	m.metrics.Inc(MetricAuthenticateSuccess)
	m.emitAudit(ctx, AuditAuthenticate, true, userID, nil, nil)
	return user, nil
}
