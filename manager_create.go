package accountcore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Create describes the create operation and its observable behavior.
//
// Create validates the password against the policy, rejects an email that is
// already registered, strips privileged flags when safe is set, and stores the
// hashed password. A password policy failure is returned unchanged. A store
// uniqueness violation surfaces as ErrUserAlreadyExists. When the
// OnAfterRegister hook fails the created user is returned alongside the error.
func (m *Manager[U]) Create(ctx context.Context, req UserCreate, safe bool) (U, error) {
	var zero U
	if !m.ready() {
		return zero, ErrManagerNotReady
	}

	if err := m.passwords.ValidatePassword(req.Password); err != nil {
		m.metrics.Inc(MetricUserCreateFailure)
		m.emitAudit(ctx, AuditUserCreateFailure, false, "", err, func() map[string]string {
			return map[string]string{"reason": "password_policy"}
		})
		return zero, err
	}

	_, err := m.store.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		m.metrics.Inc(MetricUserDuplicate)
		m.emitAudit(ctx, AuditUserDuplicate, false, "", ErrUserAlreadyExists, nil)
		return zero, ErrUserAlreadyExists
	case !errors.Is(err, ErrStoreNotFound):
		return zero, fmt.Errorf("lookup email: %w", err)
	}

	fields := req.CreateFields(safe)
	fields.HashedPassword, err = m.hashPassword(req.Password)
	if err != nil {
		return zero, err
	}

	created, err := m.store.Create(ctx, fields)
	if err != nil {
		if errors.Is(err, ErrStoreDuplicateEmail) {
			m.logger.WarnContext(ctx, "email claimed concurrently during registration")
			m.metrics.Inc(MetricUserDuplicate)
			m.emitAudit(ctx, AuditUserDuplicate, false, "", ErrUserAlreadyExists, nil)
			return zero, ErrUserAlreadyExists
		}
		m.metrics.Inc(MetricUserCreateFailure)
		return zero, fmt.Errorf("create user: %w", err)
	}

	m.metrics.Inc(MetricUserCreated)
	m.emitAudit(ctx, AuditUserCreated, true, created.GetID().String(), nil, func() map[string]string {
		return map[string]string{"safe": boolString(safe)}
	})
	m.logger.DebugContext(ctx, "user created", slog.String("user_id", created.GetID().String()))

	if err := m.hooks.OnAfterRegister(ctx, created); err != nil {
		return created, fmt.Errorf("after register hook: %w", err)
	}
	return created, nil
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
