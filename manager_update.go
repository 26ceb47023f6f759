package accountcore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Update describes the update operation and its observable behavior.
//
// Update applies req to user. A new password is checked against the policy
// and hashed; a new email must not belong to another user and resets the
// verified flag. When safe is set the privileged flags in req are ignored.
// Update may return a password policy error, ErrUserAlreadyExists,
// ErrUserNotExists, or a wrapped store error.
func (m *Manager[U]) Update(ctx context.Context, user U, req UserUpdate, safe bool) (U, error) {
	var zero U
	if !m.ready() {
		return zero, ErrManagerNotReady
	}
	userID := user.GetID().String()

	fields := req.UpdateFields(safe)

	if req.Password != nil {
		if err := m.passwords.ValidatePassword(*req.Password); err != nil {
			return zero, err
		}
		hash, err := m.hashPassword(*req.Password)
		if err != nil {
			return zero, err
		}
		fields.HashedPassword = &hash
	}

	if fields.Email != nil && !strings.EqualFold(*fields.Email, user.GetEmail()) {
		_, err := m.store.GetByEmail(ctx, *fields.Email)
		switch {
		case err == nil:
			return zero, ErrUserAlreadyExists
		case !errors.Is(err, ErrStoreNotFound):
			return zero, fmt.Errorf("lookup email: %w", err)
		}
		unverified := false
		fields.IsVerified = &unverified
	}

	if fields.Empty() {
		return user, nil
	}

	updated, err := m.store.Update(ctx, user, fields)
	if err != nil {
		switch {
		case errors.Is(err, ErrStoreDuplicateEmail):
			return zero, ErrUserAlreadyExists
		case errors.Is(err, ErrStoreNotFound):
			return zero, ErrUserNotExists
		}
		return zero, fmt.Errorf("update user: %w", err)
	}

	m.metrics.Inc(MetricUserUpdated)
	m.emitAudit(ctx, AuditUserUpdated, true, userID, nil, func() map[string]string {
		return map[string]string{"safe": boolString(safe)}
	})
	return updated, nil
}
