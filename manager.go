package accountcore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/accountcore/jwt"
	"github.com/MrEthical07/accountcore/password"
)

// Manager defines a public type used by accountcore APIs.
//
// Manager instances carry only references set once by Builder.Build and are
// safe for concurrent use.
type Manager[U User] struct {
	config     Config
	store      UserStore[U]
	passwords  *password.Helper
	resetCodec *jwt.Codec
	logger     *slog.Logger
	audit      AuditSink
	hooks      Hooks
	metrics    *Metrics
	now        func() time.Time
	decoyHash  string
}

// Config returns a copy of the manager configuration.
func (m *Manager[U]) Config() Config {
	return m.config
}

// Passwords returns the password helper in use.
func (m *Manager[U]) Passwords() *password.Helper {
	return m.passwords
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot never fails; a nil or disabled manager yields empty maps.
func (m *Manager[U]) MetricsSnapshot() MetricsSnapshot {
	if m == nil || m.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return m.metrics.Snapshot()
}

// ParseID converts a textual identifier to a user id.
//
// ParseID returns ErrInvalidID when value is not a UUID.
func (m *Manager[U]) ParseID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

// Get describes the get operation and its observable behavior.
//
// Get may return ErrUserNotExists when the store has no such user, or a wrapped store error.
func (m *Manager[U]) Get(ctx context.Context, id uuid.UUID) (U, error) {
	var zero U
	if !m.ready() {
		return zero, ErrManagerNotReady
	}
	user, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			return zero, ErrUserNotExists
		}
		return zero, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetByEmail describes the getbyemail operation and its observable behavior.
//
// GetByEmail matches case-insensitively and may return ErrUserNotExists or a wrapped store error.
func (m *Manager[U]) GetByEmail(ctx context.Context, email string) (U, error) {
	var zero U
	if !m.ready() {
		return zero, ErrManagerNotReady
	}
	user, err := m.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			return zero, ErrUserNotExists
		}
		return zero, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// Delete describes the delete operation and its observable behavior.
//
// Delete may return ErrUserNotExists when the user is already gone, or a wrapped store error.
func (m *Manager[U]) Delete(ctx context.Context, user U) error {
	if !m.ready() {
		return ErrManagerNotReady
	}
	if err := m.store.Delete(ctx, user); err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			return ErrUserNotExists
		}
		return fmt.Errorf("delete user: %w", err)
	}
	m.metrics.Inc(MetricUserDeleted)
	m.emitAudit(ctx, AuditUserDeleted, true, user.GetID().String(), nil, nil)
	return nil
}

func (m *Manager[U]) ready() bool {
	return m != nil && m.store != nil && m.passwords != nil
}

func (m *Manager[U]) hashPassword(plain string) (string, error) {
	start := time.Now()
	hash, err := m.passwords.HashPassword(plain)
	m.metrics.Observe(MetricHashLatency, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}
