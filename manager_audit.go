package accountcore

import (
	"context"
	"errors"

	"github.com/MrEthical07/accountcore/jwt"
	"github.com/MrEthical07/accountcore/password"
)

func auditErrorCode(err error) AuditErrorCode {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return AuditErrInvalidCredentials
	case errors.Is(err, ErrInvalidVerifyToken),
		errors.Is(err, ErrInvalidResetPasswordToken),
		errors.Is(err, jwt.ErrToken):
		return AuditErrInvalidToken
	case errors.Is(err, password.ErrPolicy):
		return AuditErrPasswordPolicy
	case errors.Is(err, ErrUserAlreadyExists):
		return AuditErrUserExists
	case errors.Is(err, ErrUserInactive):
		return AuditErrUserInactive
	case errors.Is(err, ErrUserAlreadyVerified):
		return AuditErrAlreadyVerified
	default:
		return AuditErrInternal
	}
}

func (m *Manager[U]) emitAudit(ctx context.Context, eventType AuditEventType, success bool, userID string, err error, metadata func() map[string]string) {
	if m.audit == nil {
		return
	}
	if _, noop := m.audit.(NoOpSink); noop {
		return
	}

	event := AuditEvent{
		Timestamp: m.now(),
		Type:      eventType,
		UserID:    userID,
		IP:        clientIPFromContext(ctx),
		UserAgent: userAgentFromContext(ctx),
		Success:   success,
	}
	if err != nil {
		event.Error = auditErrorCode(err)
	}
	if metadata != nil {
		event.Metadata = metadata()
	}
	m.audit.Emit(ctx, event)
}
