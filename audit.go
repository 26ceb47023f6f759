package accountcore

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"
)

// AuditEventType names an account lifecycle event.
type AuditEventType string

const (
	AuditUserCreated          AuditEventType = "user_created"
	AuditUserCreateFailure    AuditEventType = "user_create_failure"
	AuditUserDuplicate        AuditEventType = "user_duplicate"
	AuditUserUpdated          AuditEventType = "user_updated"
	AuditUserDeleted          AuditEventType = "user_deleted"
	AuditVerifyRequest        AuditEventType = "verify_request"
	AuditVerifyConfirm        AuditEventType = "verify_confirm"
	AuditAuthenticate         AuditEventType = "authenticate"
	AuditPasswordRehash       AuditEventType = "password_rehash"
	AuditPasswordResetRequest AuditEventType = "password_reset_request"
	AuditPasswordResetConfirm AuditEventType = "password_reset_confirm"
)

// AuditErrorCode is the stable error label recorded on failed events.
type AuditErrorCode string

const (
	AuditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	AuditErrInvalidToken       AuditErrorCode = "invalid_token"
	AuditErrPasswordPolicy     AuditErrorCode = "password_policy"
	AuditErrUserExists         AuditErrorCode = "user_exists"
	AuditErrUserInactive       AuditErrorCode = "user_inactive"
	AuditErrAlreadyVerified    AuditErrorCode = "already_verified"
	AuditErrInternal           AuditErrorCode = "internal_error"
)

// AuditEvent is one account lifecycle event. UserID is empty when the event
// concerns an address with no account. It never carries passwords, hashes
// or tokens.
type AuditEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	Type      AuditEventType    `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	IP        string            `json:"ip,omitempty"`
	UserAgent string            `json:"user_agent,omitempty"`
	Success   bool              `json:"success"`
	Error     AuditErrorCode    `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// AuditSink receives events synchronously on the calling goroutine.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink hands events to a consumer goroutine. Emit blocks while the
// buffer is full until ctx is done, then drops the event.
type ChannelSink struct {
	events chan AuditEvent
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan AuditEvent, buffer)}
}

func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink appends one JSON object per event to w.
type JSONWriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{w: w}
}

func (s *JSONWriterSink) Emit(_ context.Context, event AuditEvent) {
	if s == nil || s.w == nil {
		return
	}
	line, err := json.Marshal(event)
	if err != nil {
		return
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.w.Write(line)
}

// SlogSink logs each event as one record: Info for successes, Warn for
// failures.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink returns a sink writing to logger, or to slog.Default when
// logger is nil.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Emit(ctx context.Context, event AuditEvent) {
	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	attrs := []slog.Attr{
		slog.String("event_type", string(event.Type)),
		slog.Bool("success", event.Success),
	}
	if event.UserID != "" {
		attrs = append(attrs, slog.String("user_id", event.UserID))
	}
	if event.IP != "" {
		attrs = append(attrs, slog.String("ip", event.IP))
	}
	if event.Error != "" {
		attrs = append(attrs, slog.String("error", string(event.Error)))
	}
	for k, v := range event.Metadata {
		attrs = append(attrs, slog.String("meta."+k, v))
	}
	s.logger.LogAttrs(ctx, level, "audit", attrs...)
}
