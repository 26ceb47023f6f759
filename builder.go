package accountcore

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrEthical07/accountcore/jwt"
	"github.com/MrEthical07/accountcore/password"
)

// Builder defines a public type used by accountcore APIs.
//
// A Builder may be used for exactly one successful Build.
type Builder[U User] struct {
	config    Config
	store     UserStore[U]
	passwords *password.Helper
	logger    *slog.Logger
	auditSink AuditSink
	hooks     Hooks
	now       func() time.Time
	built     bool
}

// New returns a Builder seeded with DefaultConfig.
func New[U User]() *Builder[U] {
	return &Builder[U]{
		config:    DefaultConfig(),
		auditSink: NoOpSink{},
		hooks:     NoOpHooks{},
	}
}

// WithConfig replaces the configuration.
func (b *Builder[U]) WithConfig(cfg Config) *Builder[U] {
	b.config = cfg
	return b
}

// WithUserStore sets the required persistence backend.
func (b *Builder[U]) WithUserStore(store UserStore[U]) *Builder[U] {
	b.store = store
	return b
}

// WithPasswordHelper overrides the hasher set derived from Config.Password.
func (b *Builder[U]) WithPasswordHelper(h *password.Helper) *Builder[U] {
	b.passwords = h
	return b
}

// WithLogger sets the structured logger. The default discards output.
func (b *Builder[U]) WithLogger(logger *slog.Logger) *Builder[U] {
	b.logger = logger
	return b
}

// WithAuditSink sets the audit sink. Nil restores NoOpSink.
func (b *Builder[U]) WithAuditSink(sink AuditSink) *Builder[U] {
	if sink == nil {
		sink = NoOpSink{}
	}
	b.auditSink = sink
	return b
}

// WithHooks sets the lifecycle hooks that receive issued tokens. Nil restores NoOpHooks.
func (b *Builder[U]) WithHooks(h Hooks) *Builder[U] {
	if h == nil {
		h = NoOpHooks{}
	}
	b.hooks = h
	return b
}

// WithClock overrides the time source used for token issuance and verification.
func (b *Builder[U]) WithClock(now func() time.Time) *Builder[U] {
	b.now = now
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when the store is missing, the config is invalid, or a hasher cannot be constructed.
func (b *Builder[U]) Build() (*Manager[U], error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.store == nil {
		return nil, errors.New("user store must be provided")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	passwords := b.passwords
	if passwords == nil {
		var err error
		passwords, err = newPasswordHelper(cfg.Password)
		if err != nil {
			return nil, err
		}
	}

	now := b.now
	if now == nil {
		now = time.Now
	}
	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	resetCodec, err := jwt.NewCodec(jwt.Config{
		Algorithm: cfg.JWT.Algorithm,
		Secret:    []byte(cfg.JWT.SecretKey),
		Now:       now,
	})
	if err != nil {
		return nil, fmt.Errorf("reset token codec: %w", err)
	}

	// Hashed once so Authenticate spends comparable time on unknown emails.
	decoy, err := password.GeneratePassword(16)
	if err != nil {
		return nil, err
	}
	decoyHash, err := passwords.HashPassword(decoy)
	if err != nil {
		return nil, fmt.Errorf("decoy hash: %w", err)
	}

	m := &Manager[U]{
		config:     cfg,
		store:      b.store,
		passwords:  passwords,
		resetCodec: resetCodec,
		logger:     logger,
		audit:      b.auditSink,
		hooks:      b.hooks,
		metrics:    NewMetrics(cfg.Metrics),
		now:        now,
		decoyHash:  decoyHash,
	}

	b.built = true
	return m, nil
}

func newPasswordHelper(cfg PasswordConfig) (*password.Helper, error) {
	argon, err := password.NewArgon2(password.Argon2Config{
		Memory:      cfg.Argon2Memory,
		Time:        cfg.Argon2Time,
		Parallelism: cfg.Argon2Parallelism,
		SaltLength:  cfg.Argon2SaltLength,
		KeyLength:   cfg.Argon2KeyLength,
	})
	if err != nil {
		return nil, fmt.Errorf("argon2 hasher: %w", err)
	}
	bc, err := password.NewBcrypt(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt hasher: %w", err)
	}

	if cfg.Primary == PasswordBcrypt {
		return password.NewHelper(bc, argon)
	}
	return password.NewHelper(argon, bc)
}
