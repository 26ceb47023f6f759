package accountcore

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrEthical07/accountcore/password"
)

const (
	testSecret   = "test-secret-key"
	testPassword = "Sup3r$ecret"
)

// memStore is an in-memory UserStore with failure injection.
type memStore struct {
	mu          sync.Mutex
	users       map[uuid.UUID]BaseUser
	createCalls int
	updateCalls int

	getByEmailErr error
	createErr     error
	updateErr     error
}

func newMemStore() *memStore {
	return &memStore{users: make(map[uuid.UUID]BaseUser)}
}

func (s *memStore) Get(_ context.Context, id uuid.UUID) (*BaseUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrStoreNotFound
	}
	return &u, nil
}

func (s *memStore) GetByEmail(_ context.Context, email string) (*BaseUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getByEmailErr != nil {
		return nil, s.getByEmailErr
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrStoreNotFound
}

func (s *memStore) Create(_ context.Context, in CreateUserInput) (*BaseUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	u := NewBaseUser(in)
	s.users[u.ID] = *u
	return u, nil
}

func (s *memStore) Update(_ context.Context, user *BaseUser, in UpdateUserInput) (*BaseUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	current, ok := s.users[user.ID]
	if !ok {
		return nil, ErrStoreNotFound
	}
	in.Apply(&current)
	s.users[user.ID] = current
	return &current, nil
}

func (s *memStore) Delete(_ context.Context, user *BaseUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return ErrStoreNotFound
	}
	delete(s.users, user.ID)
	return nil
}

func (s *memStore) seed(u BaseUser) *BaseUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.users[u.ID] = u
	return &u
}

// recordingHooks captures every hook call.
type recordingHooks struct {
	NoOpHooks
	registered  []User
	tokens      []VerificationTokens
	verified    []User
	resetTokens []string
	resets      []User
	err         error
}

func (h *recordingHooks) OnAfterRegister(_ context.Context, u User) error {
	h.registered = append(h.registered, u)
	return h.err
}

func (h *recordingHooks) OnAfterRequestVerify(_ context.Context, _ User, tokens VerificationTokens) error {
	h.tokens = append(h.tokens, tokens)
	return h.err
}

func (h *recordingHooks) OnAfterVerify(_ context.Context, u User) error {
	h.verified = append(h.verified, u)
	return h.err
}

func (h *recordingHooks) OnAfterForgotPassword(_ context.Context, _ User, token string) error {
	h.resetTokens = append(h.resetTokens, token)
	return h.err
}

func (h *recordingHooks) OnAfterResetPassword(_ context.Context, u User) error {
	h.resets = append(h.resets, u)
	return h.err
}

// testClock is a settable time source.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Now().Truncate(time.Second)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.SecretKey = testSecret
	cfg.Password.BcryptCost = bcrypt.MinCost
	return cfg
}

func fastHashers(t *testing.T) (*password.Argon2, *password.Bcrypt) {
	t.Helper()
	argon, err := password.NewArgon2(password.Argon2Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("NewArgon2 error: %v", err)
	}
	bc, err := password.NewBcrypt(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	return argon, bc
}

func fastHelper(t *testing.T) *password.Helper {
	t.Helper()
	argon, bc := fastHashers(t)
	h, err := password.NewHelper(argon, bc)
	if err != nil {
		t.Fatalf("NewHelper error: %v", err)
	}
	return h
}

type testEnv struct {
	manager *Manager[*BaseUser]
	store   *memStore
	hooks   *recordingHooks
	audit   *ChannelSink
	clock   *testClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store: newMemStore(),
		hooks: &recordingHooks{},
		audit: NewChannelSink(64),
		clock: newTestClock(),
	}
	m, err := New[*BaseUser]().
		WithConfig(testConfig()).
		WithUserStore(env.store).
		WithPasswordHelper(fastHelper(t)).
		WithHooks(env.hooks).
		WithAuditSink(env.audit).
		WithClock(env.clock.Now).
		Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	env.manager = m
	return env
}

// seedUser stores a user whose password is testPassword.
func (env *testEnv) seedUser(t *testing.T, email string, active, verified bool) *BaseUser {
	t.Helper()
	hash, err := env.manager.Passwords().HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return env.store.seed(BaseUser{
		Email:          email,
		HashedPassword: hash,
		Active:         active,
		Verified:       verified,
	})
}

func (env *testEnv) drainAudit() []AuditEvent {
	var out []AuditEvent
	for {
		select {
		case ev := <-env.audit.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func ptr[T any](v T) *T { return &v }
