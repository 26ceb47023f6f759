package accountcore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrEthical07/accountcore"
	"github.com/MrEthical07/accountcore/store/redisstore"
)

func TestRegistrationLifecycleWithRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	cfg := accountcore.DefaultConfig()
	cfg.JWT.SecretKey = "integration-secret"
	cfg.Password.Primary = accountcore.PasswordBcrypt
	cfg.Password.BcryptCost = bcrypt.MinCost

	sink := accountcore.NewChannelSink(32)
	m, err := accountcore.New[*accountcore.BaseUser]().
		WithConfig(cfg).
		WithUserStore(redisstore.New(rdb, "it")).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	ctx := accountcore.WithClientIP(context.Background(), "198.51.100.7")
	u, err := m.Create(ctx, accountcore.UserCreate{Email: "Lancelot@Camelot.bt", Password: "Gu1nevere!"}, true)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := m.Create(ctx, accountcore.UserCreate{Email: "lancelot@camelot.bt", Password: "Gu1nevere!"}, true); !errors.Is(err, accountcore.ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}

	tokens, err := m.RequestVerify(ctx, u, accountcore.WithScopes("verify"))
	if err != nil {
		t.Fatalf("RequestVerify error: %v", err)
	}
	verified, err := m.Verify(ctx, tokens.AccessToken)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !verified.IsVerified() {
		t.Fatal("expected user to be verified")
	}

	if _, err := m.Authenticate(ctx, "LANCELOT@camelot.bt", "Gu1nevere!"); err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}

	resetToken, err := m.ForgotPassword(ctx, verified)
	if err != nil {
		t.Fatalf("ForgotPassword error: %v", err)
	}
	if _, err := m.ResetPassword(ctx, resetToken, "N3w!Passw0rd"); err != nil {
		t.Fatalf("ResetPassword error: %v", err)
	}
	if _, err := m.Authenticate(ctx, u.Email, "Gu1nevere!"); !errors.Is(err, accountcore.ErrInvalidCredentials) {
		t.Fatalf("expected old password rejected, got %v", err)
	}

	if err := m.Delete(ctx, verified); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := m.GetByEmail(ctx, u.Email); !errors.Is(err, accountcore.ErrUserNotExists) {
		t.Fatalf("expected ErrUserNotExists, got %v", err)
	}

	snap := m.MetricsSnapshot()
	if snap.Counters[accountcore.MetricUserCreated] != 1 || snap.Counters[accountcore.MetricUserDuplicate] != 1 {
		t.Fatalf("unexpected counters %+v", snap.Counters)
	}

	ev := <-sink.Events()
	if ev.Type != accountcore.AuditUserCreated || ev.IP != "198.51.100.7" || !ev.Success {
		t.Fatalf("unexpected first audit event %+v", ev)
	}
}
