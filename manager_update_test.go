package accountcore

import (
	"context"
	"errors"
	"testing"
)

func TestUpdatePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.seedUser(t, "ector@camelot.bt", true, true)

	updated, err := env.manager.Update(ctx, u, UserUpdate{Password: ptr("Fr3sh&Secret")}, true)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if ok, _ := env.manager.Passwords().Verify("Fr3sh&Secret", updated.HashedPassword); !ok {
		t.Fatal("expected new password hash")
	}
	if !updated.Verified {
		t.Fatal("expected password change to keep verified flag")
	}
}

func TestUpdatePasswordPolicy(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "ector@camelot.bt", true, true)

	if _, err := env.manager.Update(context.Background(), u, UserUpdate{Password: ptr("password")}, true); !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("expected password policy error, got %v", err)
	}
	if env.store.updateCalls != 0 {
		t.Fatal("expected no store update")
	}
}

func TestUpdateEmailResetsVerified(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "gaheris@camelot.bt", true, true)

	updated, err := env.manager.Update(context.Background(), u, UserUpdate{Email: ptr("gaheris@orkney.bt")}, true)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Email != "gaheris@orkney.bt" || updated.Verified {
		t.Fatalf("expected new unverified email, got %+v", updated)
	}
}

func TestUpdateEmailCaseOnlyKeepsVerified(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "gaheris@camelot.bt", true, true)

	updated, err := env.manager.Update(context.Background(), u, UserUpdate{Email: ptr("Gaheris@camelot.bt")}, true)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if !updated.Verified || updated.Email != "Gaheris@camelot.bt" {
		t.Fatalf("expected case change to keep verification, got %+v", updated)
	}
}

func TestUpdateEmailTaken(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "agravain@camelot.bt", true, false)
	u := env.seedUser(t, "gareth@camelot.bt", true, false)

	if _, err := env.manager.Update(context.Background(), u, UserUpdate{Email: ptr("AGRAVAIN@camelot.bt")}, true); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
	if env.store.updateCalls != 0 {
		t.Fatal("expected no store update")
	}
}

func TestUpdateStoreDuplicateTranslated(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "gareth@camelot.bt", true, false)
	env.store.updateErr = ErrStoreDuplicateEmail

	if _, err := env.manager.Update(context.Background(), u, UserUpdate{Email: ptr("beaumains@camelot.bt")}, true); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestUpdateSafeIgnoresPrivilegedFields(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "dinadan@camelot.bt", true, false)

	updated, err := env.manager.Update(context.Background(), u, UserUpdate{
		IsSuperuser: ptr(true),
		IsVerified:  ptr(true),
	}, true)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if updated.Superuser || updated.Verified {
		t.Fatalf("expected privileged fields to be ignored, got %+v", updated)
	}
	if env.store.updateCalls != 0 {
		t.Fatal("expected empty diff to skip the store")
	}
}

func TestUpdateUnsafeAppliesPrivilegedFields(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, "dinadan@camelot.bt", true, false)

	updated, err := env.manager.Update(context.Background(), u, UserUpdate{
		IsSuperuser: ptr(true),
		IsActive:    ptr(false),
	}, false)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if !updated.Superuser || updated.Active {
		t.Fatalf("expected privileged fields to be applied, got %+v", updated)
	}
}

func TestUpdateMissingUser(t *testing.T) {
	env := newTestEnv(t)
	ghost := &BaseUser{Email: "ghost@camelot.bt"}

	if _, err := env.manager.Update(context.Background(), ghost, UserUpdate{IsActive: ptr(false)}, false); !errors.Is(err, ErrUserNotExists) {
		t.Fatalf("expected ErrUserNotExists, got %v", err)
	}
}
