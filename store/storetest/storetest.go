// Package storetest is a conformance suite for accountcore.UserStore
// implementations of *accountcore.BaseUser.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/MrEthical07/accountcore"
)

// Store is the store shape exercised by Run.
type Store = accountcore.UserStore[*accountcore.BaseUser]

// Run executes every conformance case. newStore must return an empty store
// and is called once per case.
func Run(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()

	cases := []struct {
		name string
		fn   func(t *testing.T, s Store)
	}{
		{"CreateAndGet", testCreateAndGet},
		{"GetByEmailCaseInsensitive", testGetByEmailCaseInsensitive},
		{"GetMissing", testGetMissing},
		{"CreateDuplicateEmail", testCreateDuplicateEmail},
		{"UpdateFields", testUpdateFields},
		{"UpdateEmailReleasesOld", testUpdateEmailReleasesOld},
		{"UpdateEmailDuplicate", testUpdateEmailDuplicate},
		{"UpdateMissing", testUpdateMissing},
		{"UpdateStaleCopy", testUpdateStaleCopy},
		{"Delete", testDelete},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, newStore(t))
		})
	}
}

func create(t *testing.T, s Store, email string) *accountcore.BaseUser {
	t.Helper()
	u, err := s.Create(context.Background(), accountcore.CreateUserInput{
		Email:          email,
		HashedPassword: "hash-" + email,
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("create %s: %v", email, err)
	}
	return u
}

func ptr[T any](v T) *T { return &v }

func testCreateAndGet(t *testing.T, s Store) {
	ctx := context.Background()
	created, err := s.Create(ctx, accountcore.CreateUserInput{
		Email:          "king.arthur@camelot.bt",
		HashedPassword: "h",
		IsActive:       true,
		IsSuperuser:    true,
		IsVerified:     false,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected store to assign an id")
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got != *created {
		t.Fatalf("expected %+v, got %+v", created, got)
	}
}

func testGetByEmailCaseInsensitive(t *testing.T, s Store) {
	created := create(t, s, "Lancelot@Camelot.bt")

	got, err := s.GetByEmail(context.Background(), "lancelot@camelot.BT")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("expected id %s, got %s", created.ID, got.ID)
	}
	if got.Email != "Lancelot@Camelot.bt" {
		t.Fatalf("expected stored casing to be kept, got %q", got.Email)
	}
}

func testGetMissing(t *testing.T, s Store) {
	ctx := context.Background()
	if _, err := s.Get(ctx, uuid.New()); !errors.Is(err, accountcore.ErrStoreNotFound) {
		t.Fatalf("expected ErrStoreNotFound, got %v", err)
	}
	if _, err := s.GetByEmail(ctx, "nobody@camelot.bt"); !errors.Is(err, accountcore.ErrStoreNotFound) {
		t.Fatalf("expected ErrStoreNotFound, got %v", err)
	}
}

func testCreateDuplicateEmail(t *testing.T, s Store) {
	create(t, s, "galahad@camelot.bt")

	_, err := s.Create(context.Background(), accountcore.CreateUserInput{
		Email:          "GALAHAD@camelot.bt",
		HashedPassword: "h",
	})
	if !errors.Is(err, accountcore.ErrStoreDuplicateEmail) {
		t.Fatalf("expected ErrStoreDuplicateEmail, got %v", err)
	}
}

func testUpdateFields(t *testing.T, s Store) {
	ctx := context.Background()
	u := create(t, s, "percival@camelot.bt")

	updated, err := s.Update(ctx, u, accountcore.UpdateUserInput{
		HashedPassword: ptr("new-hash"),
		IsVerified:     ptr(true),
		IsActive:       ptr(false),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.HashedPassword != "new-hash" || !updated.Verified || updated.Active {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if updated.Email != u.Email || updated.Superuser {
		t.Fatalf("expected untouched fields to be kept, got %+v", updated)
	}

	got, err := s.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got != *updated {
		t.Fatalf("expected persisted %+v, got %+v", updated, got)
	}
}

func testUpdateEmailReleasesOld(t *testing.T, s Store) {
	ctx := context.Background()
	u := create(t, s, "bors@camelot.bt")

	if _, err := s.Update(ctx, u, accountcore.UpdateUserInput{Email: ptr("bors.de.ganis@camelot.bt")}); err != nil {
		t.Fatalf("update email: %v", err)
	}
	if _, err := s.GetByEmail(ctx, "bors@camelot.bt"); !errors.Is(err, accountcore.ErrStoreNotFound) {
		t.Fatalf("expected old email to be released, got %v", err)
	}
	got, err := s.GetByEmail(ctx, "bors.de.ganis@camelot.bt")
	if err != nil || got.ID != u.ID {
		t.Fatalf("expected new email to resolve to user, got %v %v", got, err)
	}

	// released address is claimable again
	create(t, s, "bors@camelot.bt")
}

func testUpdateEmailDuplicate(t *testing.T, s Store) {
	create(t, s, "gawain@camelot.bt")
	u := create(t, s, "kay@camelot.bt")

	_, err := s.Update(context.Background(), u, accountcore.UpdateUserInput{Email: ptr("Gawain@camelot.bt")})
	if !errors.Is(err, accountcore.ErrStoreDuplicateEmail) {
		t.Fatalf("expected ErrStoreDuplicateEmail, got %v", err)
	}
	got, err := s.GetByEmail(context.Background(), "kay@camelot.bt")
	if err != nil || got.ID != u.ID {
		t.Fatalf("expected original email to remain, got %v %v", got, err)
	}
}

func testUpdateMissing(t *testing.T, s Store) {
	ghost := &accountcore.BaseUser{ID: uuid.New(), Email: "ghost@camelot.bt"}
	_, err := s.Update(context.Background(), ghost, accountcore.UpdateUserInput{IsVerified: ptr(true)})
	if !errors.Is(err, accountcore.ErrStoreNotFound) {
		t.Fatalf("expected ErrStoreNotFound, got %v", err)
	}
}

func testUpdateStaleCopy(t *testing.T, s Store) {
	ctx := context.Background()
	u := create(t, s, "lamorak@camelot.bt")

	fresh, err := s.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	stale, err := s.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if _, err := s.Update(ctx, fresh, accountcore.UpdateUserInput{IsVerified: ptr(true)}); err != nil {
		t.Fatalf("verify update: %v", err)
	}
	updated, err := s.Update(ctx, stale, accountcore.UpdateUserInput{HashedPassword: ptr("rehashed")})
	if err != nil {
		t.Fatalf("rehash update: %v", err)
	}
	if !updated.Verified || updated.HashedPassword != "rehashed" {
		t.Fatalf("expected returned row to keep verified and carry the new hash, got %+v", updated)
	}

	got, err := s.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Verified || got.HashedPassword != "rehashed" || got.Email != u.Email {
		t.Fatalf("expected stale update to touch only the hash, got %+v", got)
	}
	if _, err := s.GetByEmail(ctx, u.Email); err != nil {
		t.Fatalf("expected email claim to survive, got %v", err)
	}
}

func testDelete(t *testing.T, s Store) {
	ctx := context.Background()
	u := create(t, s, "mordred@camelot.bt")

	if err := s.Delete(ctx, u); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, u.ID); !errors.Is(err, accountcore.ErrStoreNotFound) {
		t.Fatalf("expected ErrStoreNotFound after delete, got %v", err)
	}
	if _, err := s.GetByEmail(ctx, u.Email); !errors.Is(err, accountcore.ErrStoreNotFound) {
		t.Fatalf("expected email to be released after delete, got %v", err)
	}
	if err := s.Delete(ctx, u); !errors.Is(err, accountcore.ErrStoreNotFound) {
		t.Fatalf("expected ErrStoreNotFound on second delete, got %v", err)
	}
}
