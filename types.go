package accountcore

import (
	"context"

	"github.com/google/uuid"
)

// User is the capability set the manager needs from a user record.
type User interface {
	GetID() uuid.UUID
	GetEmail() string
	GetHashedPassword() string
	IsActive() bool
	IsVerified() bool
	IsSuperuser() bool
}

// BaseUser is the default User representation returned by the bundled stores.
type BaseUser struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Active         bool      `json:"is_active"`
	Superuser      bool      `json:"is_superuser"`
	Verified       bool      `json:"is_verified"`
}

func (u *BaseUser) GetID() uuid.UUID          { return u.ID }
func (u *BaseUser) GetEmail() string          { return u.Email }
func (u *BaseUser) GetHashedPassword() string { return u.HashedPassword }
func (u *BaseUser) IsActive() bool            { return u.Active }
func (u *BaseUser) IsVerified() bool          { return u.Verified }
func (u *BaseUser) IsSuperuser() bool         { return u.Superuser }

// Apply copies every set field of in onto u.
func (in UpdateUserInput) Apply(u *BaseUser) {
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.HashedPassword != nil {
		u.HashedPassword = *in.HashedPassword
	}
	if in.IsActive != nil {
		u.Active = *in.IsActive
	}
	if in.IsSuperuser != nil {
		u.Superuser = *in.IsSuperuser
	}
	if in.IsVerified != nil {
		u.Verified = *in.IsVerified
	}
}

// UpdateField is one set field of an UpdateUserInput, keyed by its column
// name. Value is a string or a bool.
type UpdateField struct {
	Column string
	Value  any
}

// Fields returns the set fields of in in a fixed column order.
func (in UpdateUserInput) Fields() []UpdateField {
	var fields []UpdateField
	if in.Email != nil {
		fields = append(fields, UpdateField{Column: "email", Value: *in.Email})
	}
	if in.HashedPassword != nil {
		fields = append(fields, UpdateField{Column: "hashed_password", Value: *in.HashedPassword})
	}
	if in.IsActive != nil {
		fields = append(fields, UpdateField{Column: "is_active", Value: *in.IsActive})
	}
	if in.IsSuperuser != nil {
		fields = append(fields, UpdateField{Column: "is_superuser", Value: *in.IsSuperuser})
	}
	if in.IsVerified != nil {
		fields = append(fields, UpdateField{Column: "is_verified", Value: *in.IsVerified})
	}
	return fields
}

// NewBaseUser builds a BaseUser with a fresh random id from in.
func NewBaseUser(in CreateUserInput) *BaseUser {
	return &BaseUser{
		ID:             uuid.New(),
		Email:          in.Email,
		HashedPassword: in.HashedPassword,
		Active:         in.IsActive,
		Superuser:      in.IsSuperuser,
		Verified:       in.IsVerified,
	}
}

// CreateUserInput is the persisted-field set passed to UserStore.Create.
type CreateUserInput struct {
	Email          string
	HashedPassword string
	IsActive       bool
	IsSuperuser    bool
	IsVerified     bool
}

// UpdateUserInput is the persisted-field diff passed to UserStore.Update.
// Nil fields are left unchanged.
type UpdateUserInput struct {
	Email          *string
	HashedPassword *string
	IsActive       *bool
	IsSuperuser    *bool
	IsVerified     *bool
}

// Empty reports whether the diff changes nothing.
func (in UpdateUserInput) Empty() bool {
	return in.Email == nil && in.HashedPassword == nil && in.IsActive == nil &&
		in.IsSuperuser == nil && in.IsVerified == nil
}

// UserStore is the persistence contract consumed by Manager.
//
// Lookups that find nothing return ErrStoreNotFound. Create and Update must
// enforce case-insensitive email uniqueness at the storage level and report a
// violation as ErrStoreDuplicateEmail. Either sentinel may be wrapped.
//
// Update writes only the set fields of in; user may be a stale copy and only
// its ID is trusted. The returned record is the stored row after the write.
type UserStore[U User] interface {
	Get(ctx context.Context, id uuid.UUID) (U, error)
	GetByEmail(ctx context.Context, email string) (U, error)
	Create(ctx context.Context, in CreateUserInput) (U, error)
	Update(ctx context.Context, user U, in UpdateUserInput) (U, error)
	Delete(ctx context.Context, user U) error
}
