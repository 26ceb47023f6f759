package accountcore

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// UserCreate is the registration request. Privileged flags are optional and
// only honoured on the administrative path.
type UserCreate struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	IsActive    *bool  `json:"is_active,omitempty"`
	IsSuperuser *bool  `json:"is_superuser,omitempty"`
	IsVerified  *bool  `json:"is_verified,omitempty"`
}

// Validate checks request shape. Password strength is checked separately by
// the manager.
func (r UserCreate) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// CreateFields returns the persisted fields for this request without the
// password. When safe is set the privileged flags are ignored and defaults
// apply: active, not superuser, not verified.
func (r UserCreate) CreateFields(safe bool) CreateUserInput {
	in := CreateUserInput{Email: r.Email, IsActive: true}
	if safe {
		return in
	}
	if r.IsActive != nil {
		in.IsActive = *r.IsActive
	}
	if r.IsSuperuser != nil {
		in.IsSuperuser = *r.IsSuperuser
	}
	if r.IsVerified != nil {
		in.IsVerified = *r.IsVerified
	}
	return in
}

// UserUpdate is a partial update request. Nil fields are left unchanged.
type UserUpdate struct {
	Email       *string `json:"email,omitempty"`
	Password    *string `json:"password,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsSuperuser *bool   `json:"is_superuser,omitempty"`
	IsVerified  *bool   `json:"is_verified,omitempty"`
}

// Validate checks request shape.
func (r UserUpdate) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&r.Password, validation.NilOrNotEmpty),
	)
}

// UpdateFields returns the persisted diff without the password. When safe is
// set the privileged flags are dropped.
func (r UserUpdate) UpdateFields(safe bool) UpdateUserInput {
	in := UpdateUserInput{Email: r.Email}
	if safe {
		return in
	}
	in.IsActive = r.IsActive
	in.IsSuperuser = r.IsSuperuser
	in.IsVerified = r.IsVerified
	return in
}
