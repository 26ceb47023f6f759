package bunstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/MrEthical07/accountcore"
)

type userModel struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	Email          string    `bun:"email,notnull"`
	HashedPassword string    `bun:"hashed_password,notnull"`
	IsActive       bool      `bun:"is_active,notnull"`
	IsSuperuser    bool      `bun:"is_superuser,notnull"`
	IsVerified     bool      `bun:"is_verified,notnull"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func modelFromUser(u *accountcore.BaseUser) *userModel {
	return &userModel{
		ID:             u.ID,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		IsActive:       u.Active,
		IsSuperuser:    u.Superuser,
		IsVerified:     u.Verified,
	}
}

func (m *userModel) user() *accountcore.BaseUser {
	return &accountcore.BaseUser{
		ID:             m.ID,
		Email:          m.Email,
		HashedPassword: m.HashedPassword,
		Active:         m.IsActive,
		Superuser:      m.IsSuperuser,
		Verified:       m.IsVerified,
	}
}
