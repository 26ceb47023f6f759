// Package pgstore implements accountcore.UserStore on Postgres with
// database/sql and the pgx driver. Schema changes ship as embedded goose
// migrations; call Migrate before first use.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/MrEthical07/accountcore"
	"github.com/MrEthical07/accountcore/internal"
	"github.com/MrEthical07/accountcore/store/pgstore/migrations"
)

// DBTX is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is a Postgres-backed accountcore.UserStore.
type Store struct {
	db DBTX
}

var _ accountcore.UserStore[*accountcore.BaseUser] = (*Store)(nil)

func New(db DBTX) *Store {
	return &Store{db: db}
}

// Open opens dsn with the pgx driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return db, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate applies the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const userColumns = `id, email, hashed_password, is_active, is_superuser, is_verified`

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*accountcore.BaseUser, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `
	return s.scanOne(ctx, query, id.String())
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*accountcore.BaseUser, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE lower(email) = lower($1)
		 `
	return s.scanOne(ctx, query, email)
}

func (s *Store) scanOne(ctx context.Context, query string, args ...any) (*accountcore.BaseUser, error) {
	u := &accountcore.BaseUser{}
	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&u.ID, &u.Email, &u.HashedPassword, &u.Active, &u.Superuser, &u.Verified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accountcore.ErrStoreNotFound
		}
		return nil, mapError(err)
	}
	return u, nil
}

func (s *Store) Create(ctx context.Context, in accountcore.CreateUserInput) (*accountcore.BaseUser, error) {
	u := accountcore.NewBaseUser(in)
	query :=
		`INSERT INTO users (` + userColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 `
	_, err := s.db.ExecContext(ctx, query,
		u.ID.String(), u.Email, u.HashedPassword, u.Active, u.Superuser, u.Verified)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (s *Store) Update(ctx context.Context, user *accountcore.BaseUser, in accountcore.UpdateUserInput) (*accountcore.BaseUser, error) {
	fields := in.Fields()
	set := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	args = append(args, user.ID.String())
	for _, f := range fields {
		args = append(args, f.Value)
		set = append(set, fmt.Sprintf("%s = $%d", f.Column, len(args)))
	}
	set = append(set, "updated_at = now()")

	query :=
		`UPDATE users
		 SET ` + strings.Join(set, ", ") + `
		 WHERE id = $1
		 RETURNING ` + userColumns + `
		 `
	return s.scanOne(ctx, query, args...)
}

func (s *Store) Delete(ctx context.Context, user *accountcore.BaseUser) error {
	query :=
		`DELETE FROM users
		 WHERE id = $1
		 `
	res, err := s.db.ExecContext(ctx, query, user.ID.String())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return accountcore.ErrStoreNotFound
	}
	return nil
}

func mapError(err error) error {
	if internal.IsDuplicateEmail(err) {
		return fmt.Errorf("db error: %w", errors.Join(accountcore.ErrStoreDuplicateEmail, err))
	}
	return fmt.Errorf("db error: %w", err)
}
