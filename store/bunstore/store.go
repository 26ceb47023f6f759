package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/MrEthical07/accountcore"
	"github.com/MrEthical07/accountcore/internal"
)

// Store is a bun-backed accountcore.UserStore.
type Store struct {
	db  bun.IDB
	now func() time.Time
}

var _ accountcore.UserStore[*accountcore.BaseUser] = (*Store)(nil)

// New returns a Store over db. db may be a *bun.DB or a bun.Tx.
func New(db bun.IDB) *Store {
	return &Store{
		db:  db,
		now: time.Now,
	}
}

// OpenSQLite opens dsn with the sqliteshim driver. In-memory databases are
// pinned to one connection so every query sees the same schema.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqldb.SetMaxOpenConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// OpenPostgres opens dsn with the pgx driver and the Postgres dialect.
func OpenPostgres(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// CreateSchema creates the users table and its case-insensitive email index
// when they do not exist.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewCreateTable().
		Model((*userModel)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	if _, err := db.NewCreateIndex().
		Model((*userModel)(nil)).
		Unique().
		IfNotExists().
		Index(internal.EmailIndex).
		ColumnExpr("lower(email)").
		Exec(ctx); err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*accountcore.BaseUser, error) {
	m := new(userModel)
	err := s.db.NewSelect().Model(m).Where("usr.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, mapError("get user", err)
	}
	return m.user(), nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*accountcore.BaseUser, error) {
	m := new(userModel)
	err := s.db.NewSelect().Model(m).Where("lower(usr.email) = lower(?)", email).Limit(1).Scan(ctx)
	if err != nil {
		return nil, mapError("get user by email", err)
	}
	return m.user(), nil
}

func (s *Store) Create(ctx context.Context, in accountcore.CreateUserInput) (*accountcore.BaseUser, error) {
	u := accountcore.NewBaseUser(in)
	m := modelFromUser(u)
	now := s.now().UTC()
	m.CreatedAt, m.UpdatedAt = now, now

	if _, err := s.db.NewInsert().Model(m).Exec(ctx); err != nil {
		return nil, mapError("insert user", err)
	}
	return u, nil
}

func (s *Store) Update(ctx context.Context, user *accountcore.BaseUser, in accountcore.UpdateUserInput) (*accountcore.BaseUser, error) {
	updated := *user
	in.Apply(&updated)

	fields := in.Fields()
	columns := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		columns = append(columns, f.Column)
	}
	columns = append(columns, "updated_at")

	m := modelFromUser(&updated)
	m.UpdatedAt = s.now().UTC()

	res, err := s.db.NewUpdate().
		Model(m).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, mapError("update user", err)
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}
	return s.Get(ctx, user.ID)
}

func (s *Store) Delete(ctx context.Context, user *accountcore.BaseUser) error {
	res, err := s.db.NewDelete().
		Model((*userModel)(nil)).
		Where("id = ?", user.ID).
		Exec(ctx)
	if err != nil {
		return mapError("delete user", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return accountcore.ErrStoreNotFound
	}
	return nil
}

func mapError(op string, err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return accountcore.ErrStoreNotFound
	case internal.IsDuplicateEmail(err):
		return fmt.Errorf("%s: %w", op, errors.Join(accountcore.ErrStoreDuplicateEmail, err))
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
