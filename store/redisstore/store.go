package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/accountcore"
)

const (
	scriptStatusMissing   int64 = 0
	scriptStatusOK        int64 = 1
	scriptStatusDuplicate int64 = 2
)

// KEYS[1] user hash, KEYS[2] email claim.
// ARGV: id, email, hashed_password, is_active, is_superuser, is_verified.
const createUserScript = `
if redis.call("SETNX", KEYS[2], ARGV[1]) == 0 then
  return 2
end
redis.call("HSET", KEYS[1],
  "id", ARGV[1],
  "email", ARGV[2],
  "email_key", KEYS[2],
  "hashed_password", ARGV[3],
  "is_active", ARGV[4],
  "is_superuser", ARGV[5],
  "is_verified", ARGV[6])
return 1
`

// KEYS[1] user hash, KEYS[2] new email claim when the email changes.
// ARGV[1] id, then field/value pairs.
const updateUserScript = `
local old = redis.call("HGET", KEYS[1], "email_key")
if not old then
  return 0
end
if KEYS[2] and old ~= KEYS[2] then
  if redis.call("SETNX", KEYS[2], ARGV[1]) == 0 then
    return 2
  end
  redis.call("DEL", old)
  redis.call("HSET", KEYS[1], "email_key", KEYS[2])
end
if #ARGV > 1 then
  redis.call("HSET", KEYS[1], unpack(ARGV, 2))
end
return 1
`

// KEYS[1] user hash.
const deleteUserScript = `
local old = redis.call("HGET", KEYS[1], "email_key")
if not old then
  return 0
end
redis.call("DEL", KEYS[1], old)
return 1
`

var (
	createUserLua = redis.NewScript(createUserScript)
	updateUserLua = redis.NewScript(updateUserScript)
	deleteUserLua = redis.NewScript(deleteUserScript)
)

// Store is a Redis-backed accountcore.UserStore.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

var _ accountcore.UserStore[*accountcore.BaseUser] = (*Store)(nil)

// New returns a Store using prefix for every key. An empty prefix defaults
// to "acu".
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "acu"
	}
	return &Store{
		redis:  client,
		prefix: prefix,
	}
}

func (s *Store) userKey(id uuid.UUID) string {
	return s.prefix + ":user:" + id.String()
}

func (s *Store) emailKey(email string) string {
	return s.prefix + ":email:" + strings.ToLower(email)
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*accountcore.BaseUser, error) {
	fields, err := s.redis.HGetAll(ctx, s.userKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get user: %w", err)
	}
	if len(fields) == 0 {
		return nil, accountcore.ErrStoreNotFound
	}
	return decodeUser(fields)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*accountcore.BaseUser, error) {
	raw, err := s.redis.Get(ctx, s.emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, accountcore.ErrStoreNotFound
		}
		return nil, fmt.Errorf("redis get email: %w", err)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("redis email claim %q: %w", raw, err)
	}
	return s.Get(ctx, id)
}

func (s *Store) Create(ctx context.Context, in accountcore.CreateUserInput) (*accountcore.BaseUser, error) {
	u := accountcore.NewBaseUser(in)
	status, err := createUserLua.Run(ctx, s.redis,
		[]string{s.userKey(u.ID), s.emailKey(u.Email)},
		userArgs(u)...,
	).Int64()
	if err != nil {
		return nil, fmt.Errorf("redis create user: %w", err)
	}
	if status == scriptStatusDuplicate {
		return nil, accountcore.ErrStoreDuplicateEmail
	}
	return u, nil
}

func (s *Store) Update(ctx context.Context, user *accountcore.BaseUser, in accountcore.UpdateUserInput) (*accountcore.BaseUser, error) {
	keys := []string{s.userKey(user.ID)}
	if in.Email != nil {
		keys = append(keys, s.emailKey(*in.Email))
	}
	args := []any{user.ID.String()}
	for _, f := range in.Fields() {
		args = append(args, f.Column, fieldValue(f.Value))
	}

	status, err := updateUserLua.Run(ctx, s.redis, keys, args...).Int64()
	if err != nil {
		return nil, fmt.Errorf("redis update user: %w", err)
	}
	switch status {
	case scriptStatusMissing:
		return nil, accountcore.ErrStoreNotFound
	case scriptStatusDuplicate:
		return nil, accountcore.ErrStoreDuplicateEmail
	}
	return s.Get(ctx, user.ID)
}

func (s *Store) Delete(ctx context.Context, user *accountcore.BaseUser) error {
	status, err := deleteUserLua.Run(ctx, s.redis, []string{s.userKey(user.ID)}).Int64()
	if err != nil {
		return fmt.Errorf("redis delete user: %w", err)
	}
	if status != scriptStatusOK {
		return accountcore.ErrStoreNotFound
	}
	return nil
}

func userArgs(u *accountcore.BaseUser) []any {
	return []any{
		u.ID.String(),
		u.Email,
		u.HashedPassword,
		strconv.FormatBool(u.Active),
		strconv.FormatBool(u.Superuser),
		strconv.FormatBool(u.Verified),
	}
}

func fieldValue(v any) string {
	switch v := v.(type) {
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func decodeUser(fields map[string]string) (*accountcore.BaseUser, error) {
	id, err := uuid.Parse(fields["id"])
	if err != nil {
		return nil, fmt.Errorf("decode user id: %w", err)
	}
	u := &accountcore.BaseUser{
		ID:             id,
		Email:          fields["email"],
		HashedPassword: fields["hashed_password"],
	}
	flags := []struct {
		name string
		dst  *bool
	}{
		{"is_active", &u.Active},
		{"is_superuser", &u.Superuser},
		{"is_verified", &u.Verified},
	}
	for _, f := range flags {
		v, err := strconv.ParseBool(fields[f.name])
		if err != nil {
			return nil, fmt.Errorf("decode user %s: %w", f.name, err)
		}
		*f.dst = v
	}
	return u, nil
}
