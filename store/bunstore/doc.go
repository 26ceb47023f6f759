// Package bunstore implements accountcore.UserStore with uptrace/bun.
//
// The same Store runs on SQLite (through sqliteshim) and on Postgres (through
// pgdialect over the pgx driver). CreateSchema creates the users table and a
// unique index on lower(email).
package bunstore
