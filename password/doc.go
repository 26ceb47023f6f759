// Package password owns the password policy and the hashing algorithms used to
// store credentials.
//
// # Policy
//
// [ValidatePassword] enforces a fixed rule order: minimum length, uppercase,
// lowercase, digit, punctuation. The first failing rule is reported as a
// [*PolicyError] whose reason text carries the rule keyword.
//
// # Output formats
//
// The primary [Argon2] hasher encodes hashes in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// The legacy [Bcrypt] hasher emits standard modular crypt strings ($2a$, $2b$, $2y$).
//
// # Migration
//
// A [Helper] is configured with one primary hasher and an ordered legacy set.
// [Helper.VerifyAndUpdate] returns a fresh primary hash whenever a password
// matches a hash produced by a legacy hasher, or by the primary hasher with
// weaker parameters, so the caller can persist it on the next successful login.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords. Callers supply plaintext and receive hashes.
//   - Import any other accountcore package.
//   - Log plaintext passwords or hash parameters at runtime.
package password
