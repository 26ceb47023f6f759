// Package accountcore provides the credential and token lifecycle core for
// end-user accounts: registration, lookup, verification, authentication with
// transparent password hash migration, and password reset.
//
// The package is a library consumed by an HTTP layer. A [Manager] composes a
// [jwt.Codec], a [password.Helper] and a caller-supplied [UserStore]; it holds
// no mutable state of its own beyond atomic metric counters, so its methods are
// safe to call from multiple goroutines after [Builder.Build].
//
// # Architecture boundaries
//
// accountcore is the public surface. It exposes [Manager], [Builder], [Config],
// the [User] capability interface and request schemas. Persistence lives behind
// [UserStore]; ready-made stores live under store/.
//
// # What this package must NOT do
//
//   - Deliver email or any other notification. Tokens are handed to [Hooks].
//   - Retry store operations or start background goroutines.
//   - Log passwords, password hashes, secrets or tokens.
package accountcore
