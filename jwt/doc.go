// Package jwt issues and verifies compact signed claim sets used as bearer
// tokens by the account lifecycle core.
//
// # Time window
//
// Every issued token carries iat (issue time), nbf (iat minus [NotBeforeSkew])
// and exp (iat plus the requested lifetime), all as integer Unix seconds.
// Verification applies [Leeway] to every time-based claim.
//
// # Errors
//
// Every failure is reported as a [*TokenError]. It matches [ErrToken] and one
// reason sentinel under errors.Is. Errors from the signing library are never
// exposed to callers.
//
// # What this package must NOT do
//
//   - Persist tokens or keep any per-token state.
//   - Import any other accountcore package.
package jwt
