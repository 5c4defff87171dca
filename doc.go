// Package authcore implements the credential and session-token lifecycle of
// a user-account service: bcrypt credential verification, dual-secret JWT
// issuance, and single-use refresh token rotation backed by Redis.
//
// authcore is the public surface. It exposes [Engine], [Config], the
// [IdentityStore] and [MediaStore] ports, and value types. Flow orchestration
// lives under internal/ and is never exported.
//
// # Architecture boundaries
//
//   - The engine never stores identities itself; callers plug in an
//     IdentityStore (see the pgstore sub-package for a Postgres one).
//   - Refresh tokens are stored hashed, one per identity. Rotation is a
//     single atomic compare-and-swap in Redis.
//   - Token verification failures surface externally as a single
//     unauthorized error; callers cannot distinguish expiry, tampering, or
//     reuse from the response.
//
// Engine methods are safe to call from multiple goroutines once [New]
// returns.
package authcore
