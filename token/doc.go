// Package token implements issuing and verifying the signed access and
// refresh tokens that carry an identity's claims.
//
// # Two secrets
//
// Access and refresh tokens are signed with two distinct HS256 secrets. This
// is a containment boundary: compromise of one secret does not allow forging
// the other token kind, and a refresh token presented where an access token
// is expected fails signature verification outright.
//
// # Failure kinds
//
// Verification failures are reported as one of three sentinel errors so the
// caller can pick a re-authenticate vs. refresh flow:
//
//   - [ErrExpired] — well-formed, correctly signed, past its expiry.
//   - [ErrBadSignature] — the signature does not verify under the expected secret.
//   - [ErrMalformed] — not a parseable token at all.
//
// # What this package must NOT do
//
//   - Persist anything — tokens exist only as signed strings plus claims.
//   - Import any other authcore package.
package token
