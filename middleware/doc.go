// Package middleware exposes an HTTP guard built on top of
// authcore.Engine request verification.
//
// [Guard] reads the access token from the accessToken cookie or the
// Authorization bearer header, calls Engine.VerifyRequest, and injects the
// authenticated identity into the request context for
// [authcore.IdentityFromContext].
//
// This package translates HTTP semantics into Engine calls. It does not
// parse tokens or touch Redis itself; all decisions are delegated to the
// Engine.
package middleware
