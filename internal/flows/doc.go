// Package flows contains the session orchestration logic (login, refresh,
// logout, register, password change, and request verification) expressed as
// free functions over explicit dependency structs.
//
// # Architecture boundaries
//
// Flows never import the root package; the engine injects its sentinel
// errors, token operations, and store adapters through the Deps structs.
// Flows classify failures (refresh uses RefreshFailureKind) and leave the
// caller-facing error mapping to the engine.
package flows
