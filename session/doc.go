// Package session persists the single currently-valid refresh token per
// identity and is the reuse-detection boundary of the engine.
//
// # Storage model
//
// One Redis key per identity ("<prefix>:<identityID>") holding the SHA-256
// hash of the current refresh token, with a TTL equal to the refresh token
// lifetime. The token itself is never stored. A dedicated keyed store rather
// than a field on the identity record keeps session lifecycle off the
// identity's mutation path and leaves room for multi-session support.
//
// # Rotation protocol
//
// [Store.Rotate] is an atomic Lua compare-and-swap: the stored hash is
// compared to the presented one and replaced with the next hash in a single
// Redis script. Two concurrent refreshes presenting the same not-yet-rotated
// token therefore produce exactly one winner; the loser observes
// [ErrTokenMismatch]. A mismatch leaves the stored value untouched, so the
// legitimate holder of the current token is not logged out by a replayed
// stale one.
//
// # What this package must NOT do
//
//   - Verify token signatures or expiry — that is the token package's job.
//   - Decide caller-facing failure kinds — the Engine maps mismatches.
package session
