// Package password implements credential hashing and verification with bcrypt.
//
// # Output format
//
// Hashes use the standard bcrypt modular crypt format produced by
// golang.org/x/crypto/bcrypt, which embeds the cost and a per-call random
// salt. Hashing the same plaintext twice therefore yields different strings;
// only [Hasher.Verify] can relate a plaintext to a stored hash.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. A verification mismatch is
// reported as boolean false, never as an error; the Engine decides the
// caller-facing failure kind.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive hashes.
//   - Import any other authcore package.
//   - Log plaintext passwords.
package password
