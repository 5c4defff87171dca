package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned when no refresh token is live for the identity.
var ErrNoSession = errors.New("no live session")

// ErrTokenMismatch is returned when a presented refresh token hash differs
// from the stored current value. This is the reuse/theft indicator.
var ErrTokenMismatch = errors.New("refresh token mismatch")

// ErrRedisUnavailable wraps transport-level Redis failures.
var ErrRedisUnavailable = errors.New("redis unavailable")

const (
	rotateStatusNotFound int64 = 0
	rotateStatusMismatch int64 = 2
	rotateStatusRotated  int64 = 3
)

const rotateScript = `
local current = redis.call("GET", KEYS[1])
if not current then
  return 0
end
if current ~= ARGV[1] then
  return 2
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 3
`

var rotateLua = redis.NewScript(rotateScript)

// Store is the Redis-backed session store adapter.
type Store struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewStore creates a Store. prefix namespaces the Redis keys; ttl is the
// refresh token lifetime and bounds how long an orphaned record can outlive
// its token.
func NewStore(client redis.UniversalClient, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "rt"
	}
	return &Store{redis: client, prefix: prefix, ttl: ttl}
}

func (s *Store) key(identityID string) string {
	return s.prefix + ":" + identityID
}

// TokenHash is the canonical digest under which refresh tokens are stored
// and compared.
func TokenHash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Persist overwrites the identity's current refresh token in a single atomic
// write, invalidating any prior value.
func (s *Store) Persist(ctx context.Context, identityID, refreshToken string) error {
	if err := s.redis.Set(ctx, s.key(identityID), TokenHash(refreshToken), s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Current returns the stored token hash for the identity, or ErrNoSession.
func (s *Store) Current(ctx context.Context, identityID string) (string, error) {
	hash, err := s.redis.Get(ctx, s.key(identityID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return hash, nil
}

// Rotate atomically replaces the stored refresh token with next, but only if
// the stored value still equals presented. Exactly one of any set of
// concurrent rotations for the same presented token can succeed.
//
// Returns ErrNoSession when nothing is stored (logged out or expired) and
// ErrTokenMismatch when the stored value differs, meaning the presented token
// was already rotated. The stored value is not modified on mismatch.
func (s *Store) Rotate(ctx context.Context, identityID, presented, next string) error {
	status, err := rotateLua.Run(
		ctx,
		s.redis,
		[]string{s.key(identityID)},
		TokenHash(presented),
		TokenHash(next),
		s.ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	switch status {
	case rotateStatusNotFound:
		return ErrNoSession
	case rotateStatusMismatch:
		return ErrTokenMismatch
	case rotateStatusRotated:
		return nil
	default:
		return fmt.Errorf("%w: unknown rotate script status %d", ErrRedisUnavailable, status)
	}
}

// Clear removes the identity's session record. Clearing an absent record is
// a no-op success, making logout idempotent.
func (s *Store) Clear(ctx context.Context, identityID string) error {
	if err := s.redis.Del(ctx, s.key(identityID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}
