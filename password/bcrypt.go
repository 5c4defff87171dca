package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the bcrypt work factor used when Config.Cost is zero.
	DefaultCost = 10

	defaultMaxConcurrent = 16
)

// Config controls the hashing work factor and the concurrency gate.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable.
type Config struct {
	// Cost is the bcrypt work factor. Zero selects DefaultCost.
	Cost int

	// MaxConcurrent bounds how many hash/verify operations may run at once.
	// Hashing is deliberately CPU-expensive; the gate keeps a login burst
	// from starving request handling. Zero selects a default, negative
	// disables the gate. Correctness does not depend on it.
	MaxConcurrent int
}

// Hasher hashes and verifies passwords with a fixed bcrypt cost.
type Hasher struct {
	cost int
	gate chan struct{}
}

// NewHasher validates cfg and returns a ready Hasher.
func NewHasher(cfg Config) (*Hasher, error) {
	cost := cfg.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("password cost out of bcrypt range")
	}

	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent == 0 {
		maxConcurrent = defaultMaxConcurrent
	}

	h := &Hasher{cost: cost}
	if maxConcurrent > 0 {
		h.gate = make(chan struct{}, maxConcurrent)
	}
	return h, nil
}

// Hash applies a salted one-way bcrypt hash to plaintext. The salt is random
// per call, so repeated calls with the same plaintext produce different
// outputs.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("empty password")
	}

	h.acquire()
	defer h.release()

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hashedSecret. The underlying
// comparison is constant-time with respect to the derived key bytes. A
// mismatch, a malformed hash, or an empty input all report false, never an
// error.
func (h *Hasher) Verify(plaintext, hashedSecret string) bool {
	if plaintext == "" || hashedSecret == "" {
		return false
	}

	h.acquire()
	defer h.release()

	return bcrypt.CompareHashAndPassword([]byte(hashedSecret), []byte(plaintext)) == nil
}

func (h *Hasher) acquire() {
	if h.gate != nil {
		h.gate <- struct{}{}
	}
}

func (h *Hasher) release() {
	if h.gate != nil {
		<-h.gate
	}
}
