package token

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel verification failures. See the package documentation for how
// callers are expected to branch on them.
var (
	// ErrExpired reports a correctly signed token past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrMalformed reports input that is not a parseable token.
	ErrMalformed = errors.New("token malformed")
	// ErrBadSignature reports a signature that does not verify under the
	// secret for the requested token kind.
	ErrBadSignature = errors.New("token signature invalid")
)

// Subject is the identity view embedded into an access token's claim set.
type Subject struct {
	ID       string
	Username string
	Email    string
	FullName string
}

// AccessClaims is the full claim set carried by access tokens, letting the
// request path authorize without a store lookup.
type AccessClaims struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
	jwt.RegisteredClaims
}

// RefreshClaims carries only the identity id, minimizing blast radius if a
// refresh token leaks.
type RefreshClaims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// Config holds the signing secrets and expiry policy. Passed explicitly at
// construction; the manager never reads process environment.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Leeway        time.Duration
}

// Manager mints and verifies both token kinds. Safe for concurrent use.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a ready Manager. A missing, shared,
// or misconfigured secret is a startup-class failure, not a per-request one.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.AccessSecret) == 0 {
		return nil, errors.New("access token secret is required")
	}
	if len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("refresh token secret is required")
	}
	if bytes.Equal(cfg.AccessSecret, cfg.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Manager{config: cfg}, nil
}

// IssueAccess mints a signed access token for sub. The returned claims carry
// the issued-at and expiry timestamps.
func (m *Manager) IssueAccess(sub Subject) (string, *AccessClaims, error) {
	now := time.Now()
	claims := &AccessClaims{
		UID:      sub.ID,
		Username: sub.Username,
		Email:    sub.Email,
		FullName: sub.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   sub.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.AccessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.AccessSecret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// IssueRefresh mints a signed refresh token for the identity id.
func (m *Manager) IssueRefresh(id string) (string, *RefreshClaims, error) {
	now := time.Now()
	claims := &RefreshClaims{
		UID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.RefreshTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.RefreshSecret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ParseAccess verifies signature and expiry of an access token and returns
// its claims. Failures map onto the package sentinel errors.
func (m *Manager) ParseAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := m.parse(tokenStr, claims, m.config.AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseRefresh verifies signature and expiry of a refresh token and returns
// its claims. Failures map onto the package sentinel errors.
func (m *Manager) ParseRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := m.parse(tokenStr, claims, m.config.RefreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (m *Manager) parse(tokenStr string, claims jwt.Claims, secret []byte) error {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parsed, err := jwt.NewParser(options...).ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return classify(err)
	}
	if !parsed.Valid {
		return fmt.Errorf("%w: claims rejected", ErrMalformed)
	}
	return nil
}

// classify collapses golang-jwt's error surface into the three failure kinds
// callers branch on.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
