package authcore

import (
	"net/http"
	"time"

	"github.com/vidara/authcore/password"
	"github.com/vidara/authcore/token"
)

// SessionConfig controls the Redis session store.
type SessionConfig struct {
	// RedisPrefix namespaces session keys. Defaults to "rt".
	RedisPrefix string
}

// CookieConfig controls the session cookies written by SetSessionCookies.
// HttpOnly is always set and not configurable.
type CookieConfig struct {
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// MetricsConfig toggles the engine's internal counters.
type MetricsConfig struct {
	Enabled bool
}

// Config is the full engine configuration. Build it with DefaultConfig and
// override what differs.
type Config struct {
	Token    token.Config
	Password password.Config
	Session  SessionConfig
	Cookie   CookieConfig
	Metrics  MetricsConfig
}

// DefaultConfig returns a production-leaning configuration: 15 minute access
// tokens, 7 day refresh tokens, bcrypt at the default cost, secure cookies.
func DefaultConfig(accessSecret, refreshSecret []byte) Config {
	return Config{
		Token: token.Config{
			AccessSecret:  accessSecret,
			RefreshSecret: refreshSecret,
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
			Issuer:        "authcore",
			Leeway:        30 * time.Second,
		},
		Password: password.Config{
			Cost: password.DefaultCost,
		},
		Session: SessionConfig{
			RedisPrefix: "rt",
		},
		Cookie: CookieConfig{
			Path:     "/",
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func (c Config) withDefaults() Config {
	if c.Session.RedisPrefix == "" {
		c.Session.RedisPrefix = "rt"
	}
	if c.Cookie.Path == "" {
		c.Cookie.Path = "/"
	}
	return c
}
