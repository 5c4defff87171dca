package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	authcore "github.com/vidara/authcore"
	"github.com/vidara/authcore/password"
)

func hashForTest(cfg authcore.Config) (string, error) {
	hasher, err := password.NewHasher(cfg.Password)
	if err != nil {
		return "", err
	}
	return hasher.Hash("correct-horse")
}

type singleIdentityStore struct {
	identity authcore.Identity
}

func (s *singleIdentityStore) FindByLogin(_ context.Context, login string) (*authcore.Identity, error) {
	if login == s.identity.Username || login == s.identity.Email {
		out := s.identity
		return &out, nil
	}
	return nil, authcore.ErrIdentityNotFound
}

func (s *singleIdentityStore) FindByID(_ context.Context, id string) (*authcore.Identity, error) {
	if id == s.identity.ID {
		out := s.identity
		return &out, nil
	}
	return nil, authcore.ErrIdentityNotFound
}

func (s *singleIdentityStore) Exists(context.Context, string, string) (bool, error) {
	return true, nil
}

func (s *singleIdentityStore) Create(context.Context, authcore.CreateIdentityInput) (*authcore.Identity, error) {
	return nil, authcore.ErrIdentityExists
}

func (s *singleIdentityStore) UpdatePasswordHash(context.Context, string, string) error {
	return nil
}

func newGuardedHandler(t *testing.T) (*authcore.Engine, http.Handler, string) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := authcore.DefaultConfig([]byte("guard-access"), []byte("guard-refresh"))
	cfg.Password.Cost = 4
	cfg.Token.AccessTTL = time.Minute

	store := &singleIdentityStore{}
	engine, err := authcore.New(cfg, rdb, store, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	seed, err := hashForTest(cfg)
	if err != nil {
		t.Fatalf("seed hash failed: %v", err)
	}
	store.identity = authcore.Identity{
		ID:           "identity-1",
		Username:     "alice",
		Email:        "alice@example.com",
		FullName:     "Alice Example",
		PasswordHash: seed,
	}

	login, err := engine.Login(context.Background(), "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	handler := Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authcore.IdentityFromContext(r.Context())
		if !ok {
			t.Error("identity missing from guarded request context")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// The context carries the sanitized view; serializing it must not
		// expose the stored password hash.
		if raw, err := json.Marshal(identity); err != nil || strings.Contains(string(raw), seed) {
			t.Errorf("context identity leaks credential material: %s", raw)
		}
		_, _ = w.Write([]byte(identity.Username))
	}))

	return engine, handler, login.Tokens.AccessToken
}

func TestGuardAllowsValidToken(t *testing.T) {
	_, handler, access := newGuardedHandler(t)

	t.Run("cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/me", nil)
		r.AddCookie(&http.Cookie{Name: authcore.AccessTokenCookie, Value: access})

		handler.ServeHTTP(rec, r)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if rec.Body.String() != "alice" {
			t.Fatalf("body = %q", rec.Body.String())
		}
	})

	t.Run("bearer header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/me", nil)
		r.Header.Set("Authorization", "Bearer "+access)

		handler.ServeHTTP(rec, r)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})
}

func TestGuardRejects(t *testing.T) {
	_, handler, _ := newGuardedHandler(t)

	tests := []struct {
		name    string
		prepare func(*http.Request)
	}{
		{"no token", func(*http.Request) {}},
		{"garbage token", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer garbage")
		}},
		{"garbage cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: authcore.AccessTokenCookie, Value: "garbage"})
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/me", nil)
			tc.prepare(r)

			handler.ServeHTTP(rec, r)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestGuardNilEngine(t *testing.T) {
	handler := Guard(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("next handler reached with nil engine")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
