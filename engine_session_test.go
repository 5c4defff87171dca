package authcore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/vidara/authcore/session"
)

func TestLoginSuccess(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	seedIdentity(t, engine, store, "correct-horse")
	ctx := context.Background()

	result, err := engine.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}
	if result.Identity.Username != "alice" || result.Identity.Email != "alice@example.com" {
		t.Fatalf("unexpected identity in result: %+v", result.Identity)
	}

	// The refresh token must be live in the session store, stored hashed.
	current, err := engine.sessions.Current(ctx, "identity-1")
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if current != session.TokenHash(result.Tokens.RefreshToken) {
		t.Fatal("stored session hash does not match the issued refresh token")
	}
	if current == result.Tokens.RefreshToken {
		t.Fatal("refresh token stored in plaintext")
	}

	if got := engine.MetricsSnapshot().Counters[MetricLoginSuccess]; got != 1 {
		t.Fatalf("login success counter = %d, want 1", got)
	}
}

func TestLoginByEmail(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	seedIdentity(t, engine, store, "correct-horse")

	if _, err := engine.Login(context.Background(), "alice@example.com", "correct-horse"); err != nil {
		t.Fatalf("Login by email failed: %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	seedIdentity(t, engine, store, "correct-horse")
	ctx := context.Background()

	tests := []struct {
		name     string
		login    string
		password string
		want     error
	}{
		{"wrong password", "alice", "wrong-horse", ErrInvalidCredentials},
		{"unknown user", "mallory", "correct-horse", ErrIdentityNotFound},
		{"empty login", "", "correct-horse", ErrFieldRequired},
		{"empty password", "alice", "", ErrFieldRequired},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Login(ctx, tc.login, tc.password)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}

	if got := engine.MetricsSnapshot().Counters[MetricLoginFailure]; got != 4 {
		t.Fatalf("login failure counter = %d, want 4", got)
	}
}

func TestLoginStoreFailureIsDependencyError(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	store.findErr = errors.New("connection refused")

	_, err := engine.Login(context.Background(), "alice", "correct-horse")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("got %v, want ErrStoreUnavailable", err)
	}
	if KindOf(err) != KindDependencyFailure {
		t.Fatalf("KindOf = %v, want KindDependencyFailure", KindOf(err))
	}
}

func TestLoginDisplacesPreviousSession(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	seedIdentity(t, engine, store, "correct-horse")
	ctx := context.Background()

	first, err := engine.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("first Login failed: %v", err)
	}
	if _, err := engine.Login(ctx, "alice", "correct-horse"); err != nil {
		t.Fatalf("second Login failed: %v", err)
	}

	if _, err := engine.Refresh(ctx, first.Tokens.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("refresh with displaced token: got %v, want ErrTokenInvalid", err)
	}
}

func TestRefreshRotation(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	seedIdentity(t, engine, store, "correct-horse")
	ctx := context.Background()

	login, err := engine.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	pair, err := engine.Refresh(ctx, login.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if pair.RefreshToken == login.Tokens.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}
	if pair.AccessToken == "" {
		t.Fatal("no access token issued on refresh")
	}

	// The new token is the live session now.
	current, err := engine.sessions.Current(ctx, "identity-1")
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if current != session.TokenHash(pair.RefreshToken) {
		t.Fatal("stored session hash does not match the rotated token")
	}

	if got := engine.MetricsSnapshot().Counters[MetricRefreshSuccess]; got != 1 {
		t.Fatalf("refresh success counter = %d, want 1", got)
	}
}

func TestRefreshReuseDetection(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	seedIdentity(t, engine, store, "correct-horse")
	ctx := context.Background()

	login, err := engine.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	pair, err := engine.Refresh(ctx, login.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	// Presenting the consumed token again is reuse. Externally it must be
	// the same error as any other bad token.
	_, err = engine.Refresh(ctx, login.Tokens.RefreshToken)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("reuse: got %v, want ErrTokenInvalid", err)
	}

	// The reuse attempt must not disturb the live session.
	current, err := engine.sessions.Current(ctx, "identity-1")
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if current != session.TokenHash(pair.RefreshToken) {
		t.Fatal("reuse attempt changed the stored session value")
	}

	// The still-valid token keeps working.
	if _, err := engine.Refresh(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("valid token rejected after reuse attempt: %v", err)
	}

	snapshot := engine.MetricsSnapshot()
	if got := snapshot.Counters[MetricRefreshReuseDetected]; got != 1 {
		t.Fatalf("reuse counter = %d, want 1", got)
	}
}

func TestRefreshRejectsBadTokens(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	seedIdentity(t, engine, store, "correct-horse")
	ctx := context.Background()

	login, err := engine.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// An access token must never pass as a refresh token; they are signed
	// with different secrets.
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"access token as refresh", login.Tokens.AccessToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := engine.Refresh(ctx, tc.token); !errors.Is(err, ErrTokenInvalid) {
				t.Fatalf("got %v, want ErrTokenInvalid", err)
			}
		})
	}
}

func TestRefreshAfterLogout(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	seedIdentity(t, engine, store, "correct-horse")
	ctx := context.Background()

	login, err := engine.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := engine.Logout(ctx, "identity-1"); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if _, err := engine.Refresh(ctx, login.Tokens.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("refresh after logout: got %v, want ErrTokenInvalid", err)
	}
}

func TestRefreshForDeletedIdentity(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	seedIdentity(t, engine, store, "correct-horse")
	ctx := context.Background()

	login, err := engine.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	store.mu.Lock()
	delete(store.byID, "identity-1")
	store.mu.Unlock()

	if _, err := engine.Refresh(ctx, login.Tokens.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("refresh for deleted identity: got %v, want ErrTokenInvalid", err)
	}
}

func TestConcurrentRefreshSingleWinner(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	seedIdentity(t, engine, store, "correct-horse")
	ctx := context.Background()

	login, err := engine.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	const workers = 8
	var (
		wg        sync.WaitGroup
		successMu sync.Mutex
		successes int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := engine.Refresh(ctx, login.Tokens.RefreshToken); err == nil {
				successMu.Lock()
				successes++
				successMu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("concurrent refresh winners = %d, want exactly 1", successes)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	seedIdentity(t, engine, store, "correct-horse")
	ctx := context.Background()

	if err := engine.Logout(ctx, "identity-1"); err != nil {
		t.Fatalf("logout with no session failed: %v", err)
	}
	if err := engine.Logout(ctx, "identity-1"); err != nil {
		t.Fatalf("repeated logout failed: %v", err)
	}
	if err := engine.Logout(ctx, ""); !errors.Is(err, ErrFieldRequired) {
		t.Fatalf("logout with empty id: got %v, want ErrFieldRequired", err)
	}
}

func TestVerifyAccessToken(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	seeded := seedIdentity(t, engine, store, "correct-horse")
	ctx := context.Background()

	login, err := engine.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	identity, err := engine.VerifyAccessToken(ctx, login.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccessToken failed: %v", err)
	}
	if identity.ID != "identity-1" || identity.Username != "alice" {
		t.Fatalf("unexpected identity: %+v", identity)
	}

	// The sanitized view is what downstream handlers serialize. The stored
	// password hash must not survive into it.
	raw, err := json.Marshal(identity)
	if err != nil {
		t.Fatalf("marshal identity: %v", err)
	}
	if strings.Contains(string(raw), seeded.PasswordHash) {
		t.Fatalf("verified identity leaks the password hash: %s", raw)
	}

	for _, bad := range []string{"", "garbage", login.Tokens.RefreshToken} {
		if _, err := engine.VerifyAccessToken(ctx, bad); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("token %q: got %v, want ErrUnauthorized", bad, err)
		}
	}
}

func TestVerifyRequest(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	seeded := seedIdentity(t, engine, store, "correct-horse")
	ctx := context.Background()

	login, err := engine.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	t.Run("cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/me", nil)
		r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: login.Tokens.AccessToken})

		identity, err := engine.VerifyRequest(r)
		if err != nil {
			t.Fatalf("VerifyRequest failed: %v", err)
		}
		if identity.ID != "identity-1" {
			t.Fatalf("unexpected identity: %+v", identity)
		}
		raw, err := json.Marshal(identity)
		if err != nil {
			t.Fatalf("marshal identity: %v", err)
		}
		if strings.Contains(string(raw), seeded.PasswordHash) {
			t.Fatalf("request identity leaks the password hash: %s", raw)
		}
	})

	t.Run("bearer header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/me", nil)
		r.Header.Set("Authorization", "Bearer "+login.Tokens.AccessToken)

		if _, err := engine.VerifyRequest(r); err != nil {
			t.Fatalf("VerifyRequest failed: %v", err)
		}
	})

	t.Run("no token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/me", nil)
		if _, err := engine.VerifyRequest(r); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("got %v, want ErrUnauthorized", err)
		}
	})
}

func TestAccessTokenStillValidAfterLogout(t *testing.T) {
	// Access tokens are stateless by design; logout only kills the refresh
	// session. Short access TTLs bound the exposure.
	engine, store, _ := newTestEngine(t)
	seedIdentity(t, engine, store, "correct-horse")
	ctx := context.Background()

	login, err := engine.Login(ctx, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := engine.Logout(ctx, "identity-1"); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if _, err := engine.VerifyAccessToken(ctx, login.Tokens.AccessToken); err != nil {
		t.Fatalf("access token rejected after logout: %v", err)
	}
}
