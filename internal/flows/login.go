package flows

import (
	"context"
	"errors"
)

// LoginResult is the flow-local login response shape.
type LoginResult struct {
	Identity     IdentityRecord
	AccessToken  string
	RefreshToken string
}

// LoginMetrics carries metric IDs needed by the login flow.
type LoginMetrics struct {
	LoginSuccess int
	LoginFailure int
}

// LoginErrors carries host-level sentinel errors used by the login flow.
type LoginErrors struct {
	EngineNotReady     error
	Validation         error
	NotFound           error
	InvalidCredentials error
}

// LoginDeps captures login flow dependencies.
type LoginDeps struct {
	FindByLogin       func(ctx context.Context, login string) (IdentityRecord, error)
	VerifyPassword    func(plaintext, hash string) bool
	IssueAccessToken  func(IdentityRecord) (string, error)
	IssueRefreshToken func(identityID string) (string, error)
	PersistRefresh    func(ctx context.Context, identityID, refreshToken string) error

	MetricInc func(int)
	Metrics   LoginMetrics
	Errors    LoginErrors
}

// RunLogin verifies credentials, mints a token pair, and persists the
// refresh token as the identity's single live session.
func RunLogin(ctx context.Context, login, password string, deps LoginDeps) (*LoginResult, error) {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.FindByLogin == nil ||
		deps.VerifyPassword == nil ||
		deps.IssueAccessToken == nil ||
		deps.IssueRefreshToken == nil ||
		deps.PersistRefresh == nil {
		return nil, deps.Errors.EngineNotReady
	}

	if login == "" || password == "" {
		deps.MetricInc(deps.Metrics.LoginFailure)
		return nil, deps.Errors.Validation
	}

	identity, err := deps.FindByLogin(ctx, login)
	if err != nil {
		deps.MetricInc(deps.Metrics.LoginFailure)
		if errors.Is(err, deps.Errors.NotFound) {
			return nil, deps.Errors.NotFound
		}
		return nil, err
	}

	if !deps.VerifyPassword(password, identity.PasswordHash) {
		deps.MetricInc(deps.Metrics.LoginFailure)
		return nil, deps.Errors.InvalidCredentials
	}

	access, err := deps.IssueAccessToken(identity)
	if err != nil {
		deps.MetricInc(deps.Metrics.LoginFailure)
		return nil, err
	}
	refresh, err := deps.IssueRefreshToken(identity.ID)
	if err != nil {
		deps.MetricInc(deps.Metrics.LoginFailure)
		return nil, err
	}

	// The persisted value is what makes this refresh token the one live
	// session; issuing before persisting means a persist failure leaks no
	// usable session.
	if err := deps.PersistRefresh(ctx, identity.ID, refresh); err != nil {
		deps.MetricInc(deps.Metrics.LoginFailure)
		return nil, err
	}

	deps.MetricInc(deps.Metrics.LoginSuccess)
	return &LoginResult{
		Identity:     identity,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
