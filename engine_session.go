package authcore

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/vidara/authcore/internal/flows"
	"github.com/vidara/authcore/session"
)

// Login verifies the credential for login (username or email) and, on
// success, issues a token pair and persists the refresh token as the
// identity's single live session. Any previous session is displaced.
func (e *Engine) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	if e == nil || !e.flows.Initialized() {
		return nil, ErrEngineNotReady
	}

	result, err := e.flows.Login(ctx, login, password)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Identity: identityFromRecord(result.Identity).Sanitized(),
		Tokens: TokenPair{
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
		},
	}, nil
}

// Refresh rotates a refresh token: the presented token is consumed and a new
// pair is issued. A token that is expired, tampered with, unknown, or
// already rotated fails with ErrTokenInvalid. Reuse of a rotated token is
// counted separately in metrics but is not distinguishable in the result.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if e == nil || !e.flows.Initialized() {
		return nil, ErrEngineNotReady
	}

	result := e.flows.Refresh(ctx, refreshToken)
	switch result.Failure {
	case flows.RefreshFailureNone:
		e.metricInc(int(MetricRefreshSuccess))
		return &TokenPair{
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
		}, nil
	case flows.RefreshFailureReuse:
		e.metricInc(int(MetricRefreshReuseDetected))
		e.metricInc(int(MetricRefreshFailure))
		e.warn("refresh token reuse detected for identity %s", result.IdentityID)
		return nil, ErrTokenInvalid
	case flows.RefreshFailureMissingToken,
		flows.RefreshFailureParse,
		flows.RefreshFailureIdentityNotFound,
		flows.RefreshFailureNoSession:
		e.metricInc(int(MetricRefreshFailure))
		return nil, ErrTokenInvalid
	default:
		e.metricInc(int(MetricRefreshFailure))
		if errors.Is(result.Err, session.ErrRedisUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrSessionUnavailable, result.Err)
		}
		return nil, result.Err
	}
}

// Logout clears the identity's stored refresh token. Logging out an identity
// with no live session succeeds.
func (e *Engine) Logout(ctx context.Context, identityID string) error {
	if e == nil || !e.flows.Initialized() {
		return ErrEngineNotReady
	}
	if identityID == "" {
		return ErrFieldRequired
	}
	return e.flows.Logout(ctx, identityID)
}

// VerifyAccessToken authenticates an access token and resolves the sanitized
// identity behind it. Server-only fields such as the password hash do not
// cross this boundary. All token failures surface as ErrUnauthorized.
func (e *Engine) VerifyAccessToken(ctx context.Context, accessToken string) (*SanitizedIdentity, error) {
	if e == nil || !e.flows.Initialized() {
		return nil, ErrEngineNotReady
	}

	rec, err := e.flows.Verify(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	sanitized := identityFromRecord(*rec).Sanitized()
	return &sanitized, nil
}

// VerifyRequest authenticates an incoming request by its access token,
// taken from the accessToken cookie or the Authorization bearer header.
func (e *Engine) VerifyRequest(r *http.Request) (*SanitizedIdentity, error) {
	return e.VerifyAccessToken(r.Context(), AccessTokenFromRequest(r))
}
