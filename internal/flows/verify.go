package flows

import (
	"context"
	"errors"
)

// VerifyMetrics carries metric IDs for the request verification flow.
type VerifyMetrics struct {
	VerifySuccess int
	VerifyFailure int
}

// VerifyDeps captures request verification flow dependencies.
type VerifyDeps struct {
	ParseAccess func(token string) (identityID string, err error)
	FindByID    func(ctx context.Context, id string) (IdentityRecord, error)

	IdentityNotFound error
	Unauthorized     error

	MetricInc func(int)
	Metrics   VerifyMetrics
}

// RunVerify authenticates an access token and resolves its identity. All
// token failures collapse to the unauthorized sentinel so callers cannot
// distinguish expiry from tampering.
func RunVerify(ctx context.Context, accessToken string, deps VerifyDeps) (*IdentityRecord, error) {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}

	if accessToken == "" {
		deps.MetricInc(deps.Metrics.VerifyFailure)
		return nil, deps.Unauthorized
	}

	identityID, err := deps.ParseAccess(accessToken)
	if err != nil {
		deps.MetricInc(deps.Metrics.VerifyFailure)
		return nil, deps.Unauthorized
	}

	identity, err := deps.FindByID(ctx, identityID)
	if err != nil {
		deps.MetricInc(deps.Metrics.VerifyFailure)
		if errors.Is(err, deps.IdentityNotFound) {
			return nil, deps.Unauthorized
		}
		return nil, err
	}

	deps.MetricInc(deps.Metrics.VerifySuccess)
	return &identity, nil
}
