package flows

import "context"

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	ClearRefresh func(ctx context.Context, identityID string) error

	MetricInc    func(int)
	MetricLogout int
}

// RunLogout clears the identity's stored refresh token. Clearing an
// already-empty value is a no-op success, so logout is idempotent.
func RunLogout(ctx context.Context, identityID string, deps LogoutDeps) error {
	if err := deps.ClearRefresh(ctx, identityID); err != nil {
		return err
	}
	if deps.MetricInc != nil {
		deps.MetricInc(deps.MetricLogout)
	}
	return nil
}
