package flows

import (
	"context"
	"errors"
)

// PasswordErrors carries host-level sentinel errors for password change.
type PasswordErrors struct {
	EngineNotReady     error
	Validation         error
	NotFound           error
	InvalidCredentials error
}

// PasswordMetrics carries metric IDs for the password change flow.
type PasswordMetrics struct {
	ChangeSuccess int
	ChangeFailure int
}

// PasswordDeps captures password change flow dependencies.
type PasswordDeps struct {
	FindByID           func(ctx context.Context, id string) (IdentityRecord, error)
	VerifyPassword     func(plaintext, hash string) bool
	HashPassword       func(plaintext string) (string, error)
	UpdatePasswordHash func(ctx context.Context, identityID, newHash string) error

	MetricInc func(int)
	Metrics   PasswordMetrics
	Errors    PasswordErrors
}

// RunChangePassword verifies the current password and swaps in a hash of
// the new one. Existing sessions stay valid; only the credential changes.
func RunChangePassword(ctx context.Context, identityID, oldPassword, newPassword string, deps PasswordDeps) error {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.FindByID == nil ||
		deps.VerifyPassword == nil ||
		deps.HashPassword == nil ||
		deps.UpdatePasswordHash == nil {
		return deps.Errors.EngineNotReady
	}

	if identityID == "" || oldPassword == "" || newPassword == "" {
		deps.MetricInc(deps.Metrics.ChangeFailure)
		return deps.Errors.Validation
	}

	identity, err := deps.FindByID(ctx, identityID)
	if err != nil {
		deps.MetricInc(deps.Metrics.ChangeFailure)
		if errors.Is(err, deps.Errors.NotFound) {
			return deps.Errors.NotFound
		}
		return err
	}

	if !deps.VerifyPassword(oldPassword, identity.PasswordHash) {
		deps.MetricInc(deps.Metrics.ChangeFailure)
		return deps.Errors.InvalidCredentials
	}

	hash, err := deps.HashPassword(newPassword)
	if err != nil {
		deps.MetricInc(deps.Metrics.ChangeFailure)
		return err
	}

	if err := deps.UpdatePasswordHash(ctx, identityID, hash); err != nil {
		deps.MetricInc(deps.Metrics.ChangeFailure)
		return err
	}

	deps.MetricInc(deps.Metrics.ChangeSuccess)
	return nil
}
