package authcore

import (
	"context"

	"github.com/vidara/authcore/internal/flows"
)

// Register creates a new identity. Username and email are normalized to
// lower case and checked for collisions before any upload happens. The
// avatar upload is mandatory; a failed cover upload logs a warning and the
// identity is created without one.
func (e *Engine) Register(ctx context.Context, in RegisterInput) (*SanitizedIdentity, error) {
	if e == nil || !e.flows.Initialized() {
		return nil, ErrEngineNotReady
	}

	created, err := e.flows.Register(ctx, flows.RegisterInput{
		Username:  in.Username,
		Email:     in.Email,
		FullName:  in.FullName,
		Password:  in.Password,
		AvatarRef: in.AvatarRef,
		CoverRef:  in.CoverRef,
	})
	if err != nil {
		return nil, err
	}

	sanitized := identityFromRecord(*created).Sanitized()
	return &sanitized, nil
}

// ChangePassword verifies the current password and replaces the stored hash.
// Existing sessions are left intact; the refresh token keeps working.
func (e *Engine) ChangePassword(ctx context.Context, identityID, oldPassword, newPassword string) error {
	if e == nil || !e.flows.Initialized() {
		return ErrEngineNotReady
	}
	return e.flows.ChangePassword(ctx, identityID, oldPassword, newPassword)
}
