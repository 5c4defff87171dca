package flows

import (
	"context"
	"errors"
	"strings"
)

// RegisterInput carries the raw registration request.
type RegisterInput struct {
	Username  string
	Email     string
	FullName  string
	Password  string
	AvatarRef string
	CoverRef  string
}

// RegisterErrors carries host-level sentinel errors used by registration.
type RegisterErrors struct {
	EngineNotReady   error
	Validation       error
	EmailInvalid     error
	Conflict         error
	MediaUnavailable error
}

// RegisterDeps captures registration flow dependencies.
type RegisterDeps struct {
	LoginExists   func(ctx context.Context, username, email string) (bool, error)
	StoreMedia    func(ctx context.Context, fileRef string) (string, error)
	HashPassword  func(plaintext string) (string, error)
	NewID         func() string
	Create        func(ctx context.Context, rec IdentityRecord) (IdentityRecord, error)
	ValidateEmail func(email string) bool

	Warn      func(format string, args ...any)
	MetricInc func(int)
	Metrics   RegisterMetrics
	Errors    RegisterErrors
}

// RegisterMetrics carries metric IDs needed by the registration flow.
type RegisterMetrics struct {
	RegisterSuccess  int
	RegisterConflict int
}

// RunRegister creates a new identity. The avatar upload is mandatory; a
// failed cover upload degrades to an empty URL instead of failing the
// registration.
func RunRegister(ctx context.Context, in RegisterInput, deps RegisterDeps) (*IdentityRecord, error) {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}
	if deps.LoginExists == nil ||
		deps.StoreMedia == nil ||
		deps.HashPassword == nil ||
		deps.NewID == nil ||
		deps.Create == nil ||
		deps.ValidateEmail == nil {
		return nil, deps.Errors.EngineNotReady
	}

	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	fullName := strings.TrimSpace(in.FullName)

	if username == "" || email == "" || fullName == "" || in.Password == "" {
		return nil, deps.Errors.Validation
	}
	if !deps.ValidateEmail(email) {
		return nil, deps.Errors.EmailInvalid
	}
	if in.AvatarRef == "" {
		return nil, deps.Errors.Validation
	}

	exists, err := deps.LoginExists(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		deps.MetricInc(deps.Metrics.RegisterConflict)
		return nil, deps.Errors.Conflict
	}

	avatarURL, err := deps.StoreMedia(ctx, in.AvatarRef)
	if err != nil {
		return nil, deps.Errors.MediaUnavailable
	}

	coverURL := ""
	if in.CoverRef != "" {
		coverURL, err = deps.StoreMedia(ctx, in.CoverRef)
		if err != nil {
			deps.Warn("cover image upload failed for %s, continuing without: %v", username, err)
			coverURL = ""
		}
	}

	hash, err := deps.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := deps.Create(ctx, IdentityRecord{
		ID:            deps.NewID(),
		Username:      username,
		Email:         email,
		FullName:      fullName,
		PasswordHash:  hash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverURL,
	})
	if err != nil {
		if errors.Is(err, deps.Errors.Conflict) {
			deps.MetricInc(deps.Metrics.RegisterConflict)
		}
		return nil, err
	}

	deps.MetricInc(deps.Metrics.RegisterSuccess)
	return &created, nil
}
