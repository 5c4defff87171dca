package flows

import "context"

// Service is the centralized flow runner built once by the root engine.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.Verify.ParseAccess != nil
}

func (s Service) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	return RunLogin(ctx, login, password, s.deps.Login)
}

func (s Service) Refresh(ctx context.Context, presented string) RefreshResult {
	return RunRefresh(ctx, presented, s.deps.Refresh)
}

func (s Service) Logout(ctx context.Context, identityID string) error {
	return RunLogout(ctx, identityID, s.deps.Logout)
}

func (s Service) Register(ctx context.Context, in RegisterInput) (*IdentityRecord, error) {
	return RunRegister(ctx, in, s.deps.Register)
}

func (s Service) ChangePassword(ctx context.Context, identityID, oldPassword, newPassword string) error {
	return RunChangePassword(ctx, identityID, oldPassword, newPassword, s.deps.Password)
}

func (s Service) Verify(ctx context.Context, accessToken string) (*IdentityRecord, error) {
	return RunVerify(ctx, accessToken, s.deps.Verify)
}
