package flows

// IdentityRecord is the flow-local identity model. The engine converts
// between this and its public Identity type.
type IdentityRecord struct {
	ID            string
	Username      string
	Email         string
	FullName      string
	PasswordHash  string
	AvatarURL     string
	CoverImageURL string
}

// Deps groups flow dependency sets. The engine builds this once and
// delegates request methods to the matching flow implementation.
type Deps struct {
	Login    LoginDeps
	Refresh  RefreshDeps
	Logout   LogoutDeps
	Register RegisterDeps
	Password PasswordDeps
	Verify   VerifyDeps
}
