package authcore

import (
	"context"
	"time"
)

// Identity is the full account record as seen by the engine, password hash
// included. Never serialize it to clients directly; use Sanitized.
type Identity struct {
	ID            string
	Username      string
	Email         string
	FullName      string
	PasswordHash  string
	AvatarURL     string
	CoverImageURL string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Sanitized strips server-only fields for client responses.
func (i Identity) Sanitized() SanitizedIdentity {
	return SanitizedIdentity{
		ID:            i.ID,
		Username:      i.Username,
		Email:         i.Email,
		FullName:      i.FullName,
		AvatarURL:     i.AvatarURL,
		CoverImageURL: i.CoverImageURL,
	}
}

// SanitizedIdentity is the client-safe identity projection.
type SanitizedIdentity struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FullName      string `json:"fullName"`
	AvatarURL     string `json:"avatar,omitempty"`
	CoverImageURL string `json:"coverImage,omitempty"`
}

// TokenPair is one issued access/refresh token pairing.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is returned by Engine.Login.
type LoginResult struct {
	Identity SanitizedIdentity `json:"user"`
	Tokens   TokenPair         `json:"tokens"`
}

// RegisterInput carries a registration request. AvatarRef and CoverRef are
// opaque file references handed to the MediaStore, typically local paths of
// received uploads.
type RegisterInput struct {
	Username  string
	Email     string
	FullName  string
	Password  string
	AvatarRef string
	CoverRef  string
}

// CreateIdentityInput is the record handed to IdentityStore.Create.
type CreateIdentityInput struct {
	ID            string
	Username      string
	Email         string
	FullName      string
	PasswordHash  string
	AvatarURL     string
	CoverImageURL string
}

// IdentityStore is the persistence port the engine drives. Implementations
// return ErrIdentityNotFound for absent records and ErrIdentityExists for
// uniqueness collisions; any other error is treated as a dependency failure.
type IdentityStore interface {
	// FindByLogin resolves a username or email to its identity.
	FindByLogin(ctx context.Context, login string) (*Identity, error)
	// FindByID resolves an identity id.
	FindByID(ctx context.Context, id string) (*Identity, error)
	// Exists reports whether the username or email is already taken.
	Exists(ctx context.Context, username, email string) (bool, error)
	// Create inserts a new identity and returns the stored record.
	Create(ctx context.Context, in CreateIdentityInput) (*Identity, error)
	// UpdatePasswordHash replaces the stored credential hash.
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// MediaStore uploads a referenced file and returns its public URL.
type MediaStore interface {
	Store(ctx context.Context, fileRef string) (string, error)
}
