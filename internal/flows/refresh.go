package flows

import (
	"context"
	"errors"
)

// RefreshFailureKind classifies refresh flow failures for root-level mapping.
type RefreshFailureKind int

const (
	RefreshFailureNone RefreshFailureKind = iota
	RefreshFailureMissingToken
	RefreshFailureParse
	RefreshFailureIdentityNotFound
	RefreshFailureNoSession
	RefreshFailureReuse
	RefreshFailureStore
	RefreshFailureIssue
)

// RefreshResult carries either the issued token pair or failure metadata.
type RefreshResult struct {
	Failure      RefreshFailureKind
	Err          error
	IdentityID   string
	Identity     IdentityRecord
	AccessToken  string
	RefreshToken string
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	ParseRefresh      func(token string) (identityID string, err error)
	FindByID          func(ctx context.Context, id string) (IdentityRecord, error)
	IssueAccessToken  func(IdentityRecord) (string, error)
	IssueRefreshToken func(identityID string) (string, error)
	Rotate            func(ctx context.Context, identityID, presented, next string) error

	// Sentinels used to classify dependency results.
	IdentityNotFound error
	NoSession        error
	TokenMismatch    error
}

// RunRefresh executes single-use refresh rotation: verify the presented
// token, mint the replacement pair, and atomically swap the stored value.
// The compare-and-swap is the reuse-detection point: a mismatch means the
// presented token was already rotated.
func RunRefresh(ctx context.Context, presented string, deps RefreshDeps) RefreshResult {
	if presented == "" {
		return RefreshResult{Failure: RefreshFailureMissingToken}
	}

	identityID, err := deps.ParseRefresh(presented)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureParse, Err: err}
	}

	identity, err := deps.FindByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, deps.IdentityNotFound) {
			return RefreshResult{Failure: RefreshFailureIdentityNotFound, Err: err, IdentityID: identityID}
		}
		return RefreshResult{Failure: RefreshFailureStore, Err: err, IdentityID: identityID}
	}

	// Mint the full replacement pair before touching the session store. Once
	// Rotate succeeds the presented token is consumed, so an issuance failure
	// after that point would strand the client without its new tokens.
	access, err := deps.IssueAccessToken(identity)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureIssue, Err: err, IdentityID: identityID, Identity: identity}
	}
	next, err := deps.IssueRefreshToken(identity.ID)
	if err != nil {
		return RefreshResult{Failure: RefreshFailureIssue, Err: err, IdentityID: identityID, Identity: identity}
	}

	if err := deps.Rotate(ctx, identity.ID, presented, next); err != nil {
		switch {
		case errors.Is(err, deps.TokenMismatch):
			return RefreshResult{Failure: RefreshFailureReuse, Err: err, IdentityID: identityID, Identity: identity}
		case errors.Is(err, deps.NoSession):
			return RefreshResult{Failure: RefreshFailureNoSession, Err: err, IdentityID: identityID, Identity: identity}
		default:
			return RefreshResult{Failure: RefreshFailureStore, Err: err, IdentityID: identityID, Identity: identity}
		}
	}

	return RefreshResult{
		Failure:      RefreshFailureNone,
		IdentityID:   identity.ID,
		Identity:     identity,
		AccessToken:  access,
		RefreshToken: next,
	}
}
