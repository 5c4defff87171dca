package authcore

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials reports a password that does not match the
	// stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrIdentityNotFound reports a lookup for an identity that does not
	// exist.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrIdentityExists reports a registration colliding with an existing
	// username or email.
	ErrIdentityExists = errors.New("identity already exists")
	// ErrTokenInvalid reports a refresh token that cannot be accepted. It
	// deliberately covers expiry, tampering, missing sessions, and reuse
	// so responses leak nothing about which case occurred.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrUnauthorized reports a request that carries no acceptable access
	// token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrFieldRequired reports missing or empty required input.
	ErrFieldRequired = errors.New("required field missing")
	// ErrEmailInvalid reports an email address that fails syntax checks.
	ErrEmailInvalid = errors.New("invalid email address")
	// ErrMediaUnavailable reports a failed mandatory media upload.
	ErrMediaUnavailable = errors.New("media storage unavailable")
	// ErrStoreUnavailable reports an identity store failure.
	ErrStoreUnavailable = errors.New("identity store unavailable")
	// ErrSessionUnavailable reports a session store failure.
	ErrSessionUnavailable = errors.New("session store unavailable")
	// ErrSigningUnavailable reports a token signing failure.
	ErrSigningUnavailable = errors.New("token signing unavailable")
	// ErrEngineNotReady reports use of an engine that was not built through
	// New.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// Kind classifies engine errors for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindUnauthorized
	KindNotFound
	KindDependencyFailure
)

// KindOf maps err onto its Kind. Unrecognized errors classify as
// KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrFieldRequired), errors.Is(err, ErrEmailInvalid):
		return KindValidation
	case errors.Is(err, ErrIdentityExists):
		return KindConflict
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrIdentityNotFound):
		return KindNotFound
	case errors.Is(err, ErrMediaUnavailable),
		errors.Is(err, ErrStoreUnavailable),
		errors.Is(err, ErrSessionUnavailable),
		errors.Is(err, ErrSigningUnavailable):
		return KindDependencyFailure
	default:
		return KindInternal
	}
}

// HTTPStatus maps err onto the status code its Kind conventionally carries.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindDependencyFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
