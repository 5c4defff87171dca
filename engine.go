package authcore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vidara/authcore/internal/flows"
	"github.com/vidara/authcore/internal/metrics"
	"github.com/vidara/authcore/password"
	"github.com/vidara/authcore/session"
	"github.com/vidara/authcore/token"
)

// Engine is the credential and session lifecycle orchestrator. Construct it
// with New; the zero value is not usable.
//
// Engine instances are configured once and treated as immutable afterwards.
type Engine struct {
	config     Config
	tokens     *token.Manager
	passwords  *password.Hasher
	sessions   *session.Store
	metrics    *metrics.Metrics
	identities IdentityStore
	media      MediaStore
	flows      flows.Service
}

// New validates cfg, builds the token, password, and session components, and
// wires the request flows. media may be nil when registration with uploads
// is not used; Register then fails with ErrMediaUnavailable.
func New(cfg Config, client redis.UniversalClient, identities IdentityStore, media MediaStore) (*Engine, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: redis client is required", ErrEngineNotReady)
	}
	if identities == nil {
		return nil, fmt.Errorf("%w: identity store is required", ErrEngineNotReady)
	}
	cfg = cfg.withDefaults()

	tokens, err := token.NewManager(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("token config: %w", err)
	}
	passwords, err := password.NewHasher(cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("password config: %w", err)
	}

	e := &Engine{
		config:     cfg,
		tokens:     tokens,
		passwords:  passwords,
		sessions:   session.NewStore(client, cfg.Session.RedisPrefix, cfg.Token.RefreshTTL),
		metrics:    metrics.New(metrics.Config{Enabled: cfg.Metrics.Enabled}),
		identities: identities,
		media:      media,
	}
	e.flows = flows.New(e.flowDeps())
	return e, nil
}

// SessionStorePing checks Redis availability and reports round-trip latency.
func (e *Engine) SessionStorePing(ctx context.Context) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}
	if _, err := e.sessions.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}
	return nil
}

func (e *Engine) metricInc(id int) {
	e.metrics.Inc(metrics.MetricID(id))
}

func (e *Engine) warn(format string, args ...any) {
	log.Printf("authcore: "+format, args...)
}

func recordFromIdentity(i *Identity) flows.IdentityRecord {
	return flows.IdentityRecord{
		ID:            i.ID,
		Username:      i.Username,
		Email:         i.Email,
		FullName:      i.FullName,
		PasswordHash:  i.PasswordHash,
		AvatarURL:     i.AvatarURL,
		CoverImageURL: i.CoverImageURL,
	}
}

func identityFromRecord(rec flows.IdentityRecord) Identity {
	return Identity{
		ID:            rec.ID,
		Username:      rec.Username,
		Email:         rec.Email,
		FullName:      rec.FullName,
		PasswordHash:  rec.PasswordHash,
		AvatarURL:     rec.AvatarURL,
		CoverImageURL: rec.CoverImageURL,
	}
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// mail.ParseAddress accepts display names and dotless domains.
	at := strings.LastIndex(email, "@")
	return addr.Address == email && at > 0 && strings.Contains(email[at:], ".")
}

func (e *Engine) flowDeps() flows.Deps {
	findByID := func(ctx context.Context, id string) (flows.IdentityRecord, error) {
		identity, err := e.identities.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrIdentityNotFound) {
				return flows.IdentityRecord{}, ErrIdentityNotFound
			}
			return flows.IdentityRecord{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return recordFromIdentity(identity), nil
	}
	issueAccess := func(rec flows.IdentityRecord) (string, error) {
		signed, _, err := e.tokens.IssueAccess(token.Subject{
			ID:       rec.ID,
			Username: rec.Username,
			Email:    rec.Email,
			FullName: rec.FullName,
		})
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrSigningUnavailable, err)
		}
		return signed, nil
	}
	issueRefresh := func(identityID string) (string, error) {
		signed, _, err := e.tokens.IssueRefresh(identityID)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrSigningUnavailable, err)
		}
		return signed, nil
	}

	return flows.Deps{
		Login: flows.LoginDeps{
			FindByLogin: func(ctx context.Context, login string) (flows.IdentityRecord, error) {
				identity, err := e.identities.FindByLogin(ctx, login)
				if err != nil {
					if errors.Is(err, ErrIdentityNotFound) {
						return flows.IdentityRecord{}, ErrIdentityNotFound
					}
					return flows.IdentityRecord{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
				}
				return recordFromIdentity(identity), nil
			},
			VerifyPassword:    e.passwords.Verify,
			IssueAccessToken:  issueAccess,
			IssueRefreshToken: issueRefresh,
			PersistRefresh: func(ctx context.Context, identityID, refreshToken string) error {
				if err := e.sessions.Persist(ctx, identityID, refreshToken); err != nil {
					return fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
				}
				return nil
			},
			MetricInc: e.metricInc,
			Metrics: flows.LoginMetrics{
				LoginSuccess: int(metrics.MetricLoginSuccess),
				LoginFailure: int(metrics.MetricLoginFailure),
			},
			Errors: flows.LoginErrors{
				EngineNotReady:     ErrEngineNotReady,
				Validation:         ErrFieldRequired,
				NotFound:           ErrIdentityNotFound,
				InvalidCredentials: ErrInvalidCredentials,
			},
		},
		Refresh: flows.RefreshDeps{
			ParseRefresh: func(tokenStr string) (string, error) {
				claims, err := e.tokens.ParseRefresh(tokenStr)
				if err != nil {
					return "", err
				}
				return claims.UID, nil
			},
			FindByID:          findByID,
			IssueAccessToken:  issueAccess,
			IssueRefreshToken: issueRefresh,
			Rotate:            e.sessions.Rotate,
			IdentityNotFound:  ErrIdentityNotFound,
			NoSession:         session.ErrNoSession,
			TokenMismatch:     session.ErrTokenMismatch,
		},
		Logout: flows.LogoutDeps{
			ClearRefresh: func(ctx context.Context, identityID string) error {
				if err := e.sessions.Clear(ctx, identityID); err != nil {
					return fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
				}
				return nil
			},
			MetricInc:    e.metricInc,
			MetricLogout: int(metrics.MetricLogout),
		},
		Register: flows.RegisterDeps{
			LoginExists: func(ctx context.Context, username, email string) (bool, error) {
				exists, err := e.identities.Exists(ctx, username, email)
				if err != nil {
					return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
				}
				return exists, nil
			},
			StoreMedia: func(ctx context.Context, fileRef string) (string, error) {
				if e.media == nil {
					return "", ErrMediaUnavailable
				}
				url, err := e.media.Store(ctx, fileRef)
				if err != nil {
					return "", fmt.Errorf("%w: %v", ErrMediaUnavailable, err)
				}
				return url, nil
			},
			HashPassword: e.passwords.Hash,
			NewID:        uuid.NewString,
			Create: func(ctx context.Context, rec flows.IdentityRecord) (flows.IdentityRecord, error) {
				created, err := e.identities.Create(ctx, CreateIdentityInput{
					ID:            rec.ID,
					Username:      rec.Username,
					Email:         rec.Email,
					FullName:      rec.FullName,
					PasswordHash:  rec.PasswordHash,
					AvatarURL:     rec.AvatarURL,
					CoverImageURL: rec.CoverImageURL,
				})
				if err != nil {
					if errors.Is(err, ErrIdentityExists) {
						return flows.IdentityRecord{}, ErrIdentityExists
					}
					return flows.IdentityRecord{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
				}
				return recordFromIdentity(created), nil
			},
			ValidateEmail: validEmail,
			Warn:          e.warn,
			MetricInc:     e.metricInc,
			Metrics: flows.RegisterMetrics{
				RegisterSuccess:  int(metrics.MetricRegisterSuccess),
				RegisterConflict: int(metrics.MetricRegisterConflict),
			},
			Errors: flows.RegisterErrors{
				EngineNotReady:   ErrEngineNotReady,
				Validation:       ErrFieldRequired,
				EmailInvalid:     ErrEmailInvalid,
				Conflict:         ErrIdentityExists,
				MediaUnavailable: ErrMediaUnavailable,
			},
		},
		Password: flows.PasswordDeps{
			FindByID:       findByID,
			VerifyPassword: e.passwords.Verify,
			HashPassword:   e.passwords.Hash,
			UpdatePasswordHash: func(ctx context.Context, identityID, newHash string) error {
				if err := e.identities.UpdatePasswordHash(ctx, identityID, newHash); err != nil {
					if errors.Is(err, ErrIdentityNotFound) {
						return ErrIdentityNotFound
					}
					return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
				}
				return nil
			},
			MetricInc: e.metricInc,
			Metrics: flows.PasswordMetrics{
				ChangeSuccess: int(metrics.MetricPasswordChangeSuccess),
				ChangeFailure: int(metrics.MetricPasswordChangeFailure),
			},
			Errors: flows.PasswordErrors{
				EngineNotReady:     ErrEngineNotReady,
				Validation:         ErrFieldRequired,
				NotFound:           ErrIdentityNotFound,
				InvalidCredentials: ErrInvalidCredentials,
			},
		},
		Verify: flows.VerifyDeps{
			ParseAccess: func(tokenStr string) (string, error) {
				claims, err := e.tokens.ParseAccess(tokenStr)
				if err != nil {
					return "", err
				}
				return claims.UID, nil
			},
			FindByID:         findByID,
			IdentityNotFound: ErrIdentityNotFound,
			Unauthorized:     ErrUnauthorized,
			MetricInc:        e.metricInc,
			Metrics: flows.VerifyMetrics{
				VerifySuccess: int(metrics.MetricVerifySuccess),
				VerifyFailure: int(metrics.MetricVerifyFailure),
			},
		},
	}
}
