package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	authcore "github.com/vidara/authcore"
)

// Schema is the table this store expects. Apply it with your migration
// tooling of choice.
const Schema = `
CREATE TABLE IF NOT EXISTS identities (
    id              TEXT PRIMARY KEY,
    username        TEXT NOT NULL UNIQUE,
    email           TEXT NOT NULL UNIQUE,
    full_name       TEXT NOT NULL,
    password_hash   TEXT NOT NULL,
    avatar_url      TEXT NOT NULL DEFAULT '',
    cover_image_url TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const identityColumns = `id, username, email, full_name, password_hash,
       avatar_url, cover_image_url, created_at, updated_at`

// Store implements authcore.IdentityStore on a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps an existing connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func scanIdentity(row pgx.Row) (*authcore.Identity, error) {
	var identity authcore.Identity
	err := row.Scan(
		&identity.ID,
		&identity.Username,
		&identity.Email,
		&identity.FullName,
		&identity.PasswordHash,
		&identity.AvatarURL,
		&identity.CoverImageURL,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

// FindByLogin resolves a username or email to its identity.
func (s *Store) FindByLogin(ctx context.Context, login string) (*authcore.Identity, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+identityColumns+`
		FROM identities
		WHERE username = $1 OR email = $1
	`, login)

	identity, err := scanIdentity(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, authcore.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find identity by login: %w", err)
	}
	return identity, nil
}

// FindByID resolves an identity id.
func (s *Store) FindByID(ctx context.Context, id string) (*authcore.Identity, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+identityColumns+`
		FROM identities
		WHERE id = $1
	`, id)

	identity, err := scanIdentity(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, authcore.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find identity by id: %w", err)
	}
	return identity, nil
}

// Exists reports whether the username or email is already taken.
func (s *Store) Exists(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM identities WHERE username = $1 OR email = $2
		)
	`, username, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("identity exists check: %w", err)
	}
	return exists, nil
}

// Create inserts a new identity and returns the stored record with its
// database-assigned timestamps.
func (s *Store) Create(ctx context.Context, in authcore.CreateIdentityInput) (*authcore.Identity, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO identities (
			id, username, email, full_name, password_hash,
			avatar_url, cover_image_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+identityColumns+`
	`,
		in.ID,
		in.Username,
		in.Email,
		in.FullName,
		in.PasswordHash,
		in.AvatarURL,
		in.CoverImageURL,
	)

	identity, err := scanIdentity(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, authcore.ErrIdentityExists
		}
		return nil, fmt.Errorf("create identity: %w", err)
	}
	return identity, nil
}

// UpdatePasswordHash replaces the stored credential hash.
func (s *Store) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE identities
		SET password_hash = $2, updated_at = now()
		WHERE id = $1
	`, id, hash)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return authcore.ErrIdentityNotFound
	}
	return nil
}
