// Package pgstore implements authcore.IdentityStore on PostgreSQL using
// pgx connection pools. Uniqueness of username and email is enforced by the
// database; unique violations surface as authcore.ErrIdentityExists.
package pgstore
