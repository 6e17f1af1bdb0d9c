package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound signals that the requested row does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicateUsername signals a unique violation on accounts.username.
	ErrDuplicateUsername = errors.New("repository: username already exists")
	// ErrDuplicateEmail signals a unique violation on accounts.email.
	ErrDuplicateEmail = errors.New("repository: email already exists")
)

const (
	uniqueViolation         = "23505"
	accountsUsernameUniqKey = "accounts_username_key"
	accountsEmailUniqKey    = "accounts_email_key"
)

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case accountsUsernameUniqKey:
		return ErrDuplicateUsername
	case accountsEmailUniqKey:
		return ErrDuplicateEmail
	}
	return err
}
