package db

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicatePosting is returned when (company, external_id) already exists.
var ErrDuplicatePosting = errors.New("posting already exists for company")

// ErrCompanyLocked is returned when another import holds the company lock.
var ErrCompanyLocked = errors.New("company is being imported by another run")

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// IsStoreError reports whether err came from PostgreSQL or the pool rather
// than from the caller.
func IsStoreError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return true
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}
