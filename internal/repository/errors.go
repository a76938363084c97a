package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("repository: not found")
	// ErrStorageUnavailable wraps infrastructure failures: timeouts, lost connections, driver errors.
	ErrStorageUnavailable = errors.New("repository: storage unavailable")
	// ErrConcurrentUpdate is returned when a guarded update lost a race.
	ErrConcurrentUpdate = errors.New("repository: concurrent update")
)

// Unique fields a ConflictError can name.
const (
	FieldEmail           = "email"
	FieldBusinessLicense = "business_license"
	FieldPreferredGarage = "preferred_garage"
	FieldReview          = "review"
)

// ConflictError reports a unique-constraint violation on Field.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("repository: duplicate %s", e.Field)
}

// IsConflict reports whether err is a ConflictError on field.
func IsConflict(err error, field string) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict) && conflict.Field == field
}

const (
	uniqueViolationCode     = "23505"
	invalidTextCode         = "22P02"
	foreignKeyViolationCode = "23503"
)

var constraintFields = map[string]string{
	"accounts_email_key":                   FieldEmail,
	"garage_profiles_business_license_key": FieldBusinessLicense,
	"preferred_garages_unique":             FieldPreferredGarage,
	"garage_reviews_one_per_customer":      FieldReview,
}

// mapError translates driver errors into repository errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrStorageUnavailable) || errors.Is(err, ErrConcurrentUpdate) {
		return err
	}
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			if field, ok := constraintFields[pgErr.ConstraintName]; ok {
				return &ConflictError{Field: field}
			}
			return &ConflictError{Field: pgErr.ConstraintName}
		case invalidTextCode, foreignKeyViolationCode:
			return ErrNotFound
		}
	}

	// Timeouts, dropped connections and anything else the driver raises are
	// infrastructure failures from the caller's point of view.
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
