package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate reports a uniqueness violation at the database constraint
// layer, e.g. two concurrent writers inserting the same (recipe, ingredient)
// pair after both passed service-level validation.
var ErrDuplicate = errors.New("duplicate row violates unique constraint")

const uniqueViolationCode = "23505"

// translateUniqueViolation maps the postgres unique_violation error to
// ErrDuplicate so services don't have to import the driver.
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrDuplicate
	}
	return err
}
