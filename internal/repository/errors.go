package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL error codes the services react to.
const (
	pgCheckViolation  = "23514"
	pgUniqueViolation = "23505"
	pgSerialization   = "40001"
	pgDeadlock        = "40P01"
	pgExclusion       = "23P01"
)

// EsNoEncontrado reports a missing row.
func EsNoEncontrado(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// EsViolacionCheck reports a CHECK constraint failure (stock >= 0,
// cantidad_liquidada <= cantidad...). Conditional updates catch these first;
// the constraint is the last line.
// With TranslateError on, the driver hands back gorm.ErrCheckConstraintViolated.
func EsViolacionCheck(err error) bool {
	return pgCode(err) == pgCheckViolation || errors.Is(err, gorm.ErrCheckConstraintViolated)
}

// EsSolapamiento reports an exclusion constraint failure (overlapping turnos).
func EsSolapamiento(err error) bool { return pgCode(err) == pgExclusion }

// EsDuplicado reports a unique constraint violation.
func EsDuplicado(err error) bool {
	return pgCode(err) == pgUniqueViolation || errors.Is(err, gorm.ErrDuplicatedKey)
}

// EsConflictoConcurrencia reports failures worth retrying as a whole operation.
func EsConflictoConcurrencia(err error) bool {
	c := pgCode(err)
	return c == pgSerialization || c == pgDeadlock
}
