package postgres

import (
	"errors"
	"fmt"

	"github.com/corray333/backend-labs/commerce/internal/service/apperr"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the services care about.
const (
	codeForeignKeyViolation    = "23503"
	codeCheckViolation         = "23514"
	codeNotNullViolation       = "23502"
	codeUniqueViolation        = "23505"
	codeInvalidTextRepresent   = "22P02"
	codeNumericValueOutOfRange = "22003"
)

// TranslateError converts constraint violations into classified errors.
// Errors that are not constraint violations are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeForeignKeyViolation:
		return apperr.Reference(referenceMessage(pgErr), pgErr)
	case codeCheckViolation:
		return apperr.Validation(fmt.Sprintf("check constraint %q violated", pgErr.ConstraintName), pgErr)
	case codeNotNullViolation:
		return apperr.Validation(fmt.Sprintf("column %q must not be null", pgErr.ColumnName), pgErr)
	case codeInvalidTextRepresent, codeNumericValueOutOfRange:
		return apperr.Validation("invalid value", pgErr)
	case codeUniqueViolation:
		return apperr.Conflict(fmt.Sprintf("unique constraint %q violated", pgErr.ConstraintName), pgErr)
	default:
		return err
	}
}

func referenceMessage(pgErr *pgconn.PgError) string {
	if pgErr.ConstraintName == "" {
		return "referenced entity does not exist"
	}

	return fmt.Sprintf("foreign key constraint %q violated", pgErr.ConstraintName)
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}

	return false
}
