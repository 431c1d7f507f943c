package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/asset-ledger/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isSerializationFailure conflictos de transacción que el caller puede reintentar
// (40001 serialization_failure, 40P01 deadlock_detected).
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// isRejectedValue valores que el esquema rechaza (23514 check_violation,
// 22003 numeric_value_out_of_range). Devuelve el constraint o la columna.
func isRejectedValue(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	switch pgErr.Code {
	case "23514":
		return pgErr.ConstraintName, true
	case "22003":
		return pgErr.ColumnName, true
	}
	return "", false
}

// classify marca conflictos y duplicados con los sentinels del dominio; los valores
// rechazados por el esquema vuelven como ValidationError.
func classify(op string, err error) error {
	if field, ok := isRejectedValue(err); ok {
		return domain.NewValidationError(domain.ReasonInvalidField, field, "valor rechazado por el almacén")
	}
	switch {
	case err == nil:
		return nil
	case isSerializationFailure(err):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, err)
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrDuplicate, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
