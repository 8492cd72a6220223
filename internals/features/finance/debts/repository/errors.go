package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"cobranza_backend/internals/features/finance/debts/service"
)

// classifyPGError maps postgres error codes (pgx or lib/pq) onto engine errors.
//   40001 serialization_failure, 40P01 deadlock, 55P03 lock_not_available -> conflict
//   23505 unique_violation (external order id / tender reference)        -> conflict
//   23514 check_violation (negative amounts)                              -> invalid input
func classifyPGError(err error) error {
	if err == nil {
		return nil
	}
	code, msg := "", ""

	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgxErr):
		code, msg = pgxErr.Code, pgxErr.Message
	case errors.As(err, &pqErr):
		code, msg = string(pqErr.Code), pqErr.Message
	default:
		return err
	}

	switch code {
	case "40001", "40P01", "55P03", "23505":
		return fmt.Errorf("%w: %s", service.ErrConcurrentModification, msg)
	case "23514":
		return fmt.Errorf("%w: %s", service.ErrInvalidInput, msg)
	}
	return err
}
