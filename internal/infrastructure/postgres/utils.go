package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/erp-fulfillment/internal/domain"
)

// Códigos SQLSTATE que el caller puede reintentar.
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case codeUniqueViolation, codeSerializationFailure, codeDeadlockDetected:
		return true
	}
	return false
}

// classify deja pasar los errores de dominio y envuelve el resto en PersistenceError.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if domain.KindOf(err) != domain.KindPersistence || errors.Is(err, domain.ErrPersistence) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &domain.PersistenceError{Op: op, Err: err}
	}
	return &domain.PersistenceError{Op: op, Err: err, Retryable: isRetryable(err)}
}
