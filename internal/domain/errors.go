package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrPersistence        = errors.New("error de persistencia")
)

// ErrorKind clasifica un error para la respuesta estructurada del caso de uso.
type ErrorKind string

const (
	KindValidation        ErrorKind = "VALIDATION"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindInvalidTransition ErrorKind = "INVALID_TRANSITION"
	KindInsufficientStock ErrorKind = "INSUFFICIENT_STOCK"
	KindPersistence       ErrorKind = "PERSISTENCE"
)

// ValidationError entrada malformada; Field nombra el campo ofensor.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("campo inválido: %s", e.Field)
	}
	return fmt.Sprintf("campo inválido %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NotFoundError recurso referenciado inexistente.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s no encontrado", e.Resource)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidTransitionError el estado destino no es alcanzable desde el actual.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("no se puede pasar de %s a %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// StockShortage faltante de un registro de stock al despachar.
type StockShortage struct {
	StockRecordID string
	Name          string
	Available     decimal.Decimal
	Required      decimal.Decimal
}

// InsufficientStockError lista todos los faltantes detectados en la verificación previa al despacho.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		name := s.Name
		if name == "" {
			name = "producto"
		}
		parts = append(parts, fmt.Sprintf("Stock insuficiente para %s. Disponible: %s, Requerido: %s",
			name, s.Available.String(), s.Required.String()))
	}
	if len(parts) == 0 {
		return ErrInsufficientStock.Error()
	}
	return strings.Join(parts, "; ")
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// PersistenceError fallo del almacén (conexión, constraint, conflicto de transacción).
// Retryable indica que el caller puede repetir la llamada completa.
type PersistenceError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPersistence}
	}
	return []error{ErrPersistence, e.Err}
}

// KindOf clasifica cualquier error; lo desconocido se trata como persistencia.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	default:
		return KindPersistence
	}
}

// IsRetryable indica si el error proviene de un conflicto transitorio del almacén.
func IsRetryable(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe) && pe.Retryable
}

// UserMessage mensaje corto apto para mostrar al usuario (sin trazas ni identificadores internos).
func UserMessage(err error) string {
	var (
		ve *ValidationError
		ne *NotFoundError
		te *InvalidTransitionError
		se *InsufficientStockError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.As(err, &ne):
		return ne.Error()
	case errors.As(err, &te):
		return te.Error()
	case errors.As(err, &se):
		return se.Error()
	case errors.Is(err, ErrInvalidInput):
		return "datos inválidos"
	case errors.Is(err, ErrNotFound):
		return "recurso no encontrado"
	case errors.Is(err, ErrInsufficientStock):
		return "stock insuficiente"
	case IsRetryable(err):
		return "conflicto al guardar los cambios, intente de nuevo"
	default:
		return "no se pudieron guardar los cambios"
	}
}
