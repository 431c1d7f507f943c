package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrStorage      = errors.New("almacenamiento no disponible")
	ErrIntegrity    = errors.New("integridad de datos comprometida")
)

// ValidationReason identifica la causa de un ValidationError.
type ValidationReason string

const (
	ReasonInvalidRange          ValidationReason = "InvalidRange"
	ReasonInvalidDate           ValidationReason = "InvalidDate"
	ReasonNonPositiveQuantity   ValidationReason = "NonPositiveQuantity"
	ReasonSelfTransfer          ValidationReason = "SelfTransfer"
	ReasonInvalidStatus         ValidationReason = "InvalidStatus"
	ReasonInvalidTransition     ValidationReason = "InvalidTransition"
	ReasonReturnExceedsAssigned ValidationReason = "ReturnExceedsAssigned"
	ReasonMissingField          ValidationReason = "MissingField"
	ReasonInvalidField          ValidationReason = "InvalidField"
	ReasonUnknownReference      ValidationReason = "UnknownReference"
)

// ValidationError entrada malformada o inconsistente. Siempre recuperable por el caller
// y nunca llega a escribirse en almacenamiento.
type ValidationError struct {
	Reason  ValidationReason
	Field   string
	Message string
}

// NewValidationError construye un ValidationError.
func NewValidationError(reason ValidationReason, field, message string) *ValidationError {
	return &ValidationError{Reason: reason, Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validación %s (%s): %s", e.Reason, e.Field, e.Message)
	}
	return fmt.Sprintf("validación %s: %s", e.Reason, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// AccessReason identifica la causa de un AccessError.
type AccessReason string

const (
	ReasonForbiddenScope     AccessReason = "ForbiddenScope"
	ReasonNoAssignedBase     AccessReason = "NoAssignedBase"
	ReasonUnknownRole        AccessReason = "UnknownRole"
	ReasonForbiddenOperation AccessReason = "ForbiddenOperation"
)

// AccessError el alcance pedido está fuera de las bases permitidas para el caller.
type AccessError struct {
	Reason  AccessReason
	Message string
}

// NewAccessError construye un AccessError.
func NewAccessError(reason AccessReason, message string) *AccessError {
	return &AccessError{Reason: reason, Message: message}
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("acceso %s: %s", e.Reason, e.Message)
}

func (e *AccessError) Unwrap() error { return ErrForbidden }

// StorageError el almacén no está disponible o hubo un conflicto de transacción.
// El núcleo no reintenta; el caller puede hacerlo.
type StorageError struct {
	Op       string
	Err      error
	Conflict bool
}

func (e *StorageError) Error() string {
	if e.Conflict {
		return fmt.Sprintf("%s: conflicto de transacción: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// Retryable indica que la operación puede reintentarse tal cual.
func (e *StorageError) Retryable() bool { return true }

// ConsistencyError estado corrupto (cantidad pendiente negativa, identidad de conciliación rota).
// Nunca se corrige en silencio.
type ConsistencyError struct {
	Subject string
	Detail  string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("integridad (%s): %s", e.Subject, e.Detail)
}

func (e *ConsistencyError) Unwrap() error { return ErrIntegrity }

// WrapStorage envuelve err como StorageError salvo que ya sea un error tipado del dominio
// o ErrNotFound, que se propagan sin cambios.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		ve *ValidationError
		ae *AccessError
		ce *ConsistencyError
		se *StorageError
	)
	if errors.As(err, &ve) || errors.As(err, &ae) || errors.As(err, &ce) || errors.As(err, &se) {
		return err
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return &StorageError{Op: op, Err: err, Conflict: errors.Is(err, ErrConflict)}
}
