package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidState      = errors.New("el movimiento ya fue resuelto")
	ErrUnreachable       = errors.New("destino no alcanzable desde el origen")
)

// InsufficientStockError indica qué producto no tiene stock suficiente en qué ubicación.
// Desenvuelve a ErrInsufficientStock para poder usar errors.Is en los callers.
type InsufficientStockError struct {
	ProductID  string
	LocationID string
	Requested  int64
	Available  int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s en %s: solicitado %d, disponible %d",
		e.ProductID, e.LocationID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// MovementStateError identifica el movimiento que no está en estado pendiente.
type MovementStateError struct {
	MovementID string
	Status     string
}

func (e *MovementStateError) Error() string {
	return fmt.Sprintf("movimiento %s no está pendiente (estado actual: %s)", e.MovementID, e.Status)
}

func (e *MovementStateError) Unwrap() error { return ErrInvalidState }
