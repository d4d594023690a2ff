package repository

import (
	"context"
	"time"

	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
)

// StockMovementRepository define el puerto del historial de traslados.
// El store es append-only: los estados terminales se fijan con un update
// condicional sobre status = sent; nunca se borra ni se reescribe historia.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// ListPending devuelve los movimientos en estado sent dirigidos a una ubicación.
	ListPending(ctx context.Context, destLocationID string) ([]*entity.StockMovement, error)
	ListByBatch(ctx context.Context, batchID string) ([]*entity.StockMovement, error)
	ListByLocation(ctx context.Context, locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// MarkResolved pasa el movimiento de sent al estado terminal indicado, fijando
	// actual_delivery_at, notes y evidence_ref. La transición es un update condicional
	// (… AND status = 'sent'): devuelve *domain.MovementStateError si otro caller ganó
	// la carrera, o domain.ErrNotFound si el id no existe.
	MarkResolved(ctx context.Context, id, toStatus string, deliveredAt time.Time, notes string, evidenceRef *string) error
	// SumInFlightByProduct suma las cantidades en estado sent de un producto (stock en tránsito).
	SumInFlightByProduct(ctx context.Context, productID string) (int64, error)
}
