package confirmation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/CafeStock-api/internal/domain"
	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
	"github.com/jhoicas/CafeStock-api/internal/domain/repository"
)

// ConfirmationUseCase ejecuta la mitad "recepción" del protocolo: resuelve
// movimientos sent dirigidos a una ubicación. Aceptar suma el stock en el
// destino; rechazar devuelve el stock al origen y genera un movimiento nuevo
// en estado returned (el historial nunca se muta).
type ConfirmationUseCase struct {
	txRunner     TxRunner
	movementRepo repository.StockMovementRepository
}

// NewConfirmationUseCase construye el caso de uso.
func NewConfirmationUseCase(txRunner TxRunner, movementRepo repository.StockMovementRepository) *ConfirmationUseCase {
	return &ConfirmationUseCase{txRunner: txRunner, movementRepo: movementRepo}
}

// ListPending devuelve los movimientos en tránsito dirigidos a la ubicación.
// Un movimiento vencido (expected_delivery_at en el pasado) sigue apareciendo
// hasta que alguien lo confirme o rechace.
func (uc *ConfirmationUseCase) ListPending(ctx context.Context, destLocationID string) ([]*entity.StockMovement, error) {
	if destLocationID == "" {
		return nil, fmt.Errorf("ubicación requerida: %w", domain.ErrInvalidInput)
	}
	return uc.movementRepo.ListPending(ctx, destLocationID)
}

// GetBatch devuelve todos los movimientos de un batch (auditoría).
func (uc *ConfirmationUseCase) GetBatch(ctx context.Context, batchID string) ([]*entity.StockMovement, error) {
	if batchID == "" {
		return nil, fmt.Errorf("batch requerido: %w", domain.ErrInvalidInput)
	}
	movements, err := uc.movementRepo.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if len(movements) == 0 {
		return nil, fmt.Errorf("batch %s: %w", batchID, domain.ErrNotFound)
	}
	return movements, nil
}

// ListHistory lista los movimientos que tocan una ubicación en un rango de fechas.
func (uc *ConfirmationUseCase) ListHistory(ctx context.Context, locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if locationID == "" {
		return nil, fmt.Errorf("ubicación requerida: %w", domain.ErrInvalidInput)
	}
	return uc.movementRepo.ListByLocation(ctx, locationID, from, to, limit, offset)
}

// Confirm acepta los movimientos indicados: cada uno pasa a received, fija
// actual_delivery_at y suma la cantidad en el inventario del destino, en su
// propia transacción. Dos confirmaciones concurrentes del mismo movimiento no
// pueden sumar dos veces: la transición es un update condicional y la segunda
// recibe ErrInvalidState.
func (uc *ConfirmationUseCase) Confirm(ctx context.Context, destLocationID string, movementIDs []string, evidenceRef *string) error {
	if err := validateIDs(destLocationID, movementIDs); err != nil {
		return err
	}
	for _, id := range movementIDs {
		if err := uc.confirmOne(ctx, destLocationID, id, evidenceRef); err != nil {
			return err
		}
	}
	return nil
}

func (uc *ConfirmationUseCase) confirmOne(ctx context.Context, destLocationID, movementID string, evidenceRef *string) error {
	return uc.txRunner.RunResolution(ctx, func(
		invRepo repository.InventoryRecordRepository,
		movRepo repository.StockMovementRepository,
	) error {
		m, err := uc.ownedPending(ctx, movRepo, destLocationID, movementID)
		if err != nil {
			return err
		}
		now := time.Now()
		if err := movRepo.MarkResolved(ctx, m.ID, entity.MovementStatusReceived, now, m.Notes, evidenceRef); err != nil {
			return err
		}
		return invRepo.Increment(ctx, m.DestLocationID, m.ProductID, m.Quantity)
	})
}

// Reject rechaza los movimientos indicados con un motivo obligatorio: cada uno
// pasa a rejected, el stock vuelve al origen y se inserta un movimiento nuevo
// en estado returned en la dirección inversa, preservando la pista de auditoría.
func (uc *ConfirmationUseCase) Reject(ctx context.Context, destLocationID string, movementIDs []string, reason, rejectedBy string) error {
	if err := validateIDs(destLocationID, movementIDs); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("motivo de rechazo requerido: %w", domain.ErrInvalidInput)
	}
	for _, id := range movementIDs {
		if err := uc.rejectOne(ctx, destLocationID, id, reason, rejectedBy); err != nil {
			return err
		}
	}
	return nil
}

func (uc *ConfirmationUseCase) rejectOne(ctx context.Context, destLocationID, movementID, reason, rejectedBy string) error {
	return uc.txRunner.RunResolution(ctx, func(
		invRepo repository.InventoryRecordRepository,
		movRepo repository.StockMovementRepository,
	) error {
		m, err := uc.ownedPending(ctx, movRepo, destLocationID, movementID)
		if err != nil {
			return err
		}
		now := time.Now()
		if err := movRepo.MarkResolved(ctx, m.ID, entity.MovementStatusRejected, now, "REJECTED: "+reason, nil); err != nil {
			return err
		}
		// El stock vuelve físicamente al origen original.
		if err := invRepo.Increment(ctx, m.SourceLocationID, m.ProductID, m.Quantity); err != nil {
			return err
		}
		// Registro nuevo en la dirección inversa, mismo batch para trazabilidad.
		returned := &entity.StockMovement{
			ID:                 uuid.New().String(),
			BatchID:            m.BatchID,
			ProductID:          m.ProductID,
			Quantity:           m.Quantity,
			SourceLocationID:   m.DestLocationID,
			DestLocationID:     m.SourceLocationID,
			Status:             entity.MovementStatusReturned,
			CreatedAt:          now,
			ExpectedDeliveryAt: now,
			Notes:              "Devolución por rechazo: " + reason,
			CreatedBy:          rejectedBy,
		}
		return movRepo.Create(ctx, returned)
	})
}

// ownedPending carga el movimiento y verifica que pertenezca a la ubicación del
// caller. Un id ajeno se reporta como no encontrado, no como prohibido, para no
// filtrar existencia de movimientos de otras ubicaciones.
func (uc *ConfirmationUseCase) ownedPending(ctx context.Context, movRepo repository.StockMovementRepository, destLocationID, movementID string) (*entity.StockMovement, error) {
	m, err := movRepo.GetByID(ctx, movementID)
	if err != nil {
		return nil, err
	}
	if m == nil || m.DestLocationID != destLocationID {
		return nil, fmt.Errorf("movimiento %s: %w", movementID, domain.ErrNotFound)
	}
	return m, nil
}

func validateIDs(destLocationID string, movementIDs []string) error {
	if destLocationID == "" {
		return fmt.Errorf("ubicación requerida: %w", domain.ErrInvalidInput)
	}
	if len(movementIDs) == 0 {
		return fmt.Errorf("lista de movimientos vacía: %w", domain.ErrInvalidInput)
	}
	for _, id := range movementIDs {
		if id == "" {
			return fmt.Errorf("id de movimiento vacío: %w", domain.ErrInvalidInput)
		}
	}
	return nil
}
