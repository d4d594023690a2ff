package inventory

import (
	"context"

	"github.com/jhoicas/CafeStock-api/internal/domain/repository"
)

// TxRunner ejecuta un ajuste manual (movimiento de stock + registro de ajuste)
// dentro de una transacción de BD.
type TxRunner interface {
	RunAdjustment(ctx context.Context, fn func(
		invRepo repository.InventoryRecordRepository,
		adjRepo repository.StockAdjustmentRepository,
	) error) error
}
