package confirmation

import (
	"context"

	"github.com/jhoicas/CafeStock-api/internal/domain/repository"
)

// TxRunner ejecuta la resolución de UN movimiento (confirmación o rechazo)
// dentro de una transacción de BD. Cada movimiento se resuelve en su propia tx:
// la confirmación parcial de un subconjunto del batch es válida.
type TxRunner interface {
	RunResolution(ctx context.Context, fn func(
		invRepo repository.InventoryRecordRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
