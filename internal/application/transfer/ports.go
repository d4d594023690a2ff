package transfer

import (
	"context"

	"github.com/jhoicas/CafeStock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza la atomicidad del batch completo:
// si algún renglón falla, ningún descuento de stock queda aplicado.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InventoryRecordRepository,
		movRepo repository.StockMovementRepository,
		reqRepo repository.TransferRequestRepository,
	) error) error
}
