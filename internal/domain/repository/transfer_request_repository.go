package repository

import (
	"context"

	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
)

// TransferRequestRepository define el puerto de claves de idempotencia de traslados.
// Create debe fallar con domain.ErrDuplicate si la clave ya existe (constraint único),
// dentro de la misma transacción que descuenta el stock.
type TransferRequestRepository interface {
	Create(ctx context.Context, request *entity.TransferRequest) error
	GetByKey(ctx context.Context, idempotencyKey string) (*entity.TransferRequest, error)
}
