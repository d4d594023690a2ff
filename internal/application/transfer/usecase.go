package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/CafeStock-api/internal/domain"
	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
	"github.com/jhoicas/CafeStock-api/internal/domain/repository"
)

// DefaultSLAWindow plazo de entrega esperado para un traslado recién enviado.
const DefaultSLAWindow = time.Hour

// CreateTransferUseCase ejecuta la mitad "envío" del protocolo: descuenta el
// stock del origen y crea los movimientos en estado sent, todo dentro de una
// sola transacción. El batch es todo-o-nada: un renglón sin stock suficiente
// revierte los descuentos de los demás.
type CreateTransferUseCase struct {
	txRunner     TxRunner
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	requestRepo  repository.TransferRequestRepository
	slaWindow    time.Duration
}

// NewCreateTransferUseCase construye el caso de uso. slaWindow <= 0 usa DefaultSLAWindow.
func NewCreateTransferUseCase(
	txRunner TxRunner,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	requestRepo repository.TransferRequestRepository,
	slaWindow time.Duration,
) *CreateTransferUseCase {
	if slaWindow <= 0 {
		slaWindow = DefaultSLAWindow
	}
	return &CreateTransferUseCase{
		txRunner:     txRunner,
		locationRepo: locationRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		requestRepo:  requestRepo,
		slaWindow:    slaWindow,
	}
}

// TransferItemInput renglón (producto, cantidad) de un traslado.
type TransferItemInput struct {
	ProductID string
	Quantity  int64
}

// TransferInput entrada para CreateTransfer. IdempotencyKey es opcional: si el
// caller reintenta con la misma clave se devuelve el batch ya creado.
type TransferInput struct {
	SourceLocationID string
	DestLocationID   string
	Items            []TransferItemInput
	Notes            string
	CreatedBy        string
	IdempotencyKey   string
}

// TransferResult batch creado y sus movimientos.
type TransferResult struct {
	BatchID     string
	MovementIDs []string
}

// CreateTransfer valida la solicitud, descuenta el stock del origen renglón por
// renglón y escribe un movimiento sent por renglón, todos con el mismo batch_id.
// Cualquier fallo (incluido stock insuficiente en un renglón intermedio) hace
// rollback completo: el inventario del origen queda intacto y no se crea ningún
// movimiento.
func (uc *CreateTransferUseCase) CreateTransfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if err := uc.validate(ctx, input); err != nil {
		return nil, err
	}

	now := time.Now()
	batchID := uuid.New().String()
	movementIDs := make([]string, 0, len(input.Items))

	err := uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRecordRepository,
		movRepo repository.StockMovementRepository,
		reqRepo repository.TransferRequestRepository,
	) error {
		// La clave de idempotencia se inserta primero, en la misma tx que los
		// descuentos: un reintento concurrente choca con el constraint único
		// antes de tocar el inventario.
		if input.IdempotencyKey != "" {
			req := &entity.TransferRequest{
				IdempotencyKey: input.IdempotencyKey,
				BatchID:        batchID,
				CreatedAt:      now,
			}
			if err := reqRepo.Create(ctx, req); err != nil {
				return err
			}
		}

		// Los renglones se aplican en el orden enviado; cada descuento es un
		// update condicional en el store, nunca leer-y-escribir aquí.
		for _, item := range input.Items {
			if err := invRepo.Decrement(ctx, input.SourceLocationID, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		for _, item := range input.Items {
			mov := &entity.StockMovement{
				ID:                 uuid.New().String(),
				BatchID:            batchID,
				ProductID:          item.ProductID,
				Quantity:           item.Quantity,
				SourceLocationID:   input.SourceLocationID,
				DestLocationID:     input.DestLocationID,
				Status:             entity.MovementStatusSent,
				CreatedAt:          now,
				ExpectedDeliveryAt: now.Add(uc.slaWindow),
				Notes:              input.Notes,
				CreatedBy:          input.CreatedBy,
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
			movementIDs = append(movementIDs, mov.ID)
		}
		return nil
	})
	if err != nil {
		// Reintento con la misma clave: devolver el batch original sin volver a descontar.
		if input.IdempotencyKey != "" && errors.Is(err, domain.ErrDuplicate) {
			return uc.existingResult(ctx, input.IdempotencyKey)
		}
		return nil, err
	}

	return &TransferResult{BatchID: batchID, MovementIDs: movementIDs}, nil
}

// validate verifica renglones, existencia de ubicaciones y productos, y la
// regla de alcance en la jerarquía (sede↔hijos, hermanos de la misma sede).
func (uc *CreateTransferUseCase) validate(ctx context.Context, input TransferInput) error {
	if len(input.Items) == 0 {
		return fmt.Errorf("el traslado no tiene renglones: %w", domain.ErrInvalidInput)
	}
	if input.SourceLocationID == "" || input.DestLocationID == "" {
		return fmt.Errorf("origen y destino son requeridos: %w", domain.ErrInvalidInput)
	}
	if input.SourceLocationID == input.DestLocationID {
		return fmt.Errorf("origen y destino no pueden ser la misma ubicación: %w", domain.ErrInvalidInput)
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("cantidad inválida para producto %s: %w", item.ProductID, domain.ErrInvalidInput)
		}
	}

	source, err := uc.locationRepo.GetByID(ctx, input.SourceLocationID)
	if err != nil {
		return err
	}
	dest, err := uc.locationRepo.GetByID(ctx, input.DestLocationID)
	if err != nil {
		return err
	}
	if source == nil || !source.Active {
		return fmt.Errorf("ubicación origen %s: %w", input.SourceLocationID, domain.ErrNotFound)
	}
	if dest == nil || !dest.Active {
		return fmt.Errorf("ubicación destino %s: %w", input.DestLocationID, domain.ErrNotFound)
	}
	if !source.CanReach(dest) {
		return fmt.Errorf("%s → %s: %w", source.ID, dest.ID, domain.ErrUnreachable)
	}

	seen := make(map[string]bool, len(input.Items))
	for _, item := range input.Items {
		if seen[item.ProductID] {
			return fmt.Errorf("producto %s repetido en el batch: %w", item.ProductID, domain.ErrInvalidInput)
		}
		seen[item.ProductID] = true
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %s: %w", item.ProductID, domain.ErrNotFound)
		}
	}

	return nil
}

// existingResult recupera el batch creado por una solicitud previa con la misma clave.
func (uc *CreateTransferUseCase) existingResult(ctx context.Context, key string) (*TransferResult, error) {
	req, err := uc.requestRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("solicitud con clave %s: %w", key, domain.ErrNotFound)
	}
	movements, err := uc.movementRepo.ListByBatch(ctx, req.BatchID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(movements))
	for _, m := range movements {
		ids = append(ids, m.ID)
	}
	return &TransferResult{BatchID: req.BatchID, MovementIDs: ids}, nil
}
