package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/CafeStock-api/internal/application/dto"
	"github.com/jhoicas/CafeStock-api/internal/domain"
	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
	"github.com/jhoicas/CafeStock-api/internal/domain/repository"
)

// LedgerUseCase expone las consultas del libro de inventario y los ajustes
// manuales (compra, merma, corrección) que entran y sacan stock fuera del
// protocolo de traslados. Son las únicas operaciones que pueden alterar la
// suma total de un producto en el sistema.
type LedgerUseCase struct {
	txRunner     TxRunner
	recordRepo   repository.InventoryRecordRepository
	movementRepo repository.StockMovementRepository
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	recordRepo repository.InventoryRecordRepository,
	movementRepo repository.StockMovementRepository,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:     txRunner,
		recordRepo:   recordRepo,
		movementRepo: movementRepo,
		locationRepo: locationRepo,
		productRepo:  productRepo,
	}
}

// GetQuantity devuelve la cantidad disponible; 0 si nunca ha llegado stock.
func (uc *LedgerUseCase) GetQuantity(ctx context.Context, locationID, productID string) (int64, error) {
	if locationID == "" || productID == "" {
		return 0, fmt.Errorf("ubicación y producto son requeridos: %w", domain.ErrInvalidInput)
	}
	record, err := uc.recordRepo.Get(ctx, locationID, productID)
	if err != nil {
		return 0, err
	}
	return record.Quantity, nil
}

// ListByLocation lista el stock de una ubicación con paginación.
func (uc *LedgerUseCase) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	if locationID == "" {
		return nil, fmt.Errorf("ubicación requerida: %w", domain.ErrInvalidInput)
	}
	return uc.recordRepo.ListByLocation(ctx, locationID, limit, offset)
}

// SetLevels configura los niveles mínimo y máximo de un registro.
func (uc *LedgerUseCase) SetLevels(ctx context.Context, locationID, productID string, minLevel, maxLevel int64) error {
	if locationID == "" || productID == "" {
		return fmt.Errorf("ubicación y producto son requeridos: %w", domain.ErrInvalidInput)
	}
	if minLevel < 0 || maxLevel < 0 || (maxLevel > 0 && minLevel > maxLevel) {
		return fmt.Errorf("niveles inválidos (min %d, max %d): %w", minLevel, maxLevel, domain.ErrInvalidInput)
	}
	return uc.recordRepo.SetLevels(ctx, locationID, productID, minLevel, maxLevel)
}

// LowStock devuelve los productos bajo su nivel mínimo con la cantidad sugerida
// para volver al máximo. locationID vacío considera todas las ubicaciones.
func (uc *LedgerUseCase) LowStock(ctx context.Context, locationID string) ([]dto.LowStockItemDTO, error) {
	records, err := uc.recordRepo.ListBelowMin(ctx, locationID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LowStockItemDTO, 0, len(records))
	for _, r := range records {
		item := dto.LowStockItemDTO{
			LocationID:   r.LocationID,
			ProductID:    r.ProductID,
			Quantity:     r.Quantity,
			MinLevel:     r.MinLevel,
			SuggestedQty: r.SuggestedTopUp(),
		}
		if product, err := uc.productRepo.GetByID(ctx, r.ProductID); err == nil && product != nil {
			item.ProductName = product.Name
			item.SKU = product.SKU
		}
		items = append(items, item)
	}
	return items, nil
}

// TotalForProduct suma el stock de un producto en todas las ubicaciones más lo
// que está en tránsito (movimientos sent). Esta suma solo cambia por ajustes.
func (uc *LedgerUseCase) TotalForProduct(ctx context.Context, productID string) (int64, error) {
	if productID == "" {
		return 0, fmt.Errorf("producto requerido: %w", domain.ErrInvalidInput)
	}
	onHand, err := uc.recordRepo.SumByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	inFlight, err := uc.movementRepo.SumInFlightByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	return onHand + inFlight, nil
}

// AdjustmentInput entrada para RegisterAdjustment.
type AdjustmentInput struct {
	LocationID string
	ProductID  string
	Quantity   int64 // positiva entrada, negativa salida
	Type       string
	Reason     string
	CreatedBy  string
}

// RegisterAdjustment registra una entrada o salida deliberada de stock con su
// motivo. Las salidas usan el mismo decremento condicional del libro: una merma
// jamás deja el inventario en negativo.
func (uc *LedgerUseCase) RegisterAdjustment(ctx context.Context, input AdjustmentInput) error {
	if !entity.ValidAdjustmentType(input.Type) {
		return fmt.Errorf("tipo de ajuste %q: %w", input.Type, domain.ErrInvalidInput)
	}
	if input.Quantity == 0 {
		return fmt.Errorf("cantidad cero: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(input.Reason) == "" {
		return fmt.Errorf("motivo del ajuste requerido: %w", domain.ErrInvalidInput)
	}
	if input.Type == entity.AdjustmentTypePurchase && input.Quantity < 0 {
		return fmt.Errorf("una compra no puede ser negativa: %w", domain.ErrInvalidInput)
	}
	if input.Type == entity.AdjustmentTypeWaste && input.Quantity > 0 {
		return fmt.Errorf("una merma no puede ser positiva: %w", domain.ErrInvalidInput)
	}

	location, err := uc.locationRepo.GetByID(ctx, input.LocationID)
	if err != nil {
		return err
	}
	if location == nil || !location.Active {
		return fmt.Errorf("ubicación %s: %w", input.LocationID, domain.ErrNotFound)
	}
	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("producto %s: %w", input.ProductID, domain.ErrNotFound)
	}

	now := time.Now()
	return uc.txRunner.RunAdjustment(ctx, func(
		invRepo repository.InventoryRecordRepository,
		adjRepo repository.StockAdjustmentRepository,
	) error {
		if input.Quantity > 0 {
			if err := invRepo.Increment(ctx, input.LocationID, input.ProductID, input.Quantity); err != nil {
				return err
			}
		} else {
			if err := invRepo.Decrement(ctx, input.LocationID, input.ProductID, -input.Quantity); err != nil {
				return err
			}
		}
		adj := &entity.StockAdjustment{
			ID:         uuid.New().String(),
			LocationID: input.LocationID,
			ProductID:  input.ProductID,
			Quantity:   input.Quantity,
			Type:       input.Type,
			Reason:     input.Reason,
			CreatedAt:  now,
			CreatedBy:  input.CreatedBy,
		}
		return adjRepo.Create(ctx, adj)
	})
}
