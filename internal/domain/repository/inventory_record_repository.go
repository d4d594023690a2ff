package repository

import (
	"context"

	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
)

// InventoryRecordRepository define el puerto del libro de inventario: única
// autoridad sobre la cantidad disponible por (ubicación, producto).
// Increment y Decrement deben ser atómicos a nivel del store (update condicional),
// nunca leer-y-escribir en la aplicación.
type InventoryRecordRepository interface {
	// Get devuelve el registro; si no existe, un registro con Quantity 0 (nunca error por ausencia).
	Get(ctx context.Context, locationID, productID string) (*entity.InventoryRecord, error)
	// Increment suma amount (> 0) creando el registro si no existe.
	Increment(ctx context.Context, locationID, productID string, amount int64) error
	// Decrement resta amount (> 0); devuelve *domain.InsufficientStockError si la
	// cantidad disponible es menor. Jamás deja la fila en negativo.
	Decrement(ctx context.Context, locationID, productID string, amount int64) error
	// SetLevels configura los niveles mínimo y máximo del registro.
	SetLevels(ctx context.Context, locationID, productID string, minLevel, maxLevel int64) error
	ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.InventoryRecord, error)
	// SumByProduct suma la cantidad disponible de un producto en todas las ubicaciones.
	SumByProduct(ctx context.Context, productID string) (int64, error)
	// ListBelowMin devuelve los registros con stock bajo el mínimo. locationID vacío = todas las ubicaciones.
	ListBelowMin(ctx context.Context, locationID string) ([]*entity.InventoryRecord, error)
}
