package repository

import (
	"context"
	"time"

	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
)

// StockAdjustmentRepository define el puerto de persistencia de ajustes manuales (append-only).
type StockAdjustmentRepository interface {
	Create(ctx context.Context, adjustment *entity.StockAdjustment) error
	ListByLocation(ctx context.Context, locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockAdjustment, error)
}
