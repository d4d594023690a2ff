package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
	"github.com/jhoicas/CafeStock-api/internal/domain/repository"
)

var _ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)

// StockAdjustmentRepo implementación del registro de ajustes sobre PostgreSQL (append-only).
type StockAdjustmentRepo struct {
	q Querier
}

// NewStockAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAdjustmentRepository(q Querier) *StockAdjustmentRepo {
	return &StockAdjustmentRepo{q: q}
}

// Create persiste un ajuste.
func (r *StockAdjustmentRepo) Create(ctx context.Context, a *entity.StockAdjustment) error {
	query := `
		INSERT INTO stock_adjustments (id, location_id, product_id, quantity, type, reason, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, a.ID, a.LocationID, a.ProductID, a.Quantity, a.Type, a.Reason, a.CreatedAt, a.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert stock adjustment: %w", err)
	}
	return nil
}

// ListByLocation lista ajustes de una ubicación en un rango de fechas.
func (r *StockAdjustmentRepo) ListByLocation(ctx context.Context, locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockAdjustment, error) {
	query := `
		SELECT id, location_id, product_id, quantity, type, reason, created_at, created_by
		FROM stock_adjustments WHERE location_id = $1`
	args := []any{locationID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAdjustment
	for rows.Next() {
		var a entity.StockAdjustment
		if err := rows.Scan(&a.ID, &a.LocationID, &a.ProductID, &a.Quantity, &a.Type, &a.Reason, &a.CreatedAt, &a.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
