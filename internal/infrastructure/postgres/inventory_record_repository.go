package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/CafeStock-api/internal/domain"
	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
	"github.com/jhoicas/CafeStock-api/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo implementación del libro de inventario sobre PostgreSQL
// (usable con pool o tx). El decremento es un UPDATE condicional sobre
// quantity >= amount: la fila jamás queda en negativo aunque haya callers
// concurrentes, sin SELECT FOR UPDATE ni lectura previa.
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

// Get obtiene el registro; si no existe devuelve uno con cantidad 0, nunca error.
func (r *InventoryRecordRepo) Get(ctx context.Context, locationID, productID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT location_id, product_id, quantity, min_level, max_level, last_updated
		FROM inventory_records WHERE location_id = $1 AND product_id = $2`
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, locationID, productID).Scan(
		&rec.LocationID, &rec.ProductID, &rec.Quantity, &rec.MinLevel, &rec.MaxLevel, &rec.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryRecord{LocationID: locationID, ProductID: productID}, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return &rec, nil
}

// Increment suma amount creando el registro si no existe (upsert).
func (r *InventoryRecordRepo) Increment(ctx context.Context, locationID, productID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("incremento no positivo (%d): %w", amount, domain.ErrInvalidInput)
	}
	query := `
		INSERT INTO inventory_records (location_id, product_id, quantity, min_level, max_level, last_updated)
		VALUES ($1, $2, $3, 0, 0, now())
		ON CONFLICT (location_id, product_id)
		DO UPDATE SET quantity = inventory_records.quantity + EXCLUDED.quantity, last_updated = now()`
	if _, err := r.q.Exec(ctx, query, locationID, productID, amount); err != nil {
		return fmt.Errorf("increment inventory: %w", err)
	}
	return nil
}

// Decrement resta amount solo si hay cantidad suficiente. Si el update condicional
// no afecta filas, se consulta la cantidad actual para reportar el déficit exacto.
func (r *InventoryRecordRepo) Decrement(ctx context.Context, locationID, productID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("decremento no positivo (%d): %w", amount, domain.ErrInvalidInput)
	}
	query := `
		UPDATE inventory_records
		SET quantity = quantity - $3, last_updated = now()
		WHERE location_id = $1 AND product_id = $2 AND quantity >= $3`
	cmd, err := r.q.Exec(ctx, query, locationID, productID, amount)
	if err != nil {
		return fmt.Errorf("decrement inventory: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		rec, err := r.Get(ctx, locationID, productID)
		if err != nil {
			return err
		}
		return &domain.InsufficientStockError{
			ProductID:  productID,
			LocationID: locationID,
			Requested:  amount,
			Available:  rec.Quantity,
		}
	}
	return nil
}

// SetLevels configura los niveles mínimo y máximo (upsert).
func (r *InventoryRecordRepo) SetLevels(ctx context.Context, locationID, productID string, minLevel, maxLevel int64) error {
	query := `
		INSERT INTO inventory_records (location_id, product_id, quantity, min_level, max_level, last_updated)
		VALUES ($1, $2, 0, $3, $4, now())
		ON CONFLICT (location_id, product_id)
		DO UPDATE SET min_level = EXCLUDED.min_level, max_level = EXCLUDED.max_level, last_updated = now()`
	if _, err := r.q.Exec(ctx, query, locationID, productID, minLevel, maxLevel); err != nil {
		return fmt.Errorf("set inventory levels: %w", err)
	}
	return nil
}

// ListByLocation lista el stock de una ubicación con paginación.
func (r *InventoryRecordRepo) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT location_id, product_id, quantity, min_level, max_level, last_updated
		FROM inventory_records WHERE location_id = $1
		ORDER BY product_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory by location: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// SumByProduct suma la cantidad disponible de un producto en todas las ubicaciones.
func (r *InventoryRecordRepo) SumByProduct(ctx context.Context, productID string) (int64, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM inventory_records WHERE product_id = $1`
	var total int64
	if err := r.q.QueryRow(ctx, query, productID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum inventory by product: %w", err)
	}
	return total, nil
}

// ListBelowMin devuelve los registros con stock bajo el mínimo, mayor déficit primero.
// locationID vacío considera todas las ubicaciones.
func (r *InventoryRecordRepo) ListBelowMin(ctx context.Context, locationID string) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT location_id, product_id, quantity, min_level, max_level, last_updated
		FROM inventory_records
		WHERE min_level > 0 AND quantity < min_level`
	args := []any{}
	if locationID != "" {
		query += ` AND location_id = $1`
		args = append(args, locationID)
	}
	query += ` ORDER BY (min_level - quantity) DESC`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list below min: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows pgx.Rows) ([]*entity.InventoryRecord, error) {
	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.LocationID, &rec.ProductID, &rec.Quantity, &rec.MinLevel, &rec.MaxLevel, &rec.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
