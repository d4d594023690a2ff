package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/CafeStock-api/internal/domain"
	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
	"github.com/jhoicas/CafeStock-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, batch_id, product_id, quantity, source_location_id, dest_location_id,
		status, created_at, expected_delivery_at, actual_delivery_at, notes, evidence_ref, created_by`

// StockMovementRepo implementación del historial de traslados sobre PostgreSQL
// (usable con pool o tx). Append-only: la única mutación permitida es la
// transición sent → terminal vía MarkResolved.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.BatchID, m.ProductID, m.Quantity, m.SourceLocationID, m.DestLocationID,
		m.Status, m.CreatedAt, m.ExpectedDeliveryAt, m.ActualDeliveryAt, m.Notes, m.EvidenceRef, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID; nil si no existe.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// ListPending lista los movimientos sent dirigidos a una ubicación, los más antiguos primero.
// Usa el índice (dest_location_id, status).
func (r *StockMovementRepo) ListPending(ctx context.Context, destLocationID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM stock_movements
		WHERE dest_location_id = $1 AND status = $2
		ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, destLocationID, entity.MovementStatusSent)
	if err != nil {
		return nil, fmt.Errorf("list pending movements: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByBatch lista los movimientos de un batch.
func (r *StockMovementRepo) ListByBatch(ctx context.Context, batchID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM stock_movements
		WHERE batch_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list movements by batch: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByLocation lista movimientos que tocan una ubicación (origen o destino) en un rango de fechas.
func (r *StockMovementRepo) ListByLocation(ctx context.Context, locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + ` FROM stock_movements
		WHERE (source_location_id = $1 OR dest_location_id = $1)`
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
		return nil, fmt.Errorf("list movements by location: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// MarkResolved ejecuta la transición sent → toStatus como update condicional.
// Si no afecta filas, consulta el movimiento para distinguir NotFound de un
// estado ya resuelto (primera confirmación gana, la segunda recibe el error).
func (r *StockMovementRepo) MarkResolved(ctx context.Context, id, toStatus string, deliveredAt time.Time, notes string, evidenceRef *string) error {
	if !entity.CanTransition(entity.MovementStatusSent, toStatus) {
		return fmt.Errorf("transición a %q: %w", toStatus, domain.ErrInvalidInput)
	}
	query := `
		UPDATE stock_movements
		SET status = $2, actual_delivery_at = $3, notes = $4, evidence_ref = COALESCE($5, evidence_ref)
		WHERE id = $1 AND status = $6`
	cmd, err := r.q.Exec(ctx, query, id, toStatus, deliveredAt, notes, evidenceRef, entity.MovementStatusSent)
	if err != nil {
		return fmt.Errorf("mark movement resolved: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		m, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("movimiento %s: %w", id, domain.ErrNotFound)
		}
		return &domain.MovementStateError{MovementID: id, Status: m.Status}
	}
	return nil
}

// SumInFlightByProduct suma las cantidades en tránsito (sent) de un producto.
func (r *StockMovementRepo) SumInFlightByProduct(ctx context.Context, productID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0) FROM stock_movements
		WHERE product_id = $1 AND status = $2`
	var total int64
	if err := r.q.QueryRow(ctx, query, productID, entity.MovementStatusSent).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum in-flight by product: %w", err)
	}
	return total, nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.BatchID, &m.ProductID, &m.Quantity, &m.SourceLocationID, &m.DestLocationID,
		&m.Status, &m.CreatedAt, &m.ExpectedDeliveryAt, &m.ActualDeliveryAt, &m.Notes, &m.EvidenceRef, &m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
