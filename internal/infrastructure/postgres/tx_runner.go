package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/CafeStock-api/internal/application/confirmation"
	"github.com/jhoicas/CafeStock-api/internal/application/inventory"
	"github.com/jhoicas/CafeStock-api/internal/application/transfer"
	"github.com/jhoicas/CafeStock-api/internal/domain/repository"
)

// Ensure TxRunner implements los puertos de los tres casos de uso transaccionales.
var _ transfer.TxRunner = (*TxRunner)(nil)
var _ confirmation.TxRunner = (*TxRunner)(nil)
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción para un envío de batch: clave de idempotencia,
// descuentos de stock y movimientos sent se confirman o revierten juntos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	invRepo repository.InventoryRecordRepository,
	movRepo repository.StockMovementRepository,
	reqRepo repository.TransferRequestRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewInventoryRecordRepository(tx), NewStockMovementRepository(tx), NewTransferRequestRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunResolution inicia una transacción para resolver un movimiento
// (confirmación o rechazo): transición de estado e inventario juntos.
func (r *TxRunner) RunResolution(ctx context.Context, fn func(
	invRepo repository.InventoryRecordRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewInventoryRecordRepository(tx), NewStockMovementRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunAdjustment inicia una transacción para un ajuste manual de inventario.
func (r *TxRunner) RunAdjustment(ctx context.Context, fn func(
	invRepo repository.InventoryRecordRepository,
	adjRepo repository.StockAdjustmentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewInventoryRecordRepository(tx), NewStockAdjustmentRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
