package memory

import (
	"context"

	"github.com/jhoicas/CafeStock-api/internal/application/confirmation"
	"github.com/jhoicas/CafeStock-api/internal/application/inventory"
	"github.com/jhoicas/CafeStock-api/internal/application/transfer"
	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
	"github.com/jhoicas/CafeStock-api/internal/domain/repository"
)

// Ensure TxRunner implements los puertos transaccionales de los casos de uso.
var _ transfer.TxRunner = (*TxRunner)(nil)
var _ confirmation.TxRunner = (*TxRunner)(nil)
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner emula las transacciones de BD sobre el Store: toma un snapshot del
// estado antes del callback y lo restaura si este falla. Eso reproduce la
// garantía todo-o-nada del batch (un renglón sin stock revierte los descuentos
// anteriores) sin PostgreSQL.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre un Store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta el callback de un envío de batch con semántica rollback-on-error.
func (r *TxRunner) Run(ctx context.Context, fn func(
	invRepo repository.InventoryRecordRepository,
	movRepo repository.StockMovementRepository,
	reqRepo repository.TransferRequestRepository,
) error) error {
	return r.withSnapshot(func() error {
		return fn(r.store.InventoryRecords(), r.store.StockMovements(), r.store.TransferRequests())
	})
}

// RunResolution ejecuta el callback de una resolución de movimiento.
func (r *TxRunner) RunResolution(ctx context.Context, fn func(
	invRepo repository.InventoryRecordRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.withSnapshot(func() error {
		return fn(r.store.InventoryRecords(), r.store.StockMovements())
	})
}

// RunAdjustment ejecuta el callback de un ajuste manual.
func (r *TxRunner) RunAdjustment(ctx context.Context, fn func(
	invRepo repository.InventoryRecordRepository,
	adjRepo repository.StockAdjustmentRepository,
) error) error {
	return r.withSnapshot(func() error {
		return fn(r.store.InventoryRecords(), r.store.StockAdjustments())
	})
}

func (r *TxRunner) withSnapshot(fn func() error) error {
	snap := r.store.snapshot()
	if err := fn(); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

type storeSnapshot struct {
	records     map[recordKey]*entity.InventoryRecord
	movements   map[string]*entity.StockMovement
	adjustments map[string]*entity.StockAdjustment
	requests    map[string]*entity.TransferRequest
}

// snapshot copia el estado mutable por los callbacks transaccionales.
// Directorio y catálogo no participan en transacciones.
func (s *Store) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := storeSnapshot{
		records:     make(map[recordKey]*entity.InventoryRecord, len(s.records)),
		movements:   make(map[string]*entity.StockMovement, len(s.movements)),
		adjustments: make(map[string]*entity.StockAdjustment, len(s.adjustments)),
		requests:    make(map[string]*entity.TransferRequest, len(s.requests)),
	}
	for k, v := range s.records {
		copied := *v
		snap.records[k] = &copied
	}
	for k, v := range s.movements {
		copied := *v
		snap.movements[k] = &copied
	}
	for k, v := range s.adjustments {
		copied := *v
		snap.adjustments[k] = &copied
	}
	for k, v := range s.requests {
		copied := *v
		snap.requests[k] = &copied
	}
	return snap
}

func (s *Store) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = snap.records
	s.movements = snap.movements
	s.adjustments = snap.adjustments
	s.requests = snap.requests
}
