// Package memory implementa todos los puertos de persistencia sobre mapas en
// memoria, con la misma semántica que los adaptadores PostgreSQL: decremento
// condicional que nunca deja stock negativo, transición sent→terminal en la que
// la primera resolución gana, y rollback por snapshot en el TxRunner. Se usa en
// los tests de los casos de uso y para correr el servicio sin base de datos.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/CafeStock-api/internal/domain"
	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
)

type recordKey struct {
	locationID string
	productID  string
}

// Store guarda el estado completo del sistema en memoria.
// El mutex serializa cada operación: el equivalente de la atomicidad por fila del store real.
type Store struct {
	mu          sync.Mutex
	records     map[recordKey]*entity.InventoryRecord
	movements   map[string]*entity.StockMovement
	locations   map[string]*entity.Location
	products    map[string]*entity.Product
	adjustments map[string]*entity.StockAdjustment
	requests    map[string]*entity.TransferRequest
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		records:     make(map[recordKey]*entity.InventoryRecord),
		movements:   make(map[string]*entity.StockMovement),
		locations:   make(map[string]*entity.Location),
		products:    make(map[string]*entity.Product),
		adjustments: make(map[string]*entity.StockAdjustment),
		requests:    make(map[string]*entity.TransferRequest),
	}
}

// ── InventoryRecordRepository ─────────────────────────────────────────────────

// InventoryRecords devuelve la vista repositorio del libro de inventario.
func (s *Store) InventoryRecords() *InventoryRecordRepo { return &InventoryRecordRepo{s: s} }

// InventoryRecordRepo implementación en memoria del libro de inventario.
type InventoryRecordRepo struct{ s *Store }

func (r *InventoryRecordRepo) Get(_ context.Context, locationID, productID string) (*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.getRecordLocked(locationID, productID), nil
}

func (s *Store) getRecordLocked(locationID, productID string) *entity.InventoryRecord {
	if rec, ok := s.records[recordKey{locationID, productID}]; ok {
		copied := *rec
		return &copied
	}
	return &entity.InventoryRecord{LocationID: locationID, ProductID: productID}
}

func (r *InventoryRecordRepo) Increment(_ context.Context, locationID, productID string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidInput
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := recordKey{locationID, productID}
	rec, ok := r.s.records[key]
	if !ok {
		rec = &entity.InventoryRecord{LocationID: locationID, ProductID: productID}
		r.s.records[key] = rec
	}
	rec.Quantity += amount
	rec.LastUpdated = time.Now()
	return nil
}

// Decrement aplica el chequeo y la resta bajo el mismo lock: dos decrementos
// concurrentes jamás pueden dejar la cantidad en negativo.
func (r *InventoryRecordRepo) Decrement(_ context.Context, locationID, productID string, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidInput
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := recordKey{locationID, productID}
	rec, ok := r.s.records[key]
	if !ok || rec.Quantity < amount {
		available := int64(0)
		if ok {
			available = rec.Quantity
		}
		return &domain.InsufficientStockError{
			ProductID:  productID,
			LocationID: locationID,
			Requested:  amount,
			Available:  available,
		}
	}
	rec.Quantity -= amount
	rec.LastUpdated = time.Now()
	return nil
}

func (r *InventoryRecordRepo) SetLevels(_ context.Context, locationID, productID string, minLevel, maxLevel int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := recordKey{locationID, productID}
	rec, ok := r.s.records[key]
	if !ok {
		rec = &entity.InventoryRecord{LocationID: locationID, ProductID: productID}
		r.s.records[key] = rec
	}
	rec.MinLevel = minLevel
	rec.MaxLevel = maxLevel
	rec.LastUpdated = time.Now()
	return nil
}

func (r *InventoryRecordRepo) ListByLocation(_ context.Context, locationID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.InventoryRecord
	for key, rec := range r.s.records {
		if key.locationID == locationID {
			copied := *rec
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ProductID < list[j].ProductID })
	return paginate(list, limit, offset), nil
}

func (r *InventoryRecordRepo) SumByProduct(_ context.Context, productID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total int64
	for key, rec := range r.s.records {
		if key.productID == productID {
			total += rec.Quantity
		}
	}
	return total, nil
}

func (r *InventoryRecordRepo) ListBelowMin(_ context.Context, locationID string) ([]*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.InventoryRecord
	for key, rec := range r.s.records {
		if locationID != "" && key.locationID != locationID {
			continue
		}
		if rec.MinLevel > 0 && rec.Quantity < rec.MinLevel {
			copied := *rec
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return (list[i].MinLevel - list[i].Quantity) > (list[j].MinLevel - list[j].Quantity)
	})
	return list, nil
}

// ── StockMovementRepository ───────────────────────────────────────────────────

// StockMovements devuelve la vista repositorio del historial de traslados.
func (s *Store) StockMovements() *StockMovementRepo { return &StockMovementRepo{s: s} }

// StockMovementRepo implementación en memoria del historial de traslados.
type StockMovementRepo struct{ s *Store }

func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movements[m.ID]; ok {
		return domain.ErrDuplicate
	}
	copied := *m
	r.s.movements[m.ID] = &copied
	return nil
}

func (r *StockMovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (r *StockMovementRepo) ListPending(_ context.Context, destLocationID string) ([]*entity.StockMovement, error) {
	return r.filter(func(m *entity.StockMovement) bool {
		return m.DestLocationID == destLocationID && m.Status == entity.MovementStatusSent
	}, false), nil
}

func (r *StockMovementRepo) ListByBatch(_ context.Context, batchID string) ([]*entity.StockMovement, error) {
	return r.filter(func(m *entity.StockMovement) bool { return m.BatchID == batchID }, false), nil
}

func (r *StockMovementRepo) ListByLocation(_ context.Context, locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	list := r.filter(func(m *entity.StockMovement) bool {
		if m.SourceLocationID != locationID && m.DestLocationID != locationID {
			return false
		}
		if from != nil && m.CreatedAt.Before(*from) {
			return false
		}
		if to != nil && m.CreatedAt.After(*to) {
			return false
		}
		return true
	}, true)
	return paginate(list, limit, offset), nil
}

// MarkResolved replica el update condicional del adaptador real: solo un caller
// puede mover el registro fuera de sent.
func (r *StockMovementRepo) MarkResolved(_ context.Context, id, toStatus string, deliveredAt time.Time, notes string, evidenceRef *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.movements[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !entity.CanTransition(m.Status, toStatus) {
		return &domain.MovementStateError{MovementID: id, Status: m.Status}
	}
	m.Status = toStatus
	m.ActualDeliveryAt = &deliveredAt
	m.Notes = notes
	if evidenceRef != nil {
		m.EvidenceRef = evidenceRef
	}
	return nil
}

func (r *StockMovementRepo) SumInFlightByProduct(_ context.Context, productID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total int64
	for _, m := range r.s.movements {
		if m.ProductID == productID && m.Status == entity.MovementStatusSent {
			total += m.Quantity
		}
	}
	return total, nil
}

func (r *StockMovementRepo) filter(keep func(*entity.StockMovement) bool, newestFirst bool) []*entity.StockMovement {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.StockMovement
	for _, m := range r.s.movements {
		if keep(m) {
			copied := *m
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if newestFirst {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}

// ── LocationRepository / ProductRepository ───────────────────────────────────

// Locations devuelve la vista repositorio del directorio de ubicaciones.
func (s *Store) Locations() *LocationRepo { return &LocationRepo{s: s} }

// LocationRepo implementación en memoria del directorio.
type LocationRepo struct{ s *Store }

func (r *LocationRepo) Create(_ context.Context, l *entity.Location) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.locations[l.ID]; ok {
		return domain.ErrDuplicate
	}
	copied := *l
	r.s.locations[l.ID] = &copied
	return nil
}

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

func (r *LocationRepo) List(_ context.Context, limit, offset int) ([]*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Location
	for _, l := range r.s.locations {
		copied := *l
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return paginate(list, limit, offset), nil
}

func (r *LocationRepo) ListChildren(_ context.Context, parentID string) ([]*entity.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Location
	for _, l := range r.s.locations {
		if l.ParentID != nil && *l.ParentID == parentID {
			copied := *l
			list = append(list, &copied)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *LocationRepo) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.locations[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Active = false
	l.UpdatedAt = time.Now()
	return nil
}

// Products devuelve la vista repositorio del catálogo.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// ProductRepo implementación en memoria del catálogo.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	copied := *p
	r.s.products[p.ID] = &copied
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.SKU == sku {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Product
	for _, p := range r.s.products {
		copied := *p
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

// ── StockAdjustmentRepository / TransferRequestRepository ────────────────────

// StockAdjustments devuelve la vista repositorio de ajustes.
func (s *Store) StockAdjustments() *StockAdjustmentRepo { return &StockAdjustmentRepo{s: s} }

// StockAdjustmentRepo implementación en memoria del registro de ajustes.
type StockAdjustmentRepo struct{ s *Store }

func (r *StockAdjustmentRepo) Create(_ context.Context, a *entity.StockAdjustment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.adjustments[a.ID]; ok {
		return domain.ErrDuplicate
	}
	copied := *a
	r.s.adjustments[a.ID] = &copied
	return nil
}

func (r *StockAdjustmentRepo) ListByLocation(_ context.Context, locationID string, from, to *time.Time, limit, offset int) ([]*entity.StockAdjustment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.StockAdjustment
	for _, a := range r.s.adjustments {
		if a.LocationID != locationID {
			continue
		}
		if from != nil && a.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && a.CreatedAt.After(*to) {
			continue
		}
		copied := *a
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

// TransferRequests devuelve la vista repositorio de claves de idempotencia.
func (s *Store) TransferRequests() *TransferRequestRepo { return &TransferRequestRepo{s: s} }

// TransferRequestRepo implementación en memoria de claves de idempotencia.
type TransferRequestRepo struct{ s *Store }

func (r *TransferRequestRepo) Create(_ context.Context, req *entity.TransferRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.requests[req.IdempotencyKey]; ok {
		return domain.ErrDuplicate
	}
	copied := *req
	r.s.requests[req.IdempotencyKey] = &copied
	return nil
}

func (r *TransferRequestRepo) GetByKey(_ context.Context, idempotencyKey string) (*entity.TransferRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[idempotencyKey]
	if !ok {
		return nil, nil
	}
	copied := *req
	return &copied, nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
