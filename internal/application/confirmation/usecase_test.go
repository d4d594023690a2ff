package confirmation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/CafeStock-api/internal/application/confirmation"
	"github.com/jhoicas/CafeStock-api/internal/application/transfer"
	"github.com/jhoicas/CafeStock-api/internal/domain"
	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
	"github.com/jhoicas/CafeStock-api/internal/infrastructure/memory"
)

const (
	hubID    = "00000000-0000-0000-0000-00000000a001"
	branchID = "00000000-0000-0000-0000-00000000a002"
	riderID  = "00000000-0000-0000-0000-00000000a003"
	cafeID   = "00000000-0000-0000-0000-00000000b001"
)

type fixture struct {
	store     *memory.Store
	createUC  *transfer.CreateTransferUseCase
	confirmUC *confirmation.ConfirmationUseCase
}

func newFixture(t *testing.T, hubStock int64) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	parent := hubID

	locations := []*entity.Location{
		{ID: hubID, Name: "Sede Centro", Kind: entity.LocationKindHub, Active: true},
		{ID: branchID, Name: "Kiosco Norte", Kind: entity.LocationKindSmallBranch, ParentID: &parent, Active: true},
		{ID: riderID, Name: "Rider Carlos", Kind: entity.LocationKindRider, ParentID: &parent, Active: true},
	}
	for _, l := range locations {
		require.NoError(t, store.Locations().Create(ctx, l))
	}
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: cafeID, SKU: "CAFE-250", Name: "Café molido 250g",
	}))
	if hubStock > 0 {
		require.NoError(t, store.InventoryRecords().Increment(ctx, hubID, cafeID, hubStock))
	}

	txRunner := memory.NewTxRunner(store)
	return &fixture{
		store: store,
		createUC: transfer.NewCreateTransferUseCase(
			txRunner, store.Locations(), store.Products(),
			store.StockMovements(), store.TransferRequests(), 0,
		),
		confirmUC: confirmation.NewConfirmationUseCase(txRunner, store.StockMovements()),
	}
}

func (f *fixture) quantity(t *testing.T, locationID, productID string) int64 {
	t.Helper()
	r, err := f.store.InventoryRecords().Get(context.Background(), locationID, productID)
	require.NoError(t, err)
	return r.Quantity
}

func (f *fixture) dispatch(t *testing.T, dest string, qty int64) *transfer.TransferResult {
	t.Helper()
	result, err := f.createUC.CreateTransfer(context.Background(), transfer.TransferInput{
		SourceLocationID: hubID,
		DestLocationID:   dest,
		Items:            []transfer.TransferItemInput{{ProductID: cafeID, Quantity: qty}},
		CreatedBy:        "user-1",
	})
	require.NoError(t, err)
	return result
}

// sumForProduct implementa la cantidad conservada: stock en todas las
// ubicaciones más lo que viaja en movimientos sent.
func (f *fixture) sumForProduct(t *testing.T, productID string) int64 {
	t.Helper()
	ctx := context.Background()
	total, err := f.store.InventoryRecords().SumByProduct(ctx, productID)
	require.NoError(t, err)
	inFlight, err := f.store.StockMovements().SumInFlightByProduct(ctx, productID)
	require.NoError(t, err)
	return total + inFlight
}

// Escenario: la sede tiene 10, envía 4 al rider, el rider confirma.
func TestConfirm_EscenarioEnvioYConfirmacion(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	result := f.dispatch(t, riderID, 4)
	assert.Equal(t, int64(6), f.quantity(t, hubID, cafeID))

	evidence := "delivery-evidence/abc.jpg"
	require.NoError(t, f.confirmUC.Confirm(ctx, riderID, result.MovementIDs, &evidence))

	assert.Equal(t, int64(4), f.quantity(t, riderID, cafeID))

	m, err := f.store.StockMovements().GetByID(ctx, result.MovementIDs[0])
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusReceived, m.Status)
	require.NotNil(t, m.ActualDeliveryAt)
	require.NotNil(t, m.EvidenceRef)
	assert.Equal(t, evidence, *m.EvidenceRef)
}

// Confirmar dos veces el mismo movimiento suma el stock exactamente una vez;
// la segunda llamada recibe InvalidState.
func TestConfirm_DobleConfirmacionNoDuplicaStock(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	result := f.dispatch(t, riderID, 4)
	require.NoError(t, f.confirmUC.Confirm(ctx, riderID, result.MovementIDs, nil))

	err := f.confirmUC.Confirm(ctx, riderID, result.MovementIDs, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	var stateErr *domain.MovementStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, entity.MovementStatusReceived, stateErr.Status)

	assert.Equal(t, int64(4), f.quantity(t, riderID, cafeID))
}

// Un movimiento dirigido a otra ubicación se reporta como no encontrado.
func TestConfirm_MovimientoAjeno(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	result := f.dispatch(t, riderID, 4)

	err := f.confirmUC.Confirm(ctx, branchID, result.MovementIDs, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// El movimiento sigue pendiente para su destino real.
	pending, err := f.confirmUC.ListPending(ctx, riderID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

// Escenario: la sede envía 4 al rider y el rider rechaza. El stock vuelve a la
// sede, el movimiento original queda rejected y aparece un returned inverso.
func TestReject_EscenarioRechazoConDevolucion(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	result := f.dispatch(t, riderID, 4)
	assert.Equal(t, int64(6), f.quantity(t, hubID, cafeID))

	require.NoError(t, f.confirmUC.Reject(ctx, riderID, result.MovementIDs, "producto dañado", "user-2"))

	assert.Equal(t, int64(10), f.quantity(t, hubID, cafeID))
	assert.Equal(t, int64(0), f.quantity(t, riderID, cafeID))

	m, err := f.store.StockMovements().GetByID(ctx, result.MovementIDs[0])
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusRejected, m.Status)
	assert.Contains(t, m.Notes, "producto dañado")

	// El batch conserva la pista completa: el original y la devolución.
	batch, err := f.confirmUC.GetBatch(ctx, result.BatchID)
	require.NoError(t, err)
	require.Len(t, batch, 2)

	var returned *entity.StockMovement
	for _, mov := range batch {
		if mov.Status == entity.MovementStatusReturned {
			returned = mov
		}
	}
	require.NotNil(t, returned, "debe existir el movimiento de devolución")
	assert.Equal(t, riderID, returned.SourceLocationID)
	assert.Equal(t, hubID, returned.DestLocationID)
	assert.Equal(t, int64(4), returned.Quantity)
	assert.Equal(t, "user-2", returned.CreatedBy)
}

func TestReject_MotivoObligatorio(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	result := f.dispatch(t, riderID, 4)

	err := f.confirmUC.Reject(ctx, riderID, result.MovementIDs, "   ", "user-2")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// El movimiento sigue pendiente y el stock sigue en tránsito.
	pending, err := f.confirmUC.ListPending(ctx, riderID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, int64(6), f.quantity(t, hubID, cafeID))
}

// Rechazar un movimiento ya resuelto no devuelve stock dos veces.
func TestReject_MovimientoYaResuelto(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	result := f.dispatch(t, riderID, 4)
	require.NoError(t, f.confirmUC.Reject(ctx, riderID, result.MovementIDs, "caja rota", "user-2"))

	err := f.confirmUC.Reject(ctx, riderID, result.MovementIDs, "caja rota", "user-2")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(10), f.quantity(t, hubID, cafeID))
}

// Escenario: la sede tiene 5 y pide enviar 6. Falla, nada cambia.
func TestCreateTransfer_EscenarioStockInsuficiente(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	_, err := f.createUC.CreateTransfer(ctx, transfer.TransferInput{
		SourceLocationID: hubID,
		DestLocationID:   riderID,
		Items:            []transfer.TransferItemInput{{ProductID: cafeID, Quantity: 6}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(5), f.quantity(t, hubID, cafeID))
	pending, err := f.confirmUC.ListPending(ctx, riderID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

// Conservación: la suma de stock en ubicaciones más lo que viaja en sent es
// invariante ante cualquier secuencia de envíos, confirmaciones y rechazos.
func TestConservacionDeStock(t *testing.T) {
	f := newFixture(t, 100)
	ctx := context.Background()

	before := f.sumForProduct(t, cafeID)
	require.Equal(t, int64(100), before)

	// Envío confirmado.
	r1 := f.dispatch(t, riderID, 10)
	assert.Equal(t, before, f.sumForProduct(t, cafeID))
	require.NoError(t, f.confirmUC.Confirm(ctx, riderID, r1.MovementIDs, nil))
	assert.Equal(t, before, f.sumForProduct(t, cafeID))

	// Envío rechazado.
	r2 := f.dispatch(t, branchID, 25)
	assert.Equal(t, before, f.sumForProduct(t, cafeID))
	require.NoError(t, f.confirmUC.Reject(ctx, branchID, r2.MovementIDs, "pedido equivocado", "user-2"))
	assert.Equal(t, before, f.sumForProduct(t, cafeID))

	// Envío que sigue en tránsito.
	f.dispatch(t, branchID, 7)
	assert.Equal(t, before, f.sumForProduct(t, cafeID))

	// Envío fallido por stock insuficiente.
	_, err := f.createUC.CreateTransfer(ctx, transfer.TransferInput{
		SourceLocationID: hubID,
		DestLocationID:   branchID,
		Items:            []transfer.TransferItemInput{{ProductID: cafeID, Quantity: 1000}},
	})
	require.Error(t, err)
	assert.Equal(t, before, f.sumForProduct(t, cafeID))
}

func TestGetBatch_Inexistente(t *testing.T) {
	f := newFixture(t, 10)
	_, err := f.confirmUC.GetBatch(context.Background(), "00000000-0000-0000-0000-00000000dead")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListHistory_FiltraPorFechas(t *testing.T) {
	f := newFixture(t, 50)
	ctx := context.Background()

	r := f.dispatch(t, riderID, 5)
	require.NoError(t, f.confirmUC.Confirm(ctx, riderID, r.MovementIDs, nil))
	f.dispatch(t, branchID, 5)

	// La sede tocó ambos movimientos como origen.
	all, err := f.confirmUC.ListHistory(ctx, hubID, nil, nil, 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Un rango en el futuro no devuelve nada.
	future := time.Now().Add(time.Hour)
	none, err := f.confirmUC.ListHistory(ctx, hubID, &future, nil, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
