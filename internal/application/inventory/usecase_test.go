package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/CafeStock-api/internal/application/inventory"
	"github.com/jhoicas/CafeStock-api/internal/domain"
	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
	"github.com/jhoicas/CafeStock-api/internal/infrastructure/memory"
)

const (
	hubID    = "00000000-0000-0000-0000-00000000a001"
	branchID = "00000000-0000-0000-0000-00000000a002"
	cafeID   = "00000000-0000-0000-0000-00000000b001"
	lecheID  = "00000000-0000-0000-0000-00000000b002"
)

func newLedger(t *testing.T) (*memory.Store, *inventory.LedgerUseCase) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	parent := hubID

	require.NoError(t, store.Locations().Create(ctx, &entity.Location{
		ID: hubID, Name: "Sede Centro", Kind: entity.LocationKindHub, Active: true,
	}))
	require.NoError(t, store.Locations().Create(ctx, &entity.Location{
		ID: branchID, Name: "Kiosco Norte", Kind: entity.LocationKindSmallBranch, ParentID: &parent, Active: true,
	}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: cafeID, SKU: "CAFE-250", Name: "Café molido 250g",
	}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: lecheID, SKU: "LECHE-1L", Name: "Leche entera 1L",
	}))

	uc := inventory.NewLedgerUseCase(
		memory.NewTxRunner(store),
		store.InventoryRecords(),
		store.StockMovements(),
		store.Locations(),
		store.Products(),
	)
	return store, uc
}

func TestGetQuantity_SinRegistroDevuelveCero(t *testing.T) {
	_, uc := newLedger(t)
	qty, err := uc.GetQuantity(context.Background(), hubID, cafeID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty)
}

func TestRegisterAdjustment_CompraSumaStock(t *testing.T) {
	store, uc := newLedger(t)
	ctx := context.Background()

	err := uc.RegisterAdjustment(ctx, inventory.AdjustmentInput{
		LocationID: hubID,
		ProductID:  cafeID,
		Quantity:   40,
		Type:       entity.AdjustmentTypePurchase,
		Reason:     "pedido al tostador",
		CreatedBy:  "user-1",
	})
	require.NoError(t, err)

	qty, err := uc.GetQuantity(ctx, hubID, cafeID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), qty)

	adjustments, err := store.StockAdjustments().ListByLocation(ctx, hubID, nil, nil, 20, 0)
	require.NoError(t, err)
	require.Len(t, adjustments, 1)
	assert.Equal(t, entity.AdjustmentTypePurchase, adjustments[0].Type)
	assert.Equal(t, int64(40), adjustments[0].Quantity)
}

func TestRegisterAdjustment_MermaNoDejaStockNegativo(t *testing.T) {
	store, uc := newLedger(t)
	ctx := context.Background()
	require.NoError(t, store.InventoryRecords().Increment(ctx, hubID, cafeID, 5))

	err := uc.RegisterAdjustment(ctx, inventory.AdjustmentInput{
		LocationID: hubID,
		ProductID:  cafeID,
		Quantity:   -8,
		Type:       entity.AdjustmentTypeWaste,
		Reason:     "café vencido",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Nada cambió: ni el stock ni el registro de ajustes.
	qty, err := uc.GetQuantity(ctx, hubID, cafeID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), qty)

	adjustments, err := store.StockAdjustments().ListByLocation(ctx, hubID, nil, nil, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, adjustments)
}

func TestRegisterAdjustment_Validaciones(t *testing.T) {
	_, uc := newLedger(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input inventory.AdjustmentInput
	}{
		{"tipo desconocido", inventory.AdjustmentInput{
			LocationID: hubID, ProductID: cafeID, Quantity: 1, Type: "theft", Reason: "x",
		}},
		{"cantidad cero", inventory.AdjustmentInput{
			LocationID: hubID, ProductID: cafeID, Quantity: 0, Type: entity.AdjustmentTypeCorrection, Reason: "x",
		}},
		{"sin motivo", inventory.AdjustmentInput{
			LocationID: hubID, ProductID: cafeID, Quantity: 1, Type: entity.AdjustmentTypePurchase, Reason: "  ",
		}},
		{"compra negativa", inventory.AdjustmentInput{
			LocationID: hubID, ProductID: cafeID, Quantity: -1, Type: entity.AdjustmentTypePurchase, Reason: "x",
		}},
		{"merma positiva", inventory.AdjustmentInput{
			LocationID: hubID, ProductID: cafeID, Quantity: 1, Type: entity.AdjustmentTypeWaste, Reason: "x",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := uc.RegisterAdjustment(ctx, tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSetLevels_MinMayorQueMax(t *testing.T) {
	_, uc := newLedger(t)
	err := uc.SetLevels(context.Background(), hubID, cafeID, 30, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLowStock_ReportaFaltantesConDatosDeProducto(t *testing.T) {
	store, uc := newLedger(t)
	ctx := context.Background()

	require.NoError(t, store.InventoryRecords().Increment(ctx, branchID, cafeID, 2))
	require.NoError(t, uc.SetLevels(ctx, branchID, cafeID, 10, 30))
	// La leche está sobre su mínimo: no debe aparecer.
	require.NoError(t, store.InventoryRecords().Increment(ctx, branchID, lecheID, 20))
	require.NoError(t, uc.SetLevels(ctx, branchID, lecheID, 5, 25))

	items, err := uc.LowStock(ctx, branchID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, cafeID, item.ProductID)
	assert.Equal(t, "Café molido 250g", item.ProductName)
	assert.Equal(t, "CAFE-250", item.SKU)
	assert.Equal(t, int64(2), item.Quantity)
	assert.Equal(t, int64(28), item.SuggestedQty)
}

func TestTotalForProduct_IncluyeStockEnTransito(t *testing.T) {
	store, uc := newLedger(t)
	ctx := context.Background()

	require.NoError(t, store.InventoryRecords().Increment(ctx, hubID, cafeID, 60))
	require.NoError(t, store.InventoryRecords().Increment(ctx, branchID, cafeID, 15))
	require.NoError(t, store.StockMovements().Create(ctx, &entity.StockMovement{
		ID:               "00000000-0000-0000-0000-00000000c001",
		BatchID:          "00000000-0000-0000-0000-00000000d001",
		ProductID:        cafeID,
		Quantity:         25,
		SourceLocationID: hubID,
		DestLocationID:   branchID,
		Status:           entity.MovementStatusSent,
	}))

	total, err := uc.TotalForProduct(ctx, cafeID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), total)
}

// Propiedad: decrementos concurrentes que en conjunto piden más de lo
// disponible. Deben tener éxito exactamente los necesarios para agotar el
// stock; el resto falla con InsufficientStock y la cantidad jamás baja de cero.
func TestDecrement_ConcurrenciaNoDejaStockNegativo(t *testing.T) {
	store, _ := newLedger(t)
	ctx := context.Background()

	const initial = 50
	const workers = 30
	const each = 3 // 30*3 = 90 > 50

	require.NoError(t, store.InventoryRecords().Increment(ctx, hubID, cafeID, initial))
	records := store.InventoryRecords()

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- records.Decrement(ctx, hubID, cafeID, each)
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, failed int
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		failed++
	}

	// 16 descuentos de 3 agotan 48 de 50; el 17º ya no cabe.
	assert.Equal(t, initial/each, succeeded)
	assert.Equal(t, workers-initial/each, failed)

	final, err := records.Get(ctx, hubID, cafeID)
	require.NoError(t, err)
	assert.Equal(t, int64(initial-int64(succeeded)*each), final.Quantity)
	assert.GreaterOrEqual(t, final.Quantity, int64(0))
}
