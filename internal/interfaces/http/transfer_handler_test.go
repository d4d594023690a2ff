package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/CafeStock-api/internal/application/confirmation"
	"github.com/jhoicas/CafeStock-api/internal/application/inventory"
	"github.com/jhoicas/CafeStock-api/internal/application/transfer"
	"github.com/jhoicas/CafeStock-api/internal/application/usecase"
	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
	"github.com/jhoicas/CafeStock-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/CafeStock-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/CafeStock-api/pkg/jwt"
)

const (
	e2eHubID   = "00000000-0000-0000-0000-00000000a001"
	e2eRiderID = "00000000-0000-0000-0000-00000000a003"
	e2eCafeID  = "00000000-0000-0000-0000-00000000b001"
)

// buildAPI levanta la API completa sobre el store en memoria, con stock
// inicial en la sede.
func buildAPI(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	parent := e2eHubID

	require.NoError(t, store.Locations().Create(ctx, &entity.Location{
		ID: e2eHubID, Name: "Sede Centro", Kind: entity.LocationKindHub, Active: true,
	}))
	require.NoError(t, store.Locations().Create(ctx, &entity.Location{
		ID: e2eRiderID, Name: "Rider Carlos", Kind: entity.LocationKindRider, ParentID: &parent, Active: true,
	}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: e2eCafeID, SKU: "CAFE-250", Name: "Café molido 250g",
	}))
	require.NoError(t, store.InventoryRecords().Increment(ctx, e2eHubID, e2eCafeID, 10))

	txRunner := memory.NewTxRunner(store)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CreateTransfer: transfer.NewCreateTransferUseCase(
			txRunner, store.Locations(), store.Products(),
			store.StockMovements(), store.TransferRequests(), 0,
		),
		ConfirmationUC: confirmation.NewConfirmationUseCase(txRunner, store.StockMovements()),
		LedgerUC: inventory.NewLedgerUseCase(
			txRunner, store.InventoryRecords(), store.StockMovements(),
			store.Locations(), store.Products(),
		),
		LocationUC: usecase.NewLocationUseCase(store.Locations()),
		ProductUC:  usecase.NewProductUseCase(store.Products()),
		JWTSecret:  testJWTSecret,
	})
	return app, store
}

func authedRequest(t *testing.T, method, target, role, locationID string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, locationID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	return req
}

// Ciclo completo por HTTP: despacho desde la sede, lista de pendientes en el
// rider y confirmación de la recepción.
func TestAPI_DespachoYConfirmacion(t *testing.T) {
	app, store := buildAPI(t)

	// Despacho (rol bodeguero desde la sede).
	resp, err := app.Test(authedRequest(t, http.MethodPost, "/api/transfers", "bodeguero", e2eHubID, fiber.Map{
		"source_location_id": e2eHubID,
		"dest_location_id":   e2eRiderID,
		"items":              []fiber.Map{{"product_id": e2eCafeID, "quantity": 4}},
	}), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		BatchID     string   `json:"batch_id"`
		MovementIDs []string `json:"movement_ids"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.Len(t, created.MovementIDs, 1)

	// Pendientes del rider.
	resp, err = app.Test(authedRequest(t, http.MethodGet, "/api/transfers/pending", "repartidor", e2eRiderID, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pending []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "sent", pending[0]["status"])

	// Confirmación: el location_id sale del token.
	resp, err = app.Test(authedRequest(t, http.MethodPost, "/api/transfers/confirm", "repartidor", e2eRiderID, fiber.Map{
		"movement_ids": created.MovementIDs,
	}), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rec, err := store.InventoryRecords().Get(context.Background(), e2eRiderID, e2eCafeID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), rec.Quantity)
}

func TestAPI_DespachoSinStock_Responde409(t *testing.T) {
	app, _ := buildAPI(t)

	resp, err := app.Test(authedRequest(t, http.MethodPost, "/api/transfers", "bodeguero", e2eHubID, fiber.Map{
		"source_location_id": e2eHubID,
		"dest_location_id":   e2eRiderID,
		"items":              []fiber.Map{{"product_id": e2eCafeID, "quantity": 11}},
	}), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
}

// El rol repartidor no puede despachar traslados.
func TestAPI_DespachoConRolRepartidor_Responde403(t *testing.T) {
	app, _ := buildAPI(t)

	resp, err := app.Test(authedRequest(t, http.MethodPost, "/api/transfers", "repartidor", e2eRiderID, fiber.Map{
		"source_location_id": e2eHubID,
		"dest_location_id":   e2eRiderID,
		"items":              []fiber.Map{{"product_id": e2eCafeID, "quantity": 1}},
	}), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_RechazoSinMotivo_Responde400(t *testing.T) {
	app, _ := buildAPI(t)

	// Despacho previo.
	resp, err := app.Test(authedRequest(t, http.MethodPost, "/api/transfers", "bodeguero", e2eHubID, fiber.Map{
		"source_location_id": e2eHubID,
		"dest_location_id":   e2eRiderID,
		"items":              []fiber.Map{{"product_id": e2eCafeID, "quantity": 2}},
	}), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		MovementIDs []string `json:"movement_ids"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	resp, err = app.Test(authedRequest(t, http.MethodPost, "/api/transfers/reject", "repartidor", e2eRiderID, fiber.Map{
		"movement_ids": created.MovementIDs,
		"reason":       "",
	}), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
