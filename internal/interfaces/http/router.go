package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/CafeStock-api/internal/application/confirmation"
	"github.com/jhoicas/CafeStock-api/internal/application/inventory"
	"github.com/jhoicas/CafeStock-api/internal/application/transfer"
	"github.com/jhoicas/CafeStock-api/internal/application/usecase"
	"github.com/jhoicas/CafeStock-api/internal/infrastructure/evidence"
)

// RouterDeps dependencias para el router. EvidenceStore puede ser nil si el
// almacén de evidencias no está configurado.
type RouterDeps struct {
	CreateTransfer *transfer.CreateTransferUseCase
	ConfirmationUC *confirmation.ConfirmationUseCase
	LedgerUC       *inventory.LedgerUseCase
	LocationUC     *usecase.LocationUseCase
	ProductUC      *usecase.ProductUseCase
	EvidenceStore  evidence.Store
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Todas las rutas requieren Bearer Token
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Transfers: despacho, consulta y resolución
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.CreateTransfer, deps.ConfirmationUC)
	transfers.Post("/", RequireRole("admin", "bodeguero"), transferHandler.Create)
	transfers.Get("/", transferHandler.History)
	transfers.Get("/pending", transferHandler.ListPending)
	transfers.Get("/batch/:batchID", transferHandler.GetBatch)
	transfers.Post("/confirm", transferHandler.Confirm)
	transfers.Post("/reject", transferHandler.Reject)

	// Inventory: libro de stock y ajustes
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	inv.Get("/", inventoryHandler.ListByLocation)
	inv.Get("/quantity", inventoryHandler.GetQuantity)
	inv.Get("/low-stock", inventoryHandler.LowStock)
	inv.Get("/total", inventoryHandler.TotalForProduct)
	inv.Post("/adjustments", RequireRole("admin", "bodeguero"), inventoryHandler.RegisterAdjustment)
	inv.Put("/levels", RequireRole("admin", "bodeguero"), inventoryHandler.SetLevels)

	// Locations: directorio jerárquico
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", RequireRole("admin"), locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Delete("/:id", RequireRole("admin"), locationHandler.Deactivate)

	// Products: catálogo
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole("admin"), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Evidence (opcional, requiere MinIO configurado)
	if deps.EvidenceStore != nil {
		evidenceHandler := NewEvidenceHandler(deps.EvidenceStore)
		protected.Post("/evidence", evidenceHandler.Upload)
	}
}
