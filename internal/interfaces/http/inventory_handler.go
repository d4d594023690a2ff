package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/CafeStock-api/internal/application/dto"
	"github.com/jhoicas/CafeStock-api/internal/application/inventory"
)

// InventoryHandler maneja las consultas y ajustes del libro de inventario (protegido).
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// ListByLocation godoc
// @Summary      Stock por ubicación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Ubicación (por defecto la del token)"
// @Param        limit   query  int  false  "Máximo de filas (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}   dto.InventoryRecordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) ListByLocation(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	if locationID == "" {
		locationID = GetLocationID(c)
	}
	if locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location_id requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	records, err := h.uc.ListByLocation(c.Context(), locationID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.InventoryRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.RecordToResponse(r))
	}
	return c.JSON(out)
}

// GetQuantity godoc
// @Summary      Cantidad disponible de un producto en una ubicación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  true  "Ubicación"
// @Param        product_id   query  string  true  "Producto"
// @Success      200  {object}  map[string]int64
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/quantity [get]
func (h *InventoryHandler) GetQuantity(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	productID := c.Query("product_id")
	qty, err := h.uc.GetQuantity(c.Context(), locationID, productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"quantity": qty})
}

// LowStock godoc
// @Summary      Productos bajo su nivel mínimo
// @Description  Devuelve los productos con stock por debajo del mínimo configurado,
//
//	con la cantidad sugerida para llegar al máximo, ordenados por déficit.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Filtrar por ubicación. Vacío = todas."
// @Success      200  {array}   dto.LowStockItemDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.uc.LowStock(c.Context(), c.Query("location_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "items": list})
}

// TotalForProduct godoc
// @Summary      Total de un producto en toda la red
// @Description  Suma el stock en todas las ubicaciones más lo que viaja en
//
//	movimientos sent aún no resueltos.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "Producto"
// @Success      200  {object}  map[string]int64
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/total [get]
func (h *InventoryHandler) TotalForProduct(c *fiber.Ctx) error {
	total, err := h.uc.TotalForProduct(c.Context(), c.Query("product_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": total})
}

// RegisterAdjustment godoc
// @Summary      Registrar un ajuste de stock
// @Description  Entradas por compra, mermas y correcciones manuales. Cantidad
//
//	positiva suma, negativa descuenta (sin dejar el stock en negativo).
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterAdjustmentRequest  true  "location_id, product_id, quantity, type, reason"
// @Success      201  {object}  dto.AckResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) RegisterAdjustment(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.RegisterAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.uc.RegisterAdjustment(c.Context(), inventory.AdjustmentInput{
		LocationID: in.LocationID,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		Type:       in.Type,
		Reason:     in.Reason,
		CreatedBy:  userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AckResponse{Message: "ajuste registrado"})
}

// SetLevels godoc
// @Summary      Configurar niveles mínimo y máximo de un producto en una ubicación
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetLevelsRequest  true  "location_id, product_id, min_level, max_level"
// @Success      200  {object}  dto.AckResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/levels [put]
func (h *InventoryHandler) SetLevels(c *fiber.Ctx) error {
	var in dto.SetLevelsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetLevels(c.Context(), in.LocationID, in.ProductID, in.MinLevel, in.MaxLevel); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AckResponse{Message: "niveles actualizados"})
}
