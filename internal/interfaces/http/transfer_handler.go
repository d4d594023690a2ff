package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/CafeStock-api/internal/application/confirmation"
	"github.com/jhoicas/CafeStock-api/internal/application/dto"
	"github.com/jhoicas/CafeStock-api/internal/application/transfer"
)

// TransferHandler maneja las peticiones HTTP de traslados de stock (protegido).
type TransferHandler struct {
	createUC  *transfer.CreateTransferUseCase
	confirmUC *confirmation.ConfirmationUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(createUC *transfer.CreateTransferUseCase, confirmUC *confirmation.ConfirmationUseCase) *TransferHandler {
	return &TransferHandler{createUC: createUC, confirmUC: confirmUC}
}

// Create godoc
// @Summary      Despachar un traslado de stock (batch)
// @Description  Descuenta el stock del origen y crea un movimiento sent por renglón.
//
//	El batch es atómico: si un renglón no tiene stock suficiente no se
//	despacha nada. Header Idempotency-Key opcional para reintentos seguros.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave de idempotencia del caller"
// @Param        body  body  dto.CreateTransferRequest  true  "source_location_id, dest_location_id, items"
// @Success      201  {object}  dto.CreateTransferResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]transfer.TransferItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, transfer.TransferItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	result, err := h.createUC.CreateTransfer(c.Context(), transfer.TransferInput{
		SourceLocationID: in.SourceLocationID,
		DestLocationID:   in.DestLocationID,
		Items:            items,
		Notes:            in.Notes,
		CreatedBy:        userID,
		IdempotencyKey:   c.Get("Idempotency-Key"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateTransferResponse{
		BatchID:     result.BatchID,
		MovementIDs: result.MovementIDs,
	})
}

// ListPending godoc
// @Summary      Movimientos pendientes de confirmar en una ubicación
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Ubicación destino (por defecto la del token)"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transfers/pending [get]
func (h *TransferHandler) ListPending(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	if locationID == "" {
		locationID = GetLocationID(c)
	}
	if locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location_id requerido"})
	}
	list, err := h.confirmUC.ListPending(c.Context(), locationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MovementsToResponse(list))
}

// GetBatch godoc
// @Summary      Movimientos de un batch de traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        batchID  path  string  true  "ID del batch"
// @Success      200  {array}   dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/batch/{batchID} [get]
func (h *TransferHandler) GetBatch(c *fiber.Ctx) error {
	list, err := h.confirmUC.GetBatch(c.Context(), c.Params("batchID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MovementsToResponse(list))
}

// History godoc
// @Summary      Historial de movimientos de una ubicación
// @Description  Incluye movimientos donde la ubicación fue origen o destino,
//
//	con filtro opcional de fechas (RFC 3339) y paginación.
//
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Ubicación (por defecto la del token)"
// @Param        from    query  string  false  "Fecha inicial RFC 3339"
// @Param        to      query  string  false  "Fecha final RFC 3339"
// @Param        limit   query  int     false  "Máximo de filas (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) History(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	if locationID == "" {
		locationID = GetLocationID(c)
	}
	if locationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "location_id requerido"})
	}
	from, err := parseTimeQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC 3339)"})
	}
	to, err := parseTimeQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC 3339)"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	list, err := h.confirmUC.ListHistory(c.Context(), locationID, from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MovementsToResponse(list))
}

// Confirm godoc
// @Summary      Confirmar la recepción de movimientos
// @Description  Marca los movimientos como received y suma el stock al destino.
//
//	Solo el destino puede confirmar y solo movimientos en estado sent.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConfirmRequest  true  "movement_ids y evidencia opcional"
// @Success      200  {object}  dto.AckResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/confirm [post]
func (h *TransferHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	locationID := in.LocationID
	if locationID == "" {
		locationID = GetLocationID(c)
	}
	var evidenceRef *string
	if in.EvidenceRef != "" {
		evidenceRef = &in.EvidenceRef
	}
	if err := h.confirmUC.Confirm(c.Context(), locationID, in.MovementIDs, evidenceRef); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AckResponse{Message: "recepción confirmada"})
}

// Reject godoc
// @Summary      Rechazar movimientos recibidos
// @Description  Marca los movimientos como rejected, devuelve el stock al origen
//
//	y registra un movimiento returned de vuelta. El motivo es obligatorio.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RejectRequest  true  "movement_ids y motivo"
// @Success      200  {object}  dto.AckResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/reject [post]
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.RejectRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	locationID := in.LocationID
	if locationID == "" {
		locationID = GetLocationID(c)
	}
	if err := h.confirmUC.Reject(c.Context(), locationID, in.MovementIDs, in.Reason, userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AckResponse{Message: "movimientos rechazados"})
}

// parseTimeQuery interpreta un query param de fecha RFC 3339; vacío devuelve nil.
func parseTimeQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
