package dto

import (
	"time"

	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
)

// TransferItemRequest renglón de un traslado.
type TransferItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CreateTransferRequest body para POST /api/transfers.
// La clave de idempotencia viaja en el header Idempotency-Key.
type CreateTransferRequest struct {
	SourceLocationID string                `json:"source_location_id"`
	DestLocationID   string                `json:"dest_location_id"`
	Items            []TransferItemRequest `json:"items"`
	Notes            string                `json:"notes,omitempty"`
}

// CreateTransferResponse resultado del envío de un batch.
type CreateTransferResponse struct {
	BatchID     string   `json:"batch_id"`
	MovementIDs []string `json:"movement_ids"`
}

// ConfirmRequest body para POST /api/transfers/confirm.
type ConfirmRequest struct {
	LocationID  string   `json:"location_id"`
	MovementIDs []string `json:"movement_ids"`
	EvidenceRef string   `json:"evidence_ref,omitempty"`
}

// RejectRequest body para POST /api/transfers/reject.
type RejectRequest struct {
	LocationID  string   `json:"location_id"`
	MovementIDs []string `json:"movement_ids"`
	Reason      string   `json:"reason"`
}

// MovementResponse vista JSON de un movimiento.
type MovementResponse struct {
	ID                 string     `json:"id"`
	BatchID            string     `json:"batch_id"`
	ProductID          string     `json:"product_id"`
	Quantity           int64      `json:"quantity"`
	SourceLocationID   string     `json:"source_location_id"`
	DestLocationID     string     `json:"dest_location_id"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	ExpectedDeliveryAt time.Time  `json:"expected_delivery_at"`
	ActualDeliveryAt   *time.Time `json:"actual_delivery_at,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	EvidenceRef        *string    `json:"evidence_ref,omitempty"`
	CreatedBy          string     `json:"created_by,omitempty"`
}

// MovementToResponse mapea la entidad a su vista JSON.
func MovementToResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:                 m.ID,
		BatchID:            m.BatchID,
		ProductID:          m.ProductID,
		Quantity:           m.Quantity,
		SourceLocationID:   m.SourceLocationID,
		DestLocationID:     m.DestLocationID,
		Status:             m.Status,
		CreatedAt:          m.CreatedAt,
		ExpectedDeliveryAt: m.ExpectedDeliveryAt,
		ActualDeliveryAt:   m.ActualDeliveryAt,
		Notes:              m.Notes,
		EvidenceRef:        m.EvidenceRef,
		CreatedBy:          m.CreatedBy,
	}
}

// MovementsToResponse mapea una lista de movimientos.
func MovementsToResponse(list []*entity.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, MovementToResponse(m))
	}
	return out
}
