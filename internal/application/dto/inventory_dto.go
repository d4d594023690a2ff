package dto

import (
	"time"

	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
)

// InventoryRecordResponse vista JSON del stock de un producto en una ubicación.
type InventoryRecordResponse struct {
	LocationID  string    `json:"location_id"`
	ProductID   string    `json:"product_id"`
	Quantity    int64     `json:"quantity"`
	MinLevel    int64     `json:"min_level,omitempty"`
	MaxLevel    int64     `json:"max_level,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// RecordToResponse mapea la entidad a su vista JSON.
func RecordToResponse(r *entity.InventoryRecord) InventoryRecordResponse {
	return InventoryRecordResponse{
		LocationID:  r.LocationID,
		ProductID:   r.ProductID,
		Quantity:    r.Quantity,
		MinLevel:    r.MinLevel,
		MaxLevel:    r.MaxLevel,
		LastUpdated: r.LastUpdated,
	}
}

// LowStockItemDTO producto bajo su nivel mínimo con cantidad sugerida de reposición.
type LowStockItemDTO struct {
	LocationID   string `json:"location_id"`
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	SKU          string `json:"sku"`
	Quantity     int64  `json:"quantity"`
	MinLevel     int64  `json:"min_level"`
	SuggestedQty int64  `json:"suggested_qty"` // hasta MaxLevel; 0 si no hay máximo configurado
}

// RegisterAdjustmentRequest body para POST /api/inventory/adjustments.
type RegisterAdjustmentRequest struct {
	LocationID string `json:"location_id"`
	ProductID  string `json:"product_id"`
	Quantity   int64  `json:"quantity"` // positiva entrada, negativa salida
	Type       string `json:"type"`     // purchase, waste, correction
	Reason     string `json:"reason"`
}

// SetLevelsRequest body para PUT /api/inventory/levels.
type SetLevelsRequest struct {
	LocationID string `json:"location_id"`
	ProductID  string `json:"product_id"`
	MinLevel   int64  `json:"min_level"`
	MaxLevel   int64  `json:"max_level"`
}
