package dto

import (
	"time"

	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	UnitMeasure string `json:"unit_measure,omitempty"`
}

// ProductResponse vista JSON de un producto.
type ProductResponse struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	UnitMeasure string    `json:"unit_measure,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductToResponse mapea la entidad a su vista JSON.
func ProductToResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Category:    p.Category,
		UnitMeasure: p.UnitMeasure,
		CreatedAt:   p.CreatedAt,
	}
}
