package entity

import "time"

// InventoryRecord representa el stock actual de un producto en una ubicación.
// Único por (LocationID, ProductID). Quantity nunca es negativa: el decremento
// se valida en el store con un update condicional, no después del hecho.
// Se crea perezosamente con la primera entrada de stock y nunca se borra.
type InventoryRecord struct {
	LocationID  string
	ProductID   string
	Quantity    int64
	MinLevel    int64
	MaxLevel    int64
	LastUpdated time.Time
}

// BelowMin indica si el stock está por debajo del mínimo configurado.
func (r *InventoryRecord) BelowMin() bool {
	return r.MinLevel > 0 && r.Quantity < r.MinLevel
}

// SuggestedTopUp cantidad sugerida para volver al máximo (0 si no hay máximo configurado).
func (r *InventoryRecord) SuggestedTopUp() int64 {
	if r.MaxLevel <= 0 || r.Quantity >= r.MaxLevel {
		return 0
	}
	return r.MaxLevel - r.Quantity
}
