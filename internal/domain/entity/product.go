package entity

import "time"

// Product representa un producto del catálogo (referencia inmutable para el motor de traslados).
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Category    string // cafe, insumo, empaque, etc.
	UnitMeasure string // unidad, bolsa, kg
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
