package entity

import "time"

// Tipos de ajuste manual de inventario. Son las únicas operaciones que pueden
// romper la conservación de cantidades entre ubicaciones, siempre con motivo.
const (
	AdjustmentTypePurchase   = "purchase"   // entrada por compra a proveedor
	AdjustmentTypeWaste      = "waste"      // merma o pérdida
	AdjustmentTypeCorrection = "correction" // corrección por conteo físico
)

// StockAdjustment registra una entrada o salida deliberada de stock fuera del
// protocolo de traslados. Append-only.
type StockAdjustment struct {
	ID         string
	LocationID string
	ProductID  string
	Quantity   int64 // positiva entrada, negativa salida
	Type       string
	Reason     string
	CreatedAt  time.Time
	CreatedBy  string
}

// ValidAdjustmentType verifica el tipo de ajuste.
func ValidAdjustmentType(t string) bool {
	switch t {
	case AdjustmentTypePurchase, AdjustmentTypeWaste, AdjustmentTypeCorrection:
		return true
	}
	return false
}
