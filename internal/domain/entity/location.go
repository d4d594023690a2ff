package entity

import "time"

// Tipos de ubicación que almacenan stock.
const (
	LocationKindHub         = "hub"          // sede central
	LocationKindSmallBranch = "small_branch" // punto de venta satélite
	LocationKindRider       = "rider"        // domiciliario con stock móvil
)

// Location representa un punto que almacena stock: sede central, sucursal pequeña o domiciliario.
// Riders y sucursales pequeñas pertenecen a una sede central (ParentID).
type Location struct {
	ID        string
	Name      string
	Kind      string  // hub, small_branch, rider
	ParentID  *string // nil para hubs
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidKind verifica que el tipo de ubicación sea uno de los soportados.
func ValidKind(kind string) bool {
	switch kind {
	case LocationKindHub, LocationKindSmallBranch, LocationKindRider:
		return true
	}
	return false
}

// CanReach determina si un traslado de l hacia dest es válido según la jerarquía:
// de una sede a sus hijos directos, de un hijo a su sede, o entre hijos de la misma sede.
func (l *Location) CanReach(dest *Location) bool {
	if l == nil || dest == nil || l.ID == dest.ID {
		return false
	}
	if dest.ParentID != nil && *dest.ParentID == l.ID {
		return true
	}
	if l.ParentID != nil && *l.ParentID == dest.ID {
		return true
	}
	if l.ParentID != nil && dest.ParentID != nil && *l.ParentID == *dest.ParentID {
		return true
	}
	return false
}
