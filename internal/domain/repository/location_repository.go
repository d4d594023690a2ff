package repository

import (
	"context"

	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
)

// LocationRepository define el puerto del directorio de ubicaciones (DIP).
// El motor de traslados solo lo usa en modo lectura (existencia y jerarquía).
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Location, error)
	ListChildren(ctx context.Context, parentID string) ([]*entity.Location, error)
	Deactivate(ctx context.Context, id string) error
}
