package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/CafeStock-api/internal/application/dto"
	"github.com/jhoicas/CafeStock-api/internal/domain"
	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
	"github.com/jhoicas/CafeStock-api/internal/domain/repository"
)

// LocationUseCase administra el directorio de ubicaciones (sedes, sucursales, domiciliarios).
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create registra una ubicación. Sucursales y domiciliarios requieren una sede
// central como padre; una sede no puede tener padre.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name requerido: %w", domain.ErrInvalidInput)
	}
	if !entity.ValidKind(in.Kind) {
		return nil, fmt.Errorf("kind %q: %w", in.Kind, domain.ErrInvalidInput)
	}
	if in.Kind == entity.LocationKindHub {
		if in.ParentID != nil {
			return nil, fmt.Errorf("una sede central no tiene padre: %w", domain.ErrInvalidInput)
		}
	} else {
		if in.ParentID == nil || *in.ParentID == "" {
			return nil, fmt.Errorf("parent_id requerido para %s: %w", in.Kind, domain.ErrInvalidInput)
		}
		parent, err := uc.repo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || !parent.Active {
			return nil, fmt.Errorf("sede padre %s: %w", *in.ParentID, domain.ErrNotFound)
		}
		if parent.Kind != entity.LocationKindHub {
			return nil, fmt.Errorf("el padre debe ser una sede central: %w", domain.ErrInvalidInput)
		}
	}

	now := time.Now()
	location := &entity.Location{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Kind:      in.Kind,
		ParentID:  in.ParentID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	out := dto.LocationToResponse(location)
	return &out, nil
}

// GetByID obtiene una ubicación; nil si no existe.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, nil
	}
	out := dto.LocationToResponse(location)
	return &out, nil
}

// List lista ubicaciones con paginación.
func (uc *LocationUseCase) List(ctx context.Context, limit, offset int) ([]dto.LocationResponse, error) {
	locations, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(locations))
	for _, l := range locations {
		out = append(out, dto.LocationToResponse(l))
	}
	return out, nil
}

// Deactivate marca la ubicación como inactiva; sus registros de inventario se conservan.
func (uc *LocationUseCase) Deactivate(ctx context.Context, id string) error {
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if location == nil {
		return fmt.Errorf("ubicación %s: %w", id, domain.ErrNotFound)
	}
	return uc.repo.Deactivate(ctx, id)
}
