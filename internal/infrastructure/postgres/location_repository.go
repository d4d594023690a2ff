package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/CafeStock-api/internal/domain"
	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
	"github.com/jhoicas/CafeStock-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del directorio de ubicaciones sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una nueva ubicación.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO locations (id, name, kind, parent_id, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, l.ID, l.Name, l.Kind, l.ParentID, l.Active, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID; nil si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	query := `
		SELECT id, name, kind, parent_id, active, created_at, updated_at
		FROM locations WHERE id = $1`
	var l entity.Location
	err := r.q.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.Name, &l.Kind, &l.ParentID, &l.Active, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// List lista ubicaciones con paginación.
func (r *LocationRepo) List(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	query := `
		SELECT id, name, kind, parent_id, active, created_at, updated_at
		FROM locations ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	return scanLocations(rows)
}

// ListChildren lista las ubicaciones hijas de una sede central.
func (r *LocationRepo) ListChildren(ctx context.Context, parentID string) ([]*entity.Location, error) {
	query := `
		SELECT id, name, kind, parent_id, active, created_at, updated_at
		FROM locations WHERE parent_id = $1 ORDER BY name ASC`
	rows, err := r.q.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()
	return scanLocations(rows)
}

// Deactivate marca la ubicación como inactiva (nunca se borra físicamente).
func (r *LocationRepo) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE locations SET active = false, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate location: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("ubicación %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanLocations(rows pgx.Rows) ([]*entity.Location, error) {
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Kind, &l.ParentID, &l.Active, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
