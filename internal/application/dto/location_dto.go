package dto

import (
	"time"

	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
)

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	Name     string  `json:"name"`
	Kind     string  `json:"kind"` // hub, small_branch, rider
	ParentID *string `json:"parent_id,omitempty"`
}

// LocationResponse vista JSON de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	ParentID  *string   `json:"parent_id,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// LocationToResponse mapea la entidad a su vista JSON.
func LocationToResponse(l *entity.Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Kind:      l.Kind,
		ParentID:  l.ParentID,
		Active:    l.Active,
		CreatedAt: l.CreatedAt,
	}
}
