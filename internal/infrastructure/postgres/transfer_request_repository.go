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

var _ repository.TransferRequestRepository = (*TransferRequestRepo)(nil)

// TransferRequestRepo implementación de claves de idempotencia sobre PostgreSQL.
// El constraint único sobre idempotency_key, insertado en la misma tx que los
// descuentos de stock, es lo que hace seguro reintentar un traslado completo.
type TransferRequestRepo struct {
	q Querier
}

// NewTransferRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRequestRepository(q Querier) *TransferRequestRepo {
	return &TransferRequestRepo{q: q}
}

// Create persiste la clave; domain.ErrDuplicate si ya existe.
func (r *TransferRequestRepo) Create(ctx context.Context, req *entity.TransferRequest) error {
	query := `
		INSERT INTO transfer_requests (idempotency_key, batch_id, created_at)
		VALUES ($1, $2, $3)`
	_, err := r.q.Exec(ctx, query, req.IdempotencyKey, req.BatchID, req.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transfer request: %w", err)
	}
	return nil
}

// GetByKey obtiene la solicitud por clave; nil si no existe.
func (r *TransferRequestRepo) GetByKey(ctx context.Context, idempotencyKey string) (*entity.TransferRequest, error) {
	query := `
		SELECT idempotency_key, batch_id, created_at
		FROM transfer_requests WHERE idempotency_key = $1`
	var req entity.TransferRequest
	err := r.q.QueryRow(ctx, query, idempotencyKey).Scan(&req.IdempotencyKey, &req.BatchID, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer request: %w", err)
	}
	return &req, nil
}
