package repository

import (
	"context"

	"github.com/jhoicas/CafeStock-api/internal/domain/entity"
)

// ProductRepository define el puerto del catálogo de productos (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}
