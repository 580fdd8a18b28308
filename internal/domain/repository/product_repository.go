package repository

import (
	"context"

	"github.com/jhoicas/store-inventory/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetByName devuelven domain.ErrNotFound si no existe el registro;
// Create devuelve domain.ErrDuplicate si el nombre ya existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	ListByNameContains(ctx context.Context, text string) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id int64) error
	Summary(ctx context.Context) (*entity.InventorySummary, error)
}
