package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jhoicas/store-inventory/internal/application/dto"
	"github.com/jhoicas/store-inventory/internal/domain"
	"github.com/jhoicas/store-inventory/internal/domain/entity"
	"github.com/jhoicas/store-inventory/internal/domain/inventory"
	"github.com/jhoicas/store-inventory/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El nombre es la clave del upsert.
type ProductUseCase struct {
	repo repository.ProductRepository
	now  func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, now: time.Now}
}

// WithClock reemplaza el reloj usado para la fecha por defecto (tests).
func (uc *ProductUseCase) WithClock(now func() time.Time) *ProductUseCase {
	tmp := *uc
	tmp.now = now
	return &tmp
}

// Save crea el producto; si el nombre ya existe sobrescribe cantidad, precio y fecha
// del registro existente. created indica cuál de los dos caminos se tomó.
func (uc *ProductUseCase) Save(ctx context.Context, in dto.SaveProductRequest) (product *entity.Product, created bool, err error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Quantity < 0 || in.PriceCents < 0 {
		return nil, false, domain.ErrInvalidInput
	}
	updatedAt := in.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = uc.now()
	}
	updatedAt = inventory.DateOf(updatedAt)

	product = &entity.Product{
		Name:       name,
		Quantity:   in.Quantity,
		PriceCents: in.PriceCents,
		UpdatedAt:  updatedAt,
	}
	err = uc.repo.Create(ctx, product)
	if err == nil {
		return product, true, nil
	}
	if !errors.Is(err, domain.ErrDuplicate) {
		return nil, false, err
	}

	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	existing.Quantity = in.Quantity
	existing.PriceCents = in.PriceCents
	existing.UpdatedAt = updatedAt
	if err := uc.repo.Update(ctx, existing); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetByID obtiene un producto por ID (domain.ErrNotFound si no existe).
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return uc.repo.GetByID(ctx, id)
}

// List lista todos los productos por ID ascendente.
func (uc *ProductUseCase) List(ctx context.Context) ([]*entity.Product, error) {
	return uc.repo.List(ctx)
}

// Search lista los productos cuyo nombre contiene text (distingue mayúsculas).
func (uc *ProductUseCase) Search(ctx context.Context, text string) ([]*entity.Product, error) {
	return uc.repo.ListByNameContains(ctx, text)
}

// Delete elimina el producto. Irreversible.
func (uc *ProductUseCase) Delete(ctx context.Context, product *entity.Product) error {
	return uc.repo.Delete(ctx, product.ID)
}

// Summary totales del inventario.
func (uc *ProductUseCase) Summary(ctx context.Context) (*entity.InventorySummary, error) {
	return uc.repo.Summary(ctx)
}
