// Package memory implementa los puertos de persistencia en memoria.
// Se usa en tests y con STORE_DRIVER=memory; los datos se pierden al salir.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/store-inventory/internal/domain"
	"github.com/jhoicas/store-inventory/internal/domain/entity"
	"github.com/jhoicas/store-inventory/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo almacén de productos en un mapa protegido por RWMutex.
// Los productos se copian al entrar y al salir: el llamador nunca comparte punteros con el mapa.
type ProductRepo struct {
	mu     sync.RWMutex
	byID   map[int64]entity.Product
	nextID int64
}

// NewProductRepository crea un almacén vacío. Los IDs empiezan en 1.
func NewProductRepository() *ProductRepo {
	return &ProductRepo{
		byID:   make(map[int64]entity.Product),
		nextID: 1,
	}
}

// Create inserta el producto y asigna product.ID; domain.ErrDuplicate si el nombre existe.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	if product.Quantity < 0 || product.PriceCents < 0 {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.findByName(product.Name); ok {
		return domain.ErrDuplicate
	}
	product.ID = r.nextID
	r.nextID++
	r.byID[product.ID] = *product
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

// GetByName obtiene un producto por nombre exacto.
func (r *ProductRepo) GetByName(_ context.Context, name string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.findByName(name)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

// List lista todos los productos por ID ascendente.
func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	return r.filter(func(entity.Product) bool { return true }), nil
}

// ListByNameContains filtra por subcadena exacta (distingue mayúsculas).
func (r *ProductRepo) ListByNameContains(_ context.Context, text string) ([]*entity.Product, error) {
	return r.filter(func(p entity.Product) bool { return strings.Contains(p.Name, text) }), nil
}

// Update reemplaza el registro con el mismo ID. Si no existe no hace nada.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	if product.Quantity < 0 || product.PriceCents < 0 {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[product.ID]; !ok {
		return nil
	}
	if other, ok := r.findByName(product.Name); ok && other.ID != product.ID {
		return domain.ErrDuplicate
	}
	r.byID[product.ID] = *product
	return nil
}

// Delete elimina el producto. Los IDs no se reutilizan.
func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byID, id)
	return nil
}

// Summary totales del inventario.
func (r *ProductRepo) Summary(_ context.Context) (*entity.InventorySummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := entity.InventorySummary{StockValue: decimal.Zero}
	for _, p := range r.byID {
		s.Products++
		s.Units += int64(p.Quantity)
		line := decimal.NewFromInt(p.PriceCents).Mul(decimal.NewFromInt(int64(p.Quantity)))
		s.StockValue = s.StockValue.Add(line)
	}
	s.StockValue = s.StockValue.Shift(-2)
	return &s, nil
}

func (r *ProductRepo) findByName(name string) (entity.Product, bool) {
	for _, p := range r.byID {
		if p.Name == name {
			return p, true
		}
	}
	return entity.Product{}, false
}

func (r *ProductRepo) filter(keep func(entity.Product) bool) []*entity.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*entity.Product, 0, len(r.byID))
	for _, p := range r.byID {
		if keep(p) {
			p := p
			list = append(list, &p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (r *ProductRepo) snapshot() (map[int64]entity.Product, int64) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cp := make(map[int64]entity.Product, len(r.byID))
	for id, p := range r.byID {
		cp[id] = p
	}
	return cp, r.nextID
}

func (r *ProductRepo) restore(byID map[int64]entity.Product, nextID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID = byID
	r.nextID = nextID
}
