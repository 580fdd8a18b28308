package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/store-inventory/internal/domain"
	"github.com/jhoicas/store-inventory/internal/domain/entity"
	"github.com/jhoicas/store-inventory/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `product_id, product_name, product_quantity, product_price, date_updated`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto y asigna product.ID.
// ON CONFLICT DO NOTHING evita abortar una transacción abierta cuando el nombre ya existe.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (product_name, product_quantity, product_price, date_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_name) DO NOTHING
		RETURNING product_id`
	err := r.q.QueryRow(ctx, query,
		product.Name, product.Quantity, product.PriceCents, product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return fmt.Errorf("insert product: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByName obtiene un producto por nombre exacto.
func (r *ProductRepo) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_name = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, name))
	if err != nil {
		return nil, fmt.Errorf("get product by name: %w", err)
	}
	return p, nil
}

// List lista todos los productos ordenados por ID ascendente.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY product_id`
	return r.list(ctx, query)
}

// ListByNameContains filtra por subcadena exacta del nombre (distingue mayúsculas).
// strpos no interpreta comodines, a diferencia de LIKE.
func (r *ProductRepo) ListByNameContains(ctx context.Context, text string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE strpos(product_name, $1) > 0 ORDER BY product_id`
	return r.list(ctx, query, text)
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Quantity, &p.PriceCents, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update actualiza nombre, cantidad, precio y fecha. Si la fila no existe no hace nada.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET product_name = $2, product_quantity = $3, product_price = $4, date_updated = $5
		WHERE product_id = $1`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Quantity, product.PriceCents, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isCheckViolation(err) {
			return fmt.Errorf("update product: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// Summary totales del inventario. El valor del stock se calcula como NUMERIC en la DB
// y llega como decimal.Decimal gracias al codec registrado en el pool.
func (r *ProductRepo) Summary(ctx context.Context) (*entity.InventorySummary, error) {
	const query = `
	SELECT
	    COUNT(*)                                                        AS products,
	    COALESCE(SUM(product_quantity), 0)                              AS units,
	    COALESCE(SUM(product_price::NUMERIC * product_quantity), 0) / 100 AS stock_value
	FROM products`
	var s entity.InventorySummary
	if err := r.q.QueryRow(ctx, query).Scan(&s.Products, &s.Units, &s.StockValue); err != nil {
		return nil, fmt.Errorf("inventory summary: %w", err)
	}
	return &s, nil
}

// scanProduct traduce pgx.ErrNoRows a domain.ErrNotFound.
func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.PriceCents, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
