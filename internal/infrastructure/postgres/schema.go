package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed migrations/001_create_products.sql
var productsSchemaSQL string

// EnsureSchema crea la tabla products si no existe. Es idempotente.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, productsSchemaSQL); err != nil {
		return fmt.Errorf("crear esquema products: %w", err)
	}
	return nil
}
