package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/store-inventory/internal/domain/entity"
	"github.com/jhoicas/store-inventory/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un repositorio atado a esa tx.
// Lo usa la importación estricta: una fila inválida deshace todo el archivo.
type TxRunner interface {
	Run(ctx context.Context, fn func(productRepo repository.ProductRepository) error) error
}

// ReportGenerator genera el reporte PDF del inventario.
type ReportGenerator interface {
	GenerateInventoryReport(
		ctx context.Context,
		products []*entity.Product,
		summary *entity.InventorySummary,
		generatedAt time.Time,
	) ([]byte, error)
}
