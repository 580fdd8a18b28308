package memory

import (
	"context"

	"github.com/jhoicas/store-inventory/internal/application/inventory"
	"github.com/jhoicas/store-inventory/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner emula una transacción: toma una copia del mapa y la restaura si fn falla.
// Solo es correcto con un único escritor, que es el modelo de la aplicación.
type TxRunner struct {
	repo *ProductRepo
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(repo *ProductRepo) *TxRunner {
	return &TxRunner{repo: repo}
}

// Run ejecuta fn con el mismo almacén; ante error deja el estado como estaba antes.
func (r *TxRunner) Run(_ context.Context, fn func(productRepo repository.ProductRepository) error) error {
	byID, nextID := r.repo.snapshot()
	if err := fn(r.repo); err != nil {
		r.repo.restore(byID, nextID)
		return err
	}
	return nil
}
