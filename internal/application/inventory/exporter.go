package inventory

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jhoicas/store-inventory/internal/domain/entity"
	invdomain "github.com/jhoicas/store-inventory/internal/domain/inventory"
	"github.com/jhoicas/store-inventory/internal/domain/repository"
)

// BackupHeader cabecera del CSV de respaldo. El importador la acepta, así que exportar e importar
// es un viaje de ida y vuelta.
var BackupHeader = []string{
	"product_id",
	invdomain.FieldName,
	invdomain.FieldPrice,
	invdomain.FieldQuantity,
	invdomain.FieldDate,
}

// Exporter escribe todos los productos a CSV.
type Exporter struct {
	repo   repository.ProductRepository
	append bool
}

// NewExporter construye el exportador. Con appendMode el archivo no se trunca y cada respaldo
// agrega su propia cabecera al final.
func NewExporter(repo repository.ProductRepository, appendMode bool) *Exporter {
	return &Exporter{repo: repo, append: appendMode}
}

// ExportFile escribe el respaldo en path y devuelve la cantidad de registros escritos.
// Los productos se leen antes de tocar el archivo: si el store falla, el respaldo anterior queda intacto.
// Al sobrescribir se escribe un temporal en el mismo directorio y se renombra sobre path.
func (e *Exporter) ExportFile(ctx context.Context, path string) (int, error) {
	products, err := e.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if e.append {
		return e.appendFile(path, products)
	}
	return e.replaceFile(path, products)
}

func (e *Exporter) appendFile(path string, products []*entity.Product) (n int, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 0, fmt.Errorf("abrir %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cerrar %s: %w", path, cerr)
		}
	}()
	return write(f, products)
}

func (e *Exporter) replaceFile(path string, products []*entity.Product) (int, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".backup-*.csv")
	if err != nil {
		return 0, fmt.Errorf("crear temporal para %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	n, err := write(tmp, products)
	if err != nil {
		tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("cerrar %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return 0, fmt.Errorf("permisos %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return 0, fmt.Errorf("reemplazar %s: %w", path, err)
	}
	return n, nil
}

// Export escribe cabecera y una fila por producto, en orden de ID.
func (e *Exporter) Export(ctx context.Context, w io.Writer) (int, error) {
	products, err := e.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return write(w, products)
}

func write(w io.Writer, products []*entity.Product) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(BackupHeader); err != nil {
		return 0, fmt.Errorf("escribir cabecera: %w", err)
	}
	for _, p := range products {
		err := cw.Write([]string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			invdomain.FormatPriceCents(p.PriceCents),
			strconv.Itoa(p.Quantity),
			invdomain.FormatDate(p.UpdatedAt),
		})
		if err != nil {
			return 0, fmt.Errorf("escribir producto %d: %w", p.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("escribir CSV: %w", err)
	}
	return len(products), nil
}
