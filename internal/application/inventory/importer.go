package inventory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/store-inventory/internal/application/dto"
	"github.com/jhoicas/store-inventory/internal/application/usecase"
	"github.com/jhoicas/store-inventory/internal/domain"
	invdomain "github.com/jhoicas/store-inventory/internal/domain/inventory"
	"github.com/jhoicas/store-inventory/internal/domain/repository"
	"github.com/jhoicas/store-inventory/pkg/logger"
)

// legacyNameColumn nombre alternativo de la columna del nombre en archivos antiguos.
const legacyNameColumn = "product"

// Importer carga el CSV semilla en el store haciendo upsert por nombre.
type Importer struct {
	repo   repository.ProductRepository
	tx     TxRunner
	log    *logger.Logger
	strict bool
}

// NewImporter construye el importador. tx solo se usa en modo estricto y puede ser nil si strict es false.
func NewImporter(repo repository.ProductRepository, tx TxRunner, log *logger.Logger, strict bool) *Importer {
	if log == nil {
		log = logger.Nop()
	}
	return &Importer{repo: repo, tx: tx, log: log, strict: strict}
}

// ImportFile abre path y lo importa.
func (im *Importer) ImportFile(ctx context.Context, path string) (*dto.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir %s: %w", path, err)
	}
	defer f.Close()
	return im.Import(ctx, f)
}

// Import lee el CSV de r. La primera fila es la cabecera.
// Sin modo estricto, una fila mal formada se omite y queda en ImportResult.Skipped.
// En modo estricto la importación corre en una transacción y la primera fila inválida la aborta
// sin cambios en el store.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	result := &dto.ImportResult{RunID: uuid.NewString()}
	log := logger.Child(im.log.With().Str("run_id", result.RunID).Bool("strict", im.strict))

	if !im.strict {
		if err := im.load(ctx, r, im.repo, result, log); err != nil {
			return nil, err
		}
	} else {
		if im.tx == nil {
			return nil, errors.New("importación estricta sin TxRunner")
		}
		err := im.tx.Run(ctx, func(txRepo repository.ProductRepository) error {
			return im.load(ctx, r, txRepo, result, log)
		})
		if err != nil {
			log.Error().Err(err).Msg("importación abortada")
			return nil, err
		}
	}

	log.Info().
		Int("rows", result.Rows).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("skipped", len(result.Skipped)).
		Msg("importación terminada")
	return result, nil
}

func (im *Importer) load(
	ctx context.Context,
	r io.Reader,
	repo repository.ProductRepository,
	result *dto.ImportResult,
	log *logger.Logger,
) error {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("leer cabecera: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return err
	}

	products := usecase.NewProductUseCase(repo)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) && !im.strict {
			// El lector ya consumió la línea rota; la siguiente lectura sigue en la próxima fila.
			result.Rows++
			rowErr := fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
			log.Warn().Err(err).Int("line", csvErr.StartLine).Msg("fila omitida")
			result.Skipped = append(result.Skipped, dto.RowError{Line: csvErr.StartLine, Err: rowErr})
			continue
		}
		if err != nil {
			return fmt.Errorf("leer CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}
		result.Rows++

		req, err := cols.request(record, line)
		if err != nil {
			if im.strict {
				return err
			}
			log.Warn().Err(err).Int("line", line).Msg("fila omitida")
			result.Skipped = append(result.Skipped, dto.RowError{Line: line, Err: err})
			continue
		}

		_, created, err := products.Save(ctx, req)
		if err != nil {
			return fmt.Errorf("línea %d: guardar %q: %w", line, req.Name, err)
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
}

// columns posiciones de las columnas requeridas dentro de la fila.
type columns struct {
	name, quantity, price, date int
}

// columnIndex ubica las columnas por nombre, sin distinguir mayúsculas. Las columnas extra
// (ej. product_id del respaldo) se ignoran.
func columnIndex(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	if _, ok := idx[invdomain.FieldName]; !ok {
		if i, legacy := idx[legacyNameColumn]; legacy {
			idx[invdomain.FieldName] = i
		}
	}

	var missing []string
	get := func(name string) int {
		i, ok := idx[name]
		if !ok {
			missing = append(missing, name)
		}
		return i
	}
	c := columns{
		name:     get(invdomain.FieldName),
		quantity: get(invdomain.FieldQuantity),
		price:    get(invdomain.FieldPrice),
		date:     get(invdomain.FieldDate),
	}
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("%w: faltan columnas %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return c, nil
}

func (c columns) request(record []string, line int) (dto.SaveProductRequest, error) {
	field := func(i int) string {
		if i < len(record) {
			return record[i]
		}
		return ""
	}

	name := strings.TrimSpace(field(c.name))
	if name == "" {
		return dto.SaveProductRequest{}, &domain.ParseError{Line: line, Field: invdomain.FieldName, Value: field(c.name), Err: errors.New("nombre vacío")}
	}
	quantity, err := invdomain.ParseQuantity(field(c.quantity))
	if err != nil {
		return dto.SaveProductRequest{}, withLine(err, line)
	}
	price, err := invdomain.ParsePriceCents(field(c.price))
	if err != nil {
		return dto.SaveProductRequest{}, withLine(err, line)
	}
	date, err := invdomain.ParseDate(field(c.date))
	if err != nil {
		return dto.SaveProductRequest{}, withLine(err, line)
	}
	return dto.SaveProductRequest{Name: name, Quantity: quantity, PriceCents: price, UpdatedAt: date}, nil
}

func withLine(err error, line int) error {
	var pe *domain.ParseError
	if errors.As(err, &pe) {
		pe.Line = line
	}
	return err
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
