package cli_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/store-inventory/internal/application/dto"
	"github.com/jhoicas/store-inventory/internal/application/usecase"
	"github.com/jhoicas/store-inventory/internal/domain"
	"github.com/jhoicas/store-inventory/internal/domain/entity"
	"github.com/jhoicas/store-inventory/internal/infrastructure/memory"
	"github.com/jhoicas/store-inventory/internal/interfaces/cli"
	"github.com/jhoicas/store-inventory/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeBackup struct {
	calls int
}

func (f *fakeBackup) Backup(context.Context) (*dto.BackupResult, error) {
	f.calls++
	return &dto.BackupResult{
		Path:    "backup.csv",
		Records: 3,
		Summary: entity.InventorySummary{Products: 3, Units: 54, StockValue: decimal.RequireFromString("2539.27")},
	}, nil
}

func newMenu(t *testing.T, input string, names ...string) (*cli.Menu, *memory.ProductRepo, *bytes.Buffer) {
	t.Helper()
	repo := memory.NewProductRepository()
	d := time.Date(2018, time.June, 13, 0, 0, 0, 0, time.UTC)
	for i, name := range names {
		require.NoError(t, repo.Create(context.Background(), &entity.Product{
			Name: name, Quantity: i + 1, PriceCents: int64(100 * (i + 1)), UpdatedAt: d,
		}))
	}
	var out bytes.Buffer
	m := cli.NewMenu(usecase.NewProductUseCase(repo), &fakeBackup{}, strings.NewReader(input), &out, logger.Nop())
	return m, repo, &out
}

func run(t *testing.T, m *cli.Menu) {
	t.Helper()
	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, cli.StateQuit, m.State())
}

// ──────────────────────────────────────────────────────────────────────────────
// Menú
// ──────────────────────────────────────────────────────────────────────────────

func TestMenu_ComandoInvalido(t *testing.T) {
	m, _, out := newMenu(t, "x\nq\n")
	assert.Equal(t, cli.StateMenu, m.State())
	run(t, m)

	assert.Contains(t, out.String(), "enter 'q' to quit.")
	assert.Contains(t, out.String(), "That is not a valid entry")
	assert.Equal(t, 2, strings.Count(out.String(), "What would you like to do?  "))
}

func TestMenu_FinDeEntradaEsSalir(t *testing.T) {
	m, _, _ := newMenu(t, "")
	run(t, m)
}

func TestMenu_ContextoCancelado(t *testing.T) {
	m, _, _ := newMenu(t, "a\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Run(ctx), context.Canceled)
	assert.Equal(t, cli.StateQuit, m.State())
}

func TestMenu_LineaMuyLarga(t *testing.T) {
	input := "a\n" + strings.Repeat("x", 70000) + "\nm\nq\n"
	m, repo, out := newMenu(t, input)
	run(t, m)

	assert.Contains(t, out.String(), "Price: ")
	assert.Contains(t, out.String(), "Goodbye.")
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMenu_FinDeLineaCRLF(t *testing.T) {
	m, repo, out := newMenu(t, "a\r\nWidget\r\n$3.19\r\n12\r\nq\r\n")
	run(t, m)

	assert.Contains(t, out.String(), "Your item has been added to the inventory")
	assert.NotContains(t, out.String(), "product name cannot be empty")
	assert.NotContains(t, out.String(), "That is not a valid entry")
	_, err := repo.GetByName(context.Background(), "Widget")
	require.NoError(t, err)
}

func TestMenu_RetrocesoBorraCaracter(t *testing.T) {
	m, _, out := newMenu(t, "x\x7fq\n")
	run(t, m)

	assert.NotContains(t, out.String(), "That is not a valid entry")
	assert.Contains(t, out.String(), "Goodbye.")
}

func TestMenu_EntradaTrasSalirSeIgnora(t *testing.T) {
	m, repo, out := newMenu(t, "q\na\nWidget\n$1\n1\n")
	run(t, m)

	assert.Equal(t, 1, strings.Count(out.String(), "Goodbye."))
	assert.NotContains(t, out.String(), "Product Name: ")
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMenu_UltimaLineaSinSalto(t *testing.T) {
	m, _, out := newMenu(t, "q")
	run(t, m)
	assert.Contains(t, out.String(), "Goodbye.")
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta
// ──────────────────────────────────────────────────────────────────────────────

func TestAdd_RepreguntaSoloElCampoInvalido(t *testing.T) {
	m, repo, out := newMenu(t, "a\nWidget\nabc\n$3.19\nmany\n12\nq\n")
	run(t, m)

	assert.Contains(t, out.String(), "price entry must be a number")
	assert.Contains(t, out.String(), "quantity must be a number")
	assert.Contains(t, out.String(), "Your item has been added to the inventory")
	assert.Equal(t, 1, strings.Count(out.String(), "Product Name: "), "el nombre no se vuelve a pedir")

	p, err := repo.GetByName(context.Background(), "Widget")
	require.NoError(t, err)
	assert.Equal(t, int64(319), p.PriceCents)
	assert.Equal(t, 12, p.Quantity)
}

func TestAdd_NombreExistenteActualiza(t *testing.T) {
	m, repo, out := newMenu(t, "a\nWidget\n$5\n7\nq\n", "Widget")
	run(t, m)

	assert.Contains(t, out.String(), "Your item has been updated in the inventory")
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 7, list[0].Quantity)
	assert.Equal(t, int64(500), list[0].PriceCents)
}

func TestAdd_MenuDescartaLoCapturado(t *testing.T) {
	for _, input := range []string{
		"a\nmenu\nq\n",
		"a\nWidget\nMENU\nq\n",
		"a\nWidget\n$3.19\n m \nq\n",
	} {
		m, repo, _ := newMenu(t, input)
		run(t, m)

		list, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, list, "input %q", input)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ver / buscar / borrar
// ──────────────────────────────────────────────────────────────────────────────

func TestView_RecorreDesdeElPrimero(t *testing.T) {
	m, _, out := newMenu(t, "v\n\n\n\n\nq\n", "Widget", "Gadget", "Widgeon")
	run(t, m)

	s := out.String()
	assert.Contains(t, s, "Product Name: Widget")
	assert.Contains(t, s, "Product Name: Gadget")
	assert.Contains(t, s, "Product Name: Widgeon")
	assert.Contains(t, s, "ID Number: 2")
	assert.Contains(t, s, "Price: $2.00")
	assert.Contains(t, s, "Quantity: 3")
	assert.Contains(t, s, "Updated: 06/13/2018")
	assert.Contains(t, s, "End of results.")
	assert.Less(t, strings.Index(s, "Widget"), strings.Index(s, "Gadget"))
}

func TestView_DesdeID(t *testing.T) {
	m, _, out := newMenu(t, "v\nabc\n2\nm\nq\n", "Widget", "Gadget", "Widgeon")
	run(t, m)

	assert.Contains(t, out.String(), "ID must be a whole number")
	assert.Contains(t, out.String(), "Product Name: Gadget")
	assert.NotContains(t, out.String(), "Product Name: Widget\n")
	assert.NotContains(t, out.String(), "End of results.")
}

func TestView_IDInexistente(t *testing.T) {
	m, _, out := newMenu(t, "v\n99\nq\n", "Widget")
	run(t, m)
	assert.Contains(t, out.String(), "No item found with that ID")
}

func TestSearch_SubcadenaExacta(t *testing.T) {
	m, _, out := newMenu(t, "s\nWid\n\n\nq\n", "Widget", "Gadget", "Widgeon")
	run(t, m)

	s := out.String()
	assert.Contains(t, s, "Product Name: Widget")
	assert.Contains(t, s, "Product Name: Widgeon")
	assert.NotContains(t, s, "Gadget")
	assert.Contains(t, s, "End of results.")
}

func TestSearch_SinResultados(t *testing.T) {
	m, _, out := newMenu(t, "s\nwid\nq\n", "Widget")
	run(t, m)
	assert.Contains(t, out.String(), "No items matched your search")
}

func TestDelete_ConConfirmacion(t *testing.T) {
	m, repo, out := newMenu(t, "v\n2\nd\ny\nm\nq\n", "Widget", "Gadget", "Widgeon")
	run(t, m)

	assert.Contains(t, out.String(), "Entry deleted")
	_, err := repo.GetByID(context.Background(), 2)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// Tras borrar se muestra el siguiente registro.
	assert.Contains(t, out.String(), "Product Name: Widgeon")
}

func TestDelete_SinConfirmacionNoBorra(t *testing.T) {
	m, repo, out := newMenu(t, "v\n1\ndelete\nno\nm\nq\n", "Widget", "Gadget")
	run(t, m)

	assert.Contains(t, out.String(), "Entry not deleted")
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestBrowse_OpcionInvalida(t *testing.T) {
	m, _, out := newMenu(t, "v\n\nx\nm\nq\n", "Widget")
	run(t, m)
	assert.Contains(t, out.String(), "That is not a valid entry")
}

// ──────────────────────────────────────────────────────────────────────────────
// Respaldo
// ──────────────────────────────────────────────────────────────────────────────

func TestBackup_MuestraTotales(t *testing.T) {
	backup := &fakeBackup{}
	var out bytes.Buffer
	m := cli.NewMenu(usecase.NewProductUseCase(memory.NewProductRepository()), backup,
		strings.NewReader("b\nq\n"), &out, logger.Nop())
	require.NoError(t, m.Run(context.Background()))

	assert.Equal(t, 1, backup.calls)
	assert.Contains(t, out.String(), "Backed up 3 items to backup.csv")
	assert.Contains(t, out.String(), "stock value: $2,539.27")
}
