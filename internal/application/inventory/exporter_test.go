package inventory_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/store-inventory/internal/application/inventory"
	"github.com/jhoicas/store-inventory/internal/domain/entity"
	"github.com/jhoicas/store-inventory/internal/infrastructure/memory"
	"github.com/jhoicas/store-inventory/pkg/logger"
)

func seededRepo(t *testing.T) *memory.ProductRepo {
	t.Helper()
	repo := memory.NewProductRepository()
	d := time.Date(2018, time.June, 13, 0, 0, 0, 0, time.UTC)
	for _, p := range []*entity.Product{
		{Name: "Widget", Quantity: 12, PriceCents: 319, UpdatedAt: d},
		{Name: "Gadget", Quantity: 2, PriceCents: 125000, UpdatedAt: d},
	} {
		require.NoError(t, repo.Create(context.Background(), p))
	}
	return repo
}

func TestExport_Formato(t *testing.T) {
	var buf bytes.Buffer
	n, err := inventory.NewExporter(seededRepo(t), false).Export(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want := "product_id,product_name,product_price,product_quantity,date_updated\n" +
		"1,Widget,$3.19,12,06/13/2018\n" +
		"2,Gadget,\"$1,250.00\",2,06/13/2018\n"
	assert.Equal(t, want, buf.String())
}

func TestExportFile_SobrescribeOAgrega(t *testing.T) {
	ctx := context.Background()
	repo := seededRepo(t)
	header := strings.Join(inventory.BackupHeader, ",")

	path := filepath.Join(t.TempDir(), "backup.csv")
	over := inventory.NewExporter(repo, false)
	for i := 0; i < 2; i++ {
		_, err := over.ExportFile(ctx, path)
		require.NoError(t, err)
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), header))

	appendPath := filepath.Join(t.TempDir(), "backup.csv")
	app := inventory.NewExporter(repo, true)
	for i := 0; i < 2; i++ {
		_, err := app.ExportFile(ctx, appendPath)
		require.NoError(t, err)
	}
	data, err = os.ReadFile(appendPath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), header))
}

// failingRepo falla al listar; el resto delega en el almacén en memoria.
type failingRepo struct {
	*memory.ProductRepo
}

func (failingRepo) List(context.Context) ([]*entity.Product, error) {
	return nil, errors.New("db down")
}

func TestExportFile_ErrorDelStoreConservaRespaldo(t *testing.T) {
	ctx := context.Background()
	repo := failingRepo{ProductRepo: seededRepo(t)}
	previous := "product_id,product_name\n1,Widget\n"

	for _, appendMode := range []bool{false, true} {
		dir := t.TempDir()
		path := filepath.Join(dir, "backup.csv")
		require.NoError(t, os.WriteFile(path, []byte(previous), 0o644))

		_, err := inventory.NewExporter(repo, appendMode).ExportFile(ctx, path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, previous, string(data), "append=%v", appendMode)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "no quedan temporales")
	}
}

func TestExportFile_SinTemporales(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.csv")
	n, err := inventory.NewExporter(seededRepo(t), false).ExportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "backup.csv", entries[0].Name())
}

type fakeReport struct {
	calls    int
	products int
}

func (f *fakeReport) GenerateInventoryReport(_ context.Context, products []*entity.Product, _ *entity.InventorySummary, _ time.Time) ([]byte, error) {
	f.calls++
	f.products = len(products)
	return []byte("%PDF-fake"), nil
}

func TestBackup_ConReporte(t *testing.T) {
	dir := t.TempDir()
	report := &fakeReport{}
	uc := inventory.NewBackupUseCase(seededRepo(t), report, inventory.BackupOptions{
		BackupPath: filepath.Join(dir, "backup.csv"),
		ReportPath: filepath.Join(dir, "inventory.pdf"),
	}, logger.Nop())

	res, err := uc.Backup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Records)
	assert.Equal(t, int64(2), res.Summary.Products)
	assert.Equal(t, int64(14), res.Summary.Units)
	assert.Equal(t, "2538.28", res.Summary.StockValue.StringFixed(2))
	assert.Equal(t, filepath.Join(dir, "inventory.pdf"), res.ReportPath)
	assert.Equal(t, 1, report.calls)
	assert.Equal(t, 2, report.products)

	pdf, err := os.ReadFile(res.ReportPath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(pdf))
}

func TestBackup_SinReporte(t *testing.T) {
	dir := t.TempDir()
	uc := inventory.NewBackupUseCase(seededRepo(t), nil, inventory.BackupOptions{
		BackupPath: filepath.Join(dir, "backup.csv"),
	}, nil)

	res, err := uc.Backup(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.ReportPath)
	_, err = os.Stat(filepath.Join(dir, "backup.csv"))
	assert.NoError(t, err)
}
