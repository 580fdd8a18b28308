package inventory

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/store-inventory/internal/application/dto"
	"github.com/jhoicas/store-inventory/internal/domain/entity"
	"github.com/jhoicas/store-inventory/internal/domain/repository"
	"github.com/jhoicas/store-inventory/pkg/logger"
)

// BackupUseCase escribe el respaldo CSV y, si hay generador y ruta, el reporte PDF.
type BackupUseCase struct {
	repo       repository.ProductRepository
	exporter   *Exporter
	report     ReportGenerator
	backupPath string
	reportPath string
	log        *logger.Logger
	now        func() time.Time
}

// BackupOptions rutas y modo del respaldo.
type BackupOptions struct {
	BackupPath string
	Append     bool
	ReportPath string // vacío: sin PDF
}

// NewBackupUseCase construye el caso de uso. report puede ser nil.
func NewBackupUseCase(repo repository.ProductRepository, report ReportGenerator, opts BackupOptions, log *logger.Logger) *BackupUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &BackupUseCase{
		repo:       repo,
		exporter:   NewExporter(repo, opts.Append),
		report:     report,
		backupPath: opts.BackupPath,
		reportPath: opts.ReportPath,
		log:        log,
		now:        time.Now,
	}
}

// Backup exporta todos los productos y devuelve el conteo y los totales.
func (uc *BackupUseCase) Backup(ctx context.Context) (*dto.BackupResult, error) {
	n, err := uc.exporter.ExportFile(ctx, uc.backupPath)
	if err != nil {
		return nil, err
	}
	summary, err := uc.repo.Summary(ctx)
	if err != nil {
		return nil, err
	}
	result := &dto.BackupResult{Path: uc.backupPath, Records: n, Summary: *summary}

	if uc.report != nil && uc.reportPath != "" {
		if err := uc.writeReport(ctx, summary); err != nil {
			return nil, err
		}
		result.ReportPath = uc.reportPath
	}

	uc.log.Info().
		Str("path", uc.backupPath).
		Int("records", n).
		Str("report", result.ReportPath).
		Msg("respaldo generado")
	return result, nil
}

func (uc *BackupUseCase) writeReport(ctx context.Context, summary *entity.InventorySummary) error {
	products, err := uc.repo.List(ctx)
	if err != nil {
		return err
	}
	pdfBytes, err := uc.report.GenerateInventoryReport(ctx, products, summary, uc.now())
	if err != nil {
		return fmt.Errorf("generar reporte: %w", err)
	}
	if err := os.WriteFile(uc.reportPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("escribir reporte %s: %w", uc.reportPath, err)
	}
	return nil
}
