package dto

import "github.com/jhoicas/store-inventory/internal/domain/entity"

// RowError fila del CSV semilla que no se pudo importar.
type RowError struct {
	Line int
	Err  error
}

// ImportResult resumen de una ejecución del importador.
type ImportResult struct {
	RunID   string
	Rows    int // filas de datos leídas (sin cabecera)
	Created int
	Updated int
	Skipped []RowError
}

// BackupResult resultado del respaldo CSV (y del reporte PDF si está habilitado).
type BackupResult struct {
	Path       string
	Records    int
	ReportPath string // vacío si no se generó PDF
	Summary    entity.InventorySummary
}
