package main

import (
	"context"
	"io"

	appinventory "github.com/jhoicas/store-inventory/internal/application/inventory"
	"github.com/jhoicas/store-inventory/internal/domain/repository"
	"github.com/jhoicas/store-inventory/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/store-inventory/internal/infrastructure/pdf"
	"github.com/jhoicas/store-inventory/internal/infrastructure/postgres"
	"github.com/jhoicas/store-inventory/pkg/config"
	"github.com/jhoicas/store-inventory/pkg/logger"
)

// app dependencias construidas una vez por proceso y pasadas a cada componente.
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	repo  repository.ProductRepository
	tx    appinventory.TxRunner
	close func()
}

// openApp construye el store elegido por cfg. Los logs van a logOut, nunca a la salida del menú.
func openApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*app, error) {
	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		Out:   logOut,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	a := &app{cfg: cfg, log: log, close: func() {}}
	switch cfg.Store.Driver {
	case config.DriverMemory:
		repo := memory.NewProductRepository()
		a.repo = repo
		a.tx = memory.NewTxRunner(repo)
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Error().Err(err).Msg("conexión a PostgreSQL")
			return nil, err
		}
		a.repo = postgres.NewProductRepository(pool)
		a.tx = postgres.NewTxRunner(pool)
		a.close = pool.Close
	}
	return a, nil
}

func (a *app) importer() *appinventory.Importer {
	return appinventory.NewImporter(a.repo, a.tx, a.log, a.cfg.Inventory.StrictImport)
}

func (a *app) backup() *appinventory.BackupUseCase {
	var report appinventory.ReportGenerator
	if a.cfg.Inventory.ReportPath != "" {
		report = infrapdf.NewMarotoReportGenerator(a.cfg.App.Name)
	}
	return appinventory.NewBackupUseCase(a.repo, report, appinventory.BackupOptions{
		BackupPath: a.cfg.Inventory.BackupPath,
		Append:     a.cfg.Inventory.BackupMode == config.BackupAppend,
		ReportPath: a.cfg.Inventory.ReportPath,
	}, a.log)
}
