package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/jhoicas/store-inventory/internal/application/dto"
	"github.com/jhoicas/store-inventory/internal/application/usecase"
	"github.com/jhoicas/store-inventory/internal/interfaces/cli"
	"github.com/jhoicas/store-inventory/pkg/config"
)

// Flags comunes; un valor vacío deja el de la configuración (env / .env).
const (
	seedFlag   = "seed"
	backupFlag = "backup"
	storeFlag  = "store"
	reportFlag = "report"
)

// newFlags devuelve flags nuevos en cada llamada: un cobraflags.Flag guarda el pflag de la última
// registración, así que cada comando necesita su propio mapa.
func newFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		seedFlag: &cobraflags.StringFlag{
			Name:  seedFlag,
			Value: "",
			Usage: "CSV seed file imported on start (default SEED_PATH or inventory.csv)",
		},
		backupFlag: &cobraflags.StringFlag{
			Name:  backupFlag,
			Value: "",
			Usage: "CSV backup file (default BACKUP_PATH or backup.csv)",
		},
		storeFlag: &cobraflags.StringFlag{
			Name:  storeFlag,
			Value: "",
			Usage: "Record store driver: postgres or memory (default STORE_DRIVER)",
		},
		reportFlag: &cobraflags.StringFlag{
			Name:  reportFlag,
			Value: "",
			Usage: "Also write a PDF inventory report to this path on backup",
		},
	}
}

type runFunc func(cmd *cobra.Command, cfg *config.Config) error

// withConfig resuelve la configuración con los flags del propio comando antes de ejecutar run.
func withConfig(flags map[string]cobraflags.Flag, run runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(flags)
		if err != nil {
			return err
		}
		return run(cmd, cfg)
	}
}

func newRootCommand() *cobra.Command {
	flags := newFlags()
	root := &cobra.Command{
		Use:   "inventory",
		Short: "Terminal inventory tracker",
		Long: `Imports the seed CSV into the record store and opens the interactive menu.

Examples:
  inventory                              # import inventory.csv, then menu
  inventory --store memory               # no database, data lives until exit
  inventory import --seed products.csv   # import only
  inventory backup --report stock.pdf    # write backup.csv and a PDF report`,
		SilenceUsage: true,
		RunE:         withConfig(flags, interactiveCommand),
	}
	cobraflags.RegisterMap(root, flags)
	root.AddCommand(newImportCommand(), newBackupCommand())
	return root
}

func newImportCommand() *cobra.Command {
	flags := newFlags()
	cmd := &cobra.Command{
		Use:          "import",
		Short:        "Import the seed CSV into the record store (upsert by name)",
		SilenceUsage: true,
		RunE:         withConfig(flags, importCommand),
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func newBackupCommand() *cobra.Command {
	flags := newFlags()
	cmd := &cobra.Command{
		Use:          "backup",
		Short:        "Write every product to the backup CSV",
		SilenceUsage: true,
		RunE:         withConfig(flags, backupCommand),
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

// loadConfig lee la configuración y aplica los flags no vacíos.
func loadConfig(flags map[string]cobraflags.Flag) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v := flags[seedFlag].GetString(); v != "" {
		cfg.Inventory.SeedPath = v
	}
	if v := flags[backupFlag].GetString(); v != "" {
		cfg.Inventory.BackupPath = v
	}
	if v := flags[storeFlag].GetString(); v != "" {
		cfg.Store.Driver = v
	}
	if v := flags[reportFlag].GetString(); v != "" {
		cfg.Inventory.ReportPath = v
	}
	return cfg, cfg.Validate()
}

func interactiveCommand(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	// Sin archivo semilla se arranca con lo que ya tenga el store.
	res, err := a.importer().ImportFile(ctx, a.cfg.Inventory.SeedPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		a.log.Warn().Str("path", a.cfg.Inventory.SeedPath).Msg("archivo semilla no encontrado")
	case err != nil:
		return err
	default:
		reportSkipped(cmd.ErrOrStderr(), res.Skipped)
	}

	menu := cli.NewMenu(
		usecase.NewProductUseCase(a.repo),
		a.backup(),
		cmd.InOrStdin(), cmd.OutOrStdout(),
		a.log,
	)
	return menu.Run(ctx)
}

func importCommand(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.importer().ImportFile(ctx, a.cfg.Inventory.SeedPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows from %s: %d added, %d updated, %d skipped\n",
		res.Rows, a.cfg.Inventory.SeedPath, res.Created, res.Updated, len(res.Skipped))
	reportSkipped(cmd.ErrOrStderr(), res.Skipped)
	return nil
}

func backupCommand(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.backup().Backup(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Backed up %d items to %s\n", res.Records, res.Path)
	if res.ReportPath != "" {
		fmt.Fprintf(out, "Report written to %s\n", res.ReportPath)
	}
	return nil
}

func reportSkipped(w io.Writer, skipped []dto.RowError) {
	for _, s := range skipped {
		fmt.Fprintf(w, "skipped line %d: %v\n", s.Line, s.Err)
	}
}
