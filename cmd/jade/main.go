package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jade/jadeos/internal/bridge"
	"github.com/jade/jadeos/internal/config"
	"github.com/jade/jadeos/internal/database"
	"github.com/jade/jadeos/internal/database/repository"
	"github.com/jade/jadeos/internal/logging"
	"github.com/jade/jadeos/internal/prefs"
	"github.com/jade/jadeos/internal/secrets"
	"github.com/jade/jadeos/internal/service"
	"github.com/jade/jadeos/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "jade",
	Short: "JADE OS command center",
	Long: `JADE OS command center.

Without a subcommand the dashboard opens in the terminal. Configuration is
read from ~/.config/jade/config.toml (or $JADE_CONFIG) and JADE_* env vars.`,
	SilenceUsage: true,
	RunE:         runDashboard,
}

func main() {
	rootCmd.AddCommand(serveCmd, scanCmd, keyCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runtime is what every subcommand shares: config, logger, database and the
// action service over freshly wired workers.
type runtime struct {
	cfg config.Config
	log *zap.Logger
	db  *sql.DB
	svc *service.Service
}

// setup loads config and opens everything. logPath overrides log.path when
// non-nil; serve passes "" so logs go to stderr.
func setup(logPath *string) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if logPath != nil {
		cfg.Log.Path = *logPath
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	store, err := secrets.Default()
	if err != nil {
		log.Warn("secrets store unavailable", zap.Error(err))
	}

	workers := service.NewWorkers(cfg, service.Deps{DB: db, Secrets: store, Log: log})
	svc := service.New(service.Options{
		Workers:   workers,
		Bridge:    bridge.New(bridge.WithTimeout(cfg.Bridge.Timeout), bridge.WithLogger(log.Named("bridge"))),
		Scans:     repository.NewScanRepo(db),
		Log:       log.Named("service"),
		UploadDir: cfg.Video.UploadDir,
	})
	return &runtime{cfg: cfg, log: log, db: db, svc: svc}, nil
}

func (r *runtime) close() {
	_ = r.db.Close()
	_ = r.log.Sync()
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	rt, err := setup(nil)
	if err != nil {
		return err
	}
	defer rt.close()

	dir, err := prefs.Dir()
	if err != nil {
		rt.log.Warn("prefs dir unavailable", zap.Error(err))
		dir = ""
	}

	ctx := cmd.Context()
	app := tui.New(ctx, tui.Options{Service: rt.svc, Log: rt.log.Named("tui"), PrefsDir: dir})
	if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
