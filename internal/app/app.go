package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kombefarm/flockdash/internal/config"
	"github.com/kombefarm/flockdash/internal/dashboard"
	"github.com/kombefarm/flockdash/internal/grid"
	"github.com/kombefarm/flockdash/internal/logging"
	"github.com/kombefarm/flockdash/internal/poultry"
	"github.com/kombefarm/flockdash/internal/prefs"
	"github.com/kombefarm/flockdash/internal/session"
	"github.com/kombefarm/flockdash/internal/ui"
)

// Options configure the flockdash application.
type Options struct {
	ConfigPath  string // empty uses ~/.config/flockdash/config.toml
	EnvFile     string // empty loads ./.env when present
	SessionPath string // overrides the config's session_path
	PrefsPath   string // empty uses ~/.config/flockdash/prefs.toml
	Verbose     bool
}

// env is everything a command needs once startup has succeeded.
type env struct {
	cfg    config.Config
	user   session.User
	logger *zap.Logger
	client *poultry.Client
}

// bootstrap loads config, opens the log, reads the session and builds the
// API client, in that order.
func bootstrap(opts Options) (*env, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.LogPath, opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	sessionPath := cfg.SessionPath
	if strings.TrimSpace(opts.SessionPath) != "" {
		sessionPath = opts.SessionPath
	}
	user, err := session.Load(sessionPath)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("load session: %w", err)
	}

	client, err := poultry.NewClient(cfg.APIBaseURL,
		poultry.WithTimeout(cfg.RequestTimeout),
		poultry.WithLogger(logging.Named(logger, "client")),
	)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("init poultry client: %w", err)
	}

	logger.Info("flockdash starting",
		zap.String("api", cfg.APIBaseURL),
		zap.String("user", user.DisplayName()),
	)
	return &env{cfg: cfg, user: user, logger: logger, client: client}, nil
}

// Run boots the flockdash TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	e, err := bootstrap(opts)
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    e.client,
		User:      e.user,
		Logger:    e.logger,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		LogPath:   e.cfg.LogPath,
		ExportDir: e.cfg.ExportDir,
	})
}

// ExportOptions select the headless export output.
type ExportOptions struct {
	Format grid.Format
	Out    string // empty writes a timestamped file into the config's export_dir
}

// Export loads every flock once and writes them without starting the TUI. It
// returns the path written.
func Export(ctx context.Context, opts Options, exp ExportOptions) (string, error) {
	e, err := bootstrap(opts)
	if err != nil {
		return "", err
	}
	defer func() { _ = e.logger.Sync() }()

	format := exp.Format
	if format == "" {
		format = grid.FormatCSV
	}
	out := exp.Out
	if out == "" {
		out = filepath.Join(e.cfg.ExportDir, grid.FileName("flocks", format, time.Now()))
	}

	flocks := dashboard.NewFlockGrid(0)
	ctrl := dashboard.New(e.client, e.user, nil,
		dashboard.WithLogger(logging.Named(e.logger, "dashboard")),
		dashboard.WithExporter(flocks),
	)
	if err := ctrl.Load(ctx); err != nil {
		return "", fmt.Errorf("load flocks: %w", err)
	}
	flocks.SetRows(ctrl.Snapshot().Rows)

	if err := ctrl.ExportFile(out, format); err != nil {
		return "", fmt.Errorf("export flocks: %w", err)
	}
	return out, nil
}
