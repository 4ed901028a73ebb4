package cli

import (
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/couchcryptid/disaster-report-registry/internal/command"
	"github.com/couchcryptid/disaster-report-registry/internal/config"
	"github.com/couchcryptid/disaster-report-registry/internal/observability"
	"github.com/couchcryptid/disaster-report-registry/internal/store"
)

// app is the wired registry shared by every command.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	svc      *command.Service
}

func newApp(opts *RootOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	if opts.File != "" {
		cfg.DataFile = opts.File
	}

	logger := observability.NewLogger(cfg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	var storeOpts []store.Option
	if cfg.SpatialIndex {
		storeOpts = append(storeOpts, store.WithSpatialIndex())
	}

	svc := command.NewService(store.New(storeOpts...), cfg.DataFile, logger, metrics, clockwork.NewRealClock())

	return &app{cfg: cfg, logger: logger, registry: reg, svc: svc}, nil
}

// loadReadOnly wires the registry and loads the data file for a one-shot
// command. A malformed line is not fatal here; the reports before it are used.
func loadReadOnly(opts *RootOptions) (*app, command.LoadResult, error) {
	a, err := newApp(opts)
	if err != nil {
		return nil, command.LoadResult{}, err
	}
	res, err := a.svc.Load()
	if err != nil {
		return nil, res, WrapExitError(ExitCommandError, "load reports", err)
	}
	return a, res, nil
}
