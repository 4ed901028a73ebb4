package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/disaster-report-registry/internal/adapter/http"
	"github.com/couchcryptid/disaster-report-registry/internal/console"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	File   string // overrides RELATOS_FILE when set
	Format string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. Without a subcommand it runs the
// interactive menu.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "relatos",
		Short: "Disaster report registry",
		Long: `Record and query disaster-incident reports.

Run without a subcommand for the interactive menu. Reports are kept in a
pipe-delimited text file (RELATOS_FILE, default relatos.txt) which is loaded
at startup and written on save and on exit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(opts, cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.File, "file", "f", "", "data file (default from RELATOS_FILE)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format for one-shot commands (json|text)")

	cmd.AddCommand(NewNearbyCommand(opts))
	cmd.AddCommand(NewFindCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

func runInteractive(opts *RootOptions, cmd *cobra.Command) error {
	a, err := newApp(opts)
	if err != nil {
		return err
	}

	res, err := a.svc.Load()
	if err != nil {
		return WrapExitError(ExitCommandError, "load reports", err)
	}
	if res.StoppedAt > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: stopped reading at line %d, %d reports loaded\n",
			a.cfg.DataFile, res.StoppedAt, res.Loaded)
	}

	if a.cfg.MetricsAddr != "" {
		ctx, cancel := context.WithCancel(cmd.Context())
		done := make(chan struct{})
		srv := httpadapter.NewServer(a.cfg.MetricsAddr, a.svc, a.registry, a.logger)
		go func() {
			defer close(done)
			if err := srv.Run(ctx, a.cfg.ShutdownTimeout); err != nil {
				a.logger.Error("metrics server error", "error", err)
			}
		}()
		defer func() {
			cancel()
			<-done
		}()
	}

	if err := console.New(a.svc, cmd.InOrStdin(), cmd.OutOrStdout()).Run(); err != nil {
		return WrapExitError(ExitFailure, "reports were not saved", err)
	}
	return nil
}
