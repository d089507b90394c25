// Package cli provides the rbmctl command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ganot/rbm-dashboard/internal/app"
	"github.com/ganot/rbm-dashboard/internal/config"
)

// Version is set at build time.
var Version = "dev"

// runtime is the state shared by every command of one invocation.
type runtime struct {
	configPath string
	verbose    bool

	app      *app.App
	closeLog func() error
}

func newRootCommand(rt *runtime) *cobra.Command {
	root := &cobra.Command{
		Use:   "rbmctl",
		Short: "Operate the RBM pricing dashboard backend",
		Long: `rbmctl runs and maintains the RBM dashboard backend.

It reads the same configuration as the server (RBM_CONFIG_PATH or --config,
then RBM_* environment variables) and works directly on the configured
storage backend.`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: rt.setup,
	}

	root.CompletionOptions.DisableDefaultCmd = true

	root.PersistentFlags().StringVarP(&rt.configPath, "config", "c", "", "config file (default $RBM_CONFIG_PATH)")
	root.PersistentFlags().BoolVar(&rt.verbose, "verbose", false, "debug logging")

	root.AddCommand(
		newServeCmd(rt),
		newImportCmd(rt),
		newExportCmd(rt),
		newClearCmd(rt),
		newStatsCmd(rt),
		newTimeSavedCmd(rt),
		newFeedbackCmd(rt),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := &runtime{}
	err := newRootCommand(rt).ExecuteContext(ctx)
	return errors.Join(err, rt.close())
}

func (rt *runtime) setup(cmd *cobra.Command, _ []string) error {
	// Skip storage for version and help commands
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	path := rt.configPath
	if path == "" {
		path = os.Getenv("RBM_CONFIG_PATH")
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if rt.verbose {
		cfg.Log.Level = "debug"
	}

	logger, closeLog, err := config.SetupLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	rt.closeLog = closeLog

	a, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	rt.app = a
	return nil
}

// close releases the app and log file. It is safe to call more than once.
func (rt *runtime) close() error {
	var errs []error
	if rt.app != nil {
		errs = append(errs, rt.app.Close())
		rt.app = nil
	}
	if rt.closeLog != nil {
		errs = append(errs, rt.closeLog())
		rt.closeLog = nil
	}
	return errors.Join(errs...)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rbmctl %s\n", Version)
		},
	}
}
