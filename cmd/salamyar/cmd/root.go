package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"salamyar/lib/serviceutil"
	"salamyar/lib/telemetry"
	"time"

	"github.com/spf13/cobra"
)

// errReported is returned by commands that already rendered their error.
var errReported = errors.New("command failed")

var verbose bool

var app *App

var rootCmd = &cobra.Command{
	Use:           "salamyar",
	Short:         "salamyar is a terminal client for the سلامیار shopping assistant.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		err := telemetry.SetupFromEnv(cmd.Context(), "salamyar")
		if err != nil {
			slog.Warn("failed to setup telemetry", "err", err)
		}

		cfg, err := LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		app, err = NewApp(cmd.Context(), cfg, verbose)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging and http exchange dumps")
}

func Execute() {
	ctx := serviceutil.SignalContext()
	err := rootCmd.ExecuteContext(ctx)

	if app != nil {
		app.Close()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	shutdownErr := telemetry.Shutdown(shutdownCtx)
	cancel()
	if shutdownErr != nil {
		slog.Warn("failed to flush telemetry", "err", shutdownErr)
	}

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
