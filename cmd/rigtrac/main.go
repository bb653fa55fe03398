package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/rigtrac/internal/config"
	"github.com/crimson-sun/rigtrac/internal/logging"
	"github.com/crimson-sun/rigtrac/pkg/rigtrac"
)

func main() {
	cfg := config.Load()

	var (
		workers  int
		logLevel string
		noAlign  bool
	)

	root := &cobra.Command{
		Use:   "rigtrac",
		Short: "Classify and collate behavior-rig experiment logs",
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", cfg.Log.Level, "debug, info, warn, or error")
	root.PersistentFlags().IntVar(&workers, "workers", cfg.Scan.Workers, "concurrent classify/decode tasks")

	scan := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Scan a session directory and report its contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Init(cfg.Log.JSON, logging.ParseLevel(logLevel))

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				cancel()
			}()

			opts := []rigtrac.Option{
				rigtrac.WithWorkers(workers),
				rigtrac.WithBallRadius(cfg.View.BallRadius),
				rigtrac.WithBarFrontAngle(cfg.View.BarFrontAngle),
			}
			if noAlign {
				opts = append(opts, rigtrac.WithoutAlignment())
			}

			exp, err := rigtrac.Open(ctx, args[0], opts...)
			if err != nil && exp == nil {
				return err
			}

			report(cmd, exp)
			if err != nil {
				return fmt.Errorf("scan incomplete: %w", err)
			}
			return nil
		},
	}
	scan.Flags().BoolVar(&noAlign, "no-align", cfg.Scan.NoAlign, "skip time-base alignment")
	root.AddCommand(scan)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func report(cmd *cobra.Command, exp *rigtrac.Experiment) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "session %s (scan %s)\n", exp.Root(), exp.ID())
	if exp.Partial() {
		fmt.Fprintln(out, "  PARTIAL: scan was cancelled before completion")
	}
	if epoch, ok := exp.Epoch(); ok {
		fmt.Fprintf(out, "  epoch: %d ns\n", epoch)
	}

	for _, tag := range exp.Tags() {
		for _, it := range exp.Interpreters(tag) {
			fmt.Fprintf(out, "  [%s] %s (%d records)\n", tag, it.Path(), it.Len())
			if start, end, ok := it.TimeBase(); ok {
				fmt.Fprintf(out, "      span %d..%d ns\n", start, end)
			}
			if path, ok := it.ConfigFile(); ok {
				fmt.Fprintf(out, "      config %s\n", path)
			}
			if commit, warnings, ok := it.Version(); ok {
				fmt.Fprintf(out, "      commit %s\n", commit)
				for _, w := range warnings {
					fmt.Fprintf(out, "      warning: %s\n", w)
				}
			}
		}
	}

	printDiags(out, "unclassified", exp.Unclassified())
	printDiags(out, "ambiguous", exp.Ambiguous())
	printDiags(out, "errored", exp.Errored())
}

func printDiags(out io.Writer, label string, diags []rigtrac.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintf(out, "  %s (%d):\n", label, len(diags))
	for _, d := range diags {
		fmt.Fprintf(out, "      %s: %s\n", d.Path, d.Reason)
	}
}
