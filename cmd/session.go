package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	reportrender "github.com/bnema/bt-attendance-cli/internal/adapters/render/report"
	csvsink "github.com/bnema/bt-attendance-cli/internal/adapters/report/csv"
	"github.com/bnema/bt-attendance-cli/internal/application"
	"github.com/bnema/bt-attendance-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Run attendance sessions",
	}

	cmd.AddCommand(newSessionRunCmd(app))

	return cmd
}

func newSessionRunCmd(app *app) *cobra.Command {
	var (
		threshold float64
		interval  time.Duration
		window    time.Duration
		maxScans  int
		simulate  bool
		asJSON    bool
		outDir    string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scanning session until interrupted",
		Long:  "Starts a continuous attendance session: scans every interval, logs each cycle, and on Ctrl-C (or after --scans cycles) classifies every registered identity and writes the CSV report.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("threshold") {
				threshold = app.config.GetFloat64(keyThreshold)
			}
			if !cmd.Flags().Changed("interval") {
				interval = app.config.GetDuration(keyInterval)
			}
			if !cmd.Flags().Changed("window") {
				window = app.config.GetDuration(keyWindow)
			}
			if !cmd.Flags().Changed("simulate") {
				simulate = app.config.GetBool(keySimulate)
			}
			if !cmd.Flags().Changed("out") {
				outDir = app.config.GetString(keyReportDir)
			}

			source, err := app.discoverySource(cmd.Context(), simulate, window)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			observer := func(summary domain.ScanSummary) {
				names := make([]string, 0, len(summary.Seen))
				for _, identity := range summary.Seen {
					names = append(names, identity.DisplayName)
				}
				detected := "none"
				if len(names) > 0 {
					detected = strings.Join(names, ", ")
				}
				fmt.Fprintf(out, "[scan %d] detected %d of %d: %s\n",
					summary.Scan, len(summary.Seen), len(summary.Seen)+len(summary.Missed), detected)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if simulate {
				fmt.Fprintln(out, "running in simulation mode")
			}
			fmt.Fprintf(out, "session started: scanning every %s (threshold %.0f%%), stop with Ctrl-C\n", interval, threshold*100)

			runner := application.NewSessionRunner(app.repo, source, app.clock, observer)
			report, err := runner.Run(ctx, application.RunConfig{
				Threshold:    threshold,
				ScanInterval: interval,
				MaxScans:     maxScans,
			})
			stop()
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				rendered, err := reportrender.Render(report, reportrender.RenderOptions{})
				if err != nil {
					return fmt.Errorf("render report: %w", err)
				}
				fmt.Fprintln(out, rendered)
			}

			// The run context is already cancelled after Ctrl-C; the
			// report still has to be written.
			path, err := csvsink.NewSink(outDir).Write(context.Background(), report)
			if err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			_, err = fmt.Fprintf(out, "report written to %s\n", path)

			return err
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0.8, "Fraction of scans an identity must be detected in to be present, in (0, 1]")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "Pause between scan cycles")
	cmd.Flags().DurationVar(&window, "window", 5*time.Second, "Scan window per discovery pass")
	cmd.Flags().IntVar(&maxScans, "scans", 0, "Stop after this many scan cycles (0 runs until interrupted)")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "Use the simulated discovery source")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON instead of the rendered view")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory for the CSV report")

	return cmd
}
