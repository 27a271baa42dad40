package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newScanCmd(app *app) *cobra.Command {
	var simulate bool
	var window time.Duration

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one discovery pass and list nearby devices",
		Long:  "Runs a single bounded scan and prints every device address in range, marking the ones already registered. Useful before `bta roster add`.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("simulate") {
				simulate = app.config.GetBool(keySimulate)
			}
			if !cmd.Flags().Changed("window") {
				window = app.config.GetDuration(keyWindow)
			}

			source, err := app.discoverySource(cmd.Context(), simulate, window)
			if err != nil {
				return err
			}

			nearby, err := app.rosterService.Nearby(cmd.Context(), source)
			if err != nil {
				return err
			}

			if len(nearby) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "no devices found")
				return err
			}

			for _, device := range nearby {
				label := "unregistered"
				if device.Registered {
					label = "registered: " + device.DisplayName
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t(%s)\n", device.ID, label); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&simulate, "simulate", false, "Use the simulated discovery source")
	cmd.Flags().DurationVar(&window, "window", 5*time.Second, "Scan window per discovery pass")

	return cmd
}
