package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bta",
		Short:         "Bluetooth attendance CLI (bta): track presence by beacon detection",
		Long:          "bta registers identities against their Bluetooth device addresses, runs continuous scanning sessions, and classifies each identity present or absent from how often its device was detected.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRosterCmd(app),
		newScanCmd(app),
		newSessionCmd(app),
	)

	return rootCmd
}
