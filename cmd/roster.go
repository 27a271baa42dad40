package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRosterCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage the identity registry",
	}

	cmd.AddCommand(
		newRosterAddCmd(app),
		newRosterListCmd(app),
		newRosterRemoveCmd(app),
		newRosterRenameCmd(app),
	)

	return cmd
}

func newRosterAddCmd(app *app) *cobra.Command {
	var deviceID string
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an identity for a device address",
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, err := app.rosterService.Register(cmd.Context(), deviceID, name)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "registered %s for %s\n", identity.DisplayName, identity.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&deviceID, "device", "", "Device address (MAC)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	_ = cmd.MarkFlagRequired("device")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRosterListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered identities",
		RunE: func(cmd *cobra.Command, _ []string) error {
			identities, err := app.rosterService.List(cmd.Context())
			if err != nil {
				return err
			}

			if len(identities) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "roster is empty")
				return err
			}

			for _, identity := range identities {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", identity.ID, identity.DisplayName)
				if err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func newRosterRemoveCmd(app *app) *cobra.Command {
	var deviceID string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove an identity by device address",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.rosterService.Remove(cmd.Context(), deviceID); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", deviceID)
			return err
		},
	}

	cmd.Flags().StringVar(&deviceID, "device", "", "Device address (MAC)")
	_ = cmd.MarkFlagRequired("device")

	return cmd
}

func newRosterRenameCmd(app *app) *cobra.Command {
	var deviceID string
	var name string

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Change the display name bound to a device address",
		RunE: func(cmd *cobra.Command, _ []string) error {
			identity, err := app.rosterService.Rename(cmd.Context(), deviceID, name)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "renamed %s to %s\n", identity.ID, identity.DisplayName)
			return err
		},
	}

	cmd.Flags().StringVar(&deviceID, "device", "", "Device address (MAC)")
	cmd.Flags().StringVar(&name, "name", "", "New display name")
	_ = cmd.MarkFlagRequired("device")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
