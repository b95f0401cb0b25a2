package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDemoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Manage the read-only demo connection",
	}
	cmd.AddCommand(newDemoInitCommand())
	return cmd
}

func newDemoInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Validate and register the demo connection from the environment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := getApp(cmd.Context())
			out := cmd.OutOrStdout()

			if !a.svc.IsDemoConfigured() {
				fmt.Fprintln(out, "Demo database is not configured (set LEAPBRIDGE_DEMO_* variables).")
				return nil
			}

			created := a.svc.InitializeDemoConnection(cmd.Context())
			if created == nil {
				fmt.Fprintln(out, "Demo database is configured but could not be reached.")
				return nil
			}

			fmt.Fprintf(out, "Demo connection %q ready with id %s\n", created.Name, created.ID)
			return nil
		},
	}
}
