package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapbridge/pkg/core"
)

func newConnectionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "connections",
		Aliases: []string{"conn"},
		Short:   "Manage database connections",
	}

	cmd.AddCommand(newConnectionsListCommand())
	cmd.AddCommand(newConnectionsAddCommand())
	cmd.AddCommand(newConnectionsTestCommand())
	cmd.AddCommand(newConnectionsDeleteCommand())
	cmd.AddCommand(newConnectionsSetDefaultCommand())

	return cmd
}

func newConnectionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered connections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := getApp(cmd.Context())

			records, err := a.svc.ListConnections()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No connections registered.")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Name", "Type", "Target", "Default", "Demo"})
			for _, r := range records {
				t.AppendRow(table.Row{
					r.ID, r.Name, r.Type, describeTarget(r),
					yesNo(r.IsDefault), yesNo(r.IsDemo()),
				})
			}
			t.Render()
			return nil
		},
	}
}

func newConnectionsAddCommand() *cobra.Command {
	var cfg core.ConnectionConfig
	var typeName string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new connection (tested before saving)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := getApp(cmd.Context())
			cfg.Type = core.EngineType(typeName)

			created, err := a.svc.CreateConnection(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connection %q created with id %s\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.Name, "name", "", "connection name")
	cmd.Flags().StringVar(&typeName, "type", "", "engine type (postgresql, mysql, sqlite, ...)")
	cmd.Flags().StringVar(&cfg.Host, "host", "", "database host")
	cmd.Flags().IntVar(&cfg.Port, "port", 0, "database port")
	cmd.Flags().StringVar(&cfg.Database, "database", "", "database name")
	cmd.Flags().StringVar(&cfg.Username, "username", "", "user name")
	cmd.Flags().StringVar(&cfg.Password, "password", "", "password")
	cmd.Flags().StringVar(&cfg.Path, "path", "", "database file path (file-based engines)")
	cmd.Flags().BoolVar(&cfg.SSL, "ssl", false, "require SSL")
	cmd.Flags().BoolVar(&cfg.IsDefault, "default", false, "make this the default connection")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newConnectionsTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test <id>",
		Short: "Probe a registered connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp(cmd.Context())

			record, err := a.svc.GetConnection(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.TestConnection(cmd.Context(), record); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connection %q is reachable\n", record.Name)
			return nil
		},
	}
}

func newConnectionsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp(cmd.Context())

			if err := a.svc.DeleteConnection(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connection %s deleted\n", args[0])
			return nil
		},
	}
}

func newConnectionsSetDefaultCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-default <id>",
		Short: "Make a connection the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp(cmd.Context())

			if err := a.svc.SetDefaultConnection(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connection %s is now the default\n", args[0])
			return nil
		},
	}
}

// describeTarget renders the connection target without credentials.
func describeTarget(r core.ConnectionConfig) string {
	if r.Type.FileBased() {
		return r.Path
	}
	if r.Port > 0 {
		return fmt.Sprintf("%s:%d/%s", r.Host, r.Port, r.Database)
	}
	return fmt.Sprintf("%s/%s", r.Host, r.Database)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
