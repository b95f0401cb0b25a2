package cli

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <connection-id>",
		Short: "Discover and print a connection's schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp(cmd.Context())

			snap, err := a.svc.DiscoverSchema(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			names := make([]string, 0, len(snap.Tables))
			for name := range snap.Tables {
				names = append(names, name)
			}
			sort.Strings(names)

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.AppendHeader(table.Row{"Table", "Columns", "Primary Key", "Foreign Keys", "Indexes", "Rows"})
			for _, name := range names {
				ts := snap.Tables[name]
				t.AppendRow(table.Row{
					name, len(ts.Columns), joinKeys(ts.PrimaryKeys),
					len(ts.ForeignKeys), len(ts.Indexes), ts.RowCount,
				})
			}
			t.Render()

			if len(snap.Views) > 0 {
				fmt.Fprintf(out, "\nViews (%d):\n", len(snap.Views))
				for _, v := range snap.Views {
					fmt.Fprintf(out, "  %s\n", v.Name)
				}
			}
			if len(snap.Relationships) > 0 {
				fmt.Fprintf(out, "\nRelationships (%d):\n", len(snap.Relationships))
				for _, rel := range snap.Relationships {
					fmt.Fprintf(out, "  %s.%s -> %s.%s\n",
						rel.Table, rel.Column, rel.ReferencedTable, rel.ReferencedColumn)
				}
			}
			for _, w := range snap.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			return nil
		},
	}
}

func joinKeys(keys []string) string {
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += k
	}
	return out
}
