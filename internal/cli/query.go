package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapbridge/pkg/core"
)

func newQueryCommand() *cobra.Command {
	var sqlText string

	cmd := &cobra.Command{
		Use:   "query [connection-id]",
		Short: "Run a SQL statement on a connection",
		Long: `Run a SQL statement on the named connection, or on the default
connection when no id is given. Statements on demo connections are
restricted to reads.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp(cmd.Context())

			id, err := resolveConnectionID(cmd.Context(), a, args)
			if err != nil {
				return err
			}

			result, err := a.svc.ExecuteQueryWithValidation(cmd.Context(), id, sqlText)
			if err != nil {
				return err
			}

			renderResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&sqlText, "sql", "", "SQL statement to run")
	_ = cmd.MarkFlagRequired("sql")

	return cmd
}

// resolveConnectionID picks the explicit argument or falls back to the
// default connection.
func resolveConnectionID(ctx context.Context, a *app, args []string) (string, error) {
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	def, err := a.svc.GetDefaultConnection(ctx)
	if err != nil {
		return "", err
	}
	if def == nil {
		return "", fmt.Errorf("no connection id given and no usable default connection")
	}
	return def.ID, nil
}

func renderResult(cmd *cobra.Command, result *core.QueryResult) {
	out := cmd.OutOrStdout()

	if len(result.Columns) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(out)

		header := make(table.Row, len(result.Columns))
		for i, c := range result.Columns {
			header[i] = c
		}
		t.AppendHeader(header)

		for _, row := range result.Rows {
			r := make(table.Row, len(result.Columns))
			for i, c := range result.Columns {
				r[i] = row[c]
			}
			t.AppendRow(r)
		}
		t.Render()
	}

	fmt.Fprintf(out, "%d row(s) in %s\n", result.RowCount, result.Duration.Round(time.Millisecond))
}
