// Package cli provides the command-line interface for LeapBridge.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapbridge/internal/bridge"
	"github.com/leapstack-labs/leapbridge/internal/config"
	"github.com/leapstack-labs/leapbridge/internal/demo"
	"github.com/leapstack-labs/leapbridge/internal/store"

	_ "github.com/leapstack-labs/leapbridge/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/leapbridge/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapbridge/pkg/adapters/sqlite"
)

var cfgFile string

// Version information (set at build time).
var Version = "0.1.0"

// app bundles everything a command needs at run time.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	svc    *bridge.Service
}

// appKey is used to store the app in the command context.
type appKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leapbridge",
		Short: "LeapBridge - database connection and schema management",
		Long: `LeapBridge manages named database connections, discovers their schemas,
and runs queries with read-only enforcement on demo connections.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion", "__complete", "version":
				return nil
			}

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			logger := newLogger(cfg.LogLevel)

			st, err := store.New(store.NewYAMLBackend(cfg.ConnectionsPath()), logger)
			if err != nil {
				return err
			}
			history, err := store.NewHistory(cfg.HistoryPath(), logger)
			if err != nil {
				return err
			}

			demoCfg, err := demo.LoadConfig()
			if err != nil {
				return err
			}

			a := &app{
				cfg:    cfg,
				logger: logger,
				svc:    bridge.New(st, history, demo.New(demoCfg, st, logger), logger),
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a := getApp(cmd.Context()); a != nil {
				a.svc.Close()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./leapbridge.yaml)")

	rootCmd.AddCommand(newConnectionsCommand())
	rootCmd.AddCommand(newQueryCommand())
	rootCmd.AddCommand(newSchemaCommand())
	rootCmd.AddCommand(newDemoCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func getApp(ctx context.Context) *app {
	if a, ok := ctx.Value(appKey{}).(*app); ok {
		return a
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
