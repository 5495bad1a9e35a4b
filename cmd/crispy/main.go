// Command crispy runs the restaurant order tracking and staff operations
// services.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	api "crispy/internal/api/http"
	"crispy/internal/notsub"
	"crispy/internal/xpkg/config"
	"crispy/internal/xpkg/db"
	"crispy/internal/xpkg/logger"

	"github.com/spf13/cobra"
)

const appName = "crispy"

var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globals struct {
	configPath string
	logLevel   string
}

// load reads the config and builds the logger. An explicit --log-level wins
// over the config file.
func (g *globals) load() (*config.Config, logger.Logger, error) {
	cfg, err := config.LoadConfig(g.configPath)
	if err != nil {
		return nil, nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	mylog, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, mylog.With("service", appName), nil
}

func rootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Restaurant order tracking and staff operations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "config.yaml", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(serveCmd(g), notifyCmd(g), migrateCmd(g), versionCmd())
	return cmd
}

func serveCmd(g *globals) *cobra.Command {
	var (
		port   int
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the checkout, tracking and manager HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, mylog, err := g.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.HTTP.Port = port
			}
			if cmd.Flags().Changed("strict-transitions") {
				cfg.Tracking.StrictTransitions = strict
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return api.Execute(cmd.Context(), mylog.With("mode", "serve"), cfg)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "HTTP port")
	cmd.Flags().BoolVar(&strict, "strict-transitions", false, "Reject jumps between non-adjacent order statuses")
	return cmd
}

func notifyCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "notification-subscriber",
		Short: "Consume order status changes and notify customers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, mylog, err := g.load()
			if err != nil {
				return err
			}
			return notsub.Execute(cmd.Context(), mylog.With("mode", "notification-subscriber"), cfg, os.Stdout)
		},
	}
}

func migrateCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, mylog, err := g.load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			database, err := db.Start(ctx, cfg.DB, mylog)
			if err != nil {
				return err
			}
			defer database.Close()
			return database.Migrate(ctx)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}
