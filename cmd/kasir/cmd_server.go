package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/kasir/config"
	"github.com/shashiranjanraj/kasir/internal/kernel"
	"github.com/shashiranjanraj/kasir/internal/server"
	"github.com/shashiranjanraj/kasir/pkg/cache"
	"github.com/shashiranjanraj/kasir/pkg/logger"
	"github.com/shashiranjanraj/kasir/pkg/storage"
)

// kasir serve: boot everything and listen on APP_PORT.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closeLog, err := boot()
		if err != nil {
			return err
		}
		defer closeLog()

		app, err := kernel.Boot(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := app.Close(); err != nil {
				logger.Error("shutdown", "error", err)
			}
		}()

		app.Background(cmd.Context())
		return server.Start(cmd.Context(), cfg, app.Handler())
	},
}

// kasir route:list: print the route table.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		disks, err := storage.NewManager(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		app := kernel.New(cfg, nil, cache.Noop{}, disks)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, r := range app.Router().Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Method, r.Path, r.Name)
		}
		return w.Flush()
	},
}

// boot loads the configuration and installs the logger.
func boot() (*config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	closeLog, err := logger.Setup(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, closeLog, nil
}
