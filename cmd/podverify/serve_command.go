package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/anmol3478/podverification/internal/fonts"
	"github.com/anmol3478/podverification/internal/report"
	"github.com/anmol3478/podverification/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string
	var jsonColumn string
	var imageColumn string

	cmd := &cobra.Command{
		Use:   "serve [dataset.csv]",
		Short: "Serve the browser review dashboard",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if value := strings.TrimSpace(bind); value != "" {
				cfg.Server.Bind = value
			}

			path, err := ctx.datasetPath(args)
			if err != nil {
				return err
			}
			logger := ctx.cliLogger(cmd)
			table, err := ctx.openDataset(path, jsonColumn, imageColumn, logger)
			if err != nil {
				return err
			}
			loader, err := ctx.newLoader(logger)
			if err != nil {
				return err
			}
			face := fonts.Load(fonts.Options{
				Paths:  cfg.Render.FontPaths,
				Size:   cfg.Render.FontSize,
				Logger: logger,
			})

			store, err := report.Open(cfg.Reports.Dir)
			if err != nil {
				return fmt.Errorf("open report store: %w", err)
			}
			defer store.Close()

			srv, err := server.New(server.Options{
				Config: cfg,
				Table:  table,
				Loader: loader,
				Face:   face,
				Store:  store,
				Logger: logger,
			})
			if err != nil {
				return err
			}
			if err := srv.Start(signalCtx); err != nil {
				return err
			}
			defer srv.Stop()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Dashboard listening on http://%s (%d rows)\n", srv.Addr(), table.RowCount())
			fmt.Fprintln(out, "Press Ctrl+C to stop")
			<-signalCtx.Done()
			fmt.Fprintln(out, "Shutting down")
			return nil
		},
	}

	cmd.Flags().StringVarP(&bind, "bind", "b", "", "Dashboard listen address (host:port)")
	cmd.Flags().StringVar(&jsonColumn, "json-column", "", "Column carrying the record JSON")
	cmd.Flags().StringVar(&imageColumn, "image-column", "", "Fallback image locator column")
	return cmd
}
