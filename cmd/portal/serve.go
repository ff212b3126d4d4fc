// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kominfo-muaraenim/portal/internal/api"
	"github.com/kominfo-muaraenim/portal/internal/weather"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve starts the HTTP API consumed by the portal frontend. A background
poller keeps the default kecamatan's forecast and air quality warm in the
cache. SIGINT or SIGTERM shuts the server down gracefully.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		a.cfg.Server.Addr = addr
	}
	if err := a.openPrefs(); err != nil {
		return err
	}

	srv := api.NewServer(a.cfg.Server, a.handler())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })

	if warm, _ := cmd.Flags().GetBool("warm-weather"); warm {
		if list := a.locations.List(gctx); len(list) > 0 {
			poller := weather.NewPoller(a.weather, list[0], 0)
			g.Go(func() error {
				poller.Run(gctx)
				return nil
			})
		}
	}

	slog.Info("portal starting", "version", version, "addr", srv.Addr(), "village", a.client.VillageID())
	return g.Wait()
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().Bool("warm-weather", true, "keep the default kecamatan's weather cached")

	rootCmd.AddCommand(serveCmd)
}
