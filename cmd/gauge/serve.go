package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jwulff/gauge-go/internal/api"
	"github.com/jwulff/gauge-go/internal/gauge"
)

var serveAddr string

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored panels over HTTP",
	Long: `Serves the panel API: CRUD on panels, reading ingestion, computed
layouts and SVG/PNG renders under /api/v1, plus /health and /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		th, err := currentTheme()
		if err != nil {
			return err
		}
		memo, err := gauge.NewMemo(cfg.Render.Memo, nil)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		srv, err := api.NewServer(api.Options{
			Store:    store,
			Memo:     memo,
			Theme:    th,
			Logger:   logger,
			Registry: reg,
		})
		if err != nil {
			return err
		}

		serverCfg := cfg.Server
		if serveAddr != "" {
			serverCfg.Addr = serveAddr
		}
		logger.Info("starting server",
			zap.String("addr", serverCfg.Addr),
			zap.String("theme", th.Name),
			zap.String("store", cfg.Store.Path))
		return srv.ListenAndServe(cmd.Context(), serverCfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}
