package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/phonebill-converter/internal/api"
	"github.com/insightdelivered/phonebill-converter/internal/config"
	"github.com/insightdelivered/phonebill-converter/internal/converter"
	"github.com/insightdelivered/phonebill-converter/internal/metrics"
	"github.com/insightdelivered/phonebill-converter/internal/report"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the conversion HTTP server",
		Long: `Start the HTTP server.

The server provides:
  - GET  /api/health  - health check
  - POST /api/convert - multipart upload (field "file", optional "report" and "trace")
  - GET  /metrics     - Prometheus metrics

Examples:
  phonebill-converter serve
  phonebill-converter serve --listen 127.0.0.1:3000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(config.Options{ConfigFile: cfgFile, Flags: cmd.Flags()})
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.Debug)

			if _, err := report.New(cfg.Report); err != nil {
				return err
			}

			db, err := openStore(cfg.DB)
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
			}

			m := metrics.New()
			app := api.NewApp(&api.Handler{
				Converter: converter.New(converter.Options{Config: cfg, Logger: logger, Metrics: m, Store: db}),
				Metrics:   m,
				Report:    cfg.Report,
				Version:   version,
				Logger:    logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				logger.Info("shutting down")
				_ = app.Shutdown()
			}()

			logger.Info("server listening", "addr", cfg.Listen, "report", cfg.Report)
			return app.Listen(cfg.Listen)
		},
	}

	cmd.Flags().String("listen", config.Default().Listen, "address to listen on")
	cmd.Flags().String("report", config.Default().Report, "default report type for uploads without one")
	return cmd
}
