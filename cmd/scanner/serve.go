package main

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/trendwise/options-scanner/internal/scan"
	"github.com/trendwise/options-scanner/internal/server"
)

func serveCmd() *cobra.Command {
	var skipInitial bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the latest scan results over HTTP",
		Long: `Start an HTTP server exposing the latest scan snapshot.

Endpoints:
  GET  /healthz                  liveness check
  GET  /api/v1/signals           latest scan snapshot
  GET  /api/v1/signals/{ticker}  latest signal for one ticker
  POST /api/v1/scan              run a scan and store the result`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			scanner := buildScanner(cfg, logger)
			universe := cfg.ScanTickers()

			store := server.NewStore()
			runner := server.RunnerFunc(func(ctx context.Context) (*scan.BatchResult, error) {
				return scanner.Execute(ctx, universe)
			})

			if !skipInitial {
				result, err := runner.Run(ctx)
				if err != nil {
					return err
				}
				store.Set(result)
			}

			srv := server.NewServer(store, runner, logger)
			router := server.NewRouter(srv, logger)

			httpServer := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      router,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 2 * time.Minute,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting server", zap.String("addr", httpServer.Addr))
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("server shutdown error", zap.Error(err))
				return err
			}

			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipInitial, "skip-initial-scan", false, "do not run a scan before serving")

	return cmd
}
