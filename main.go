package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pivolan/readiness_analyzer/config"
	"github.com/pivolan/readiness_analyzer/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.GetConfig()
	logger := logging.New(cfg.IsProduction(), cfg.LogLevel)
	defer logger.Sync()

	metrics := NewMetrics()
	service := NewService(logger, metrics, cfg.PreviewRows)

	root := &cobra.Command{
		Use:           "readiness_analyzer",
		Short:         "Checks whether a tabular dataset is ready for modelling and cleans it",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCommand(cfg, service, logger, metrics),
		newSummarizeCommand(service),
		newProcessCommand(service),
		newExportCodeCommand(service),
		newVisualizeCommand(service),
	)

	if err := root.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func newServeCommand(cfg *config.Config, service *Service, logger *zap.Logger, metrics *Metrics) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and, when TG_TOKEN is set, the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, service, logger, metrics)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, service *Service, logger *zap.Logger, metrics *Metrics) error {
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(service, logger.Named("http"), metrics, cfg.MaxUploadBytes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listen", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "error starting server")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.TgToken != "" {
		g.Go(func() error {
			return runTelegramBot(ctx, cfg.TgToken, service, logger.Named("telegram"), cfg.SessionTTL, cfg.MaxUploadBytes())
		})
	} else {
		logger.Info("TG_TOKEN is empty, telegram bot disabled")
	}

	return g.Wait()
}
