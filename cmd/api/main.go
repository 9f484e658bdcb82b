package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"screening/internal/api"
	"screening/internal/config"
	apperrors "screening/internal/errors"
	"screening/internal/features"
	"screening/internal/predict"
	"screening/pkg/utils"
)

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:           "api",
		Short:         "Serve screening predictions over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML or TOML config file")
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "api:", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := utils.Logger()
	defer func() { _ = logger.Sync() }()
	gin.SetMode(cfg.Server.Mode)

	schema, err := features.Lookup(cfg.Model.Schema)
	if err != nil {
		return err
	}

	var opts []api.Option
	p, err := predict.Open(cfg.Model.Path, schema, predict.WithCopy(cfg.Copy))
	switch {
	case err == nil:
		a := p.Artifact()
		logger.Info("model loaded",
			zap.String("path", cfg.Model.Path),
			zap.String("algorithm", a.Algorithm),
			zap.Time("trained_at", a.TrainedAt),
		)
		opts = append(opts, api.WithScorer(p))
	case apperrors.Is(err, apperrors.CategoryModelUnavailable):
		logger.Warn("no model loaded; predictions answer 503 until POST /train", zap.String("path", cfg.Model.Path), zap.Error(err))
	default:
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           api.NewServer(cfg, schema, logger, opts...).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("schema", schema.Ref().String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
