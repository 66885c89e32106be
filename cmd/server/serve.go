package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/damacus/iron-presign/internal/config"
	"github.com/damacus/iron-presign/internal/handlers"
	"github.com/damacus/iron-presign/internal/logger"
	"github.com/damacus/iron-presign/internal/metrics"
	customMiddleware "github.com/damacus/iron-presign/internal/middleware"
	"github.com/damacus/iron-presign/internal/services"
	"github.com/damacus/iron-presign/internal/utils"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Error().Err(err).Msg("configuration rejected")
		return err
	}
	logger.SetLevel(cfg.Log.Level)
	log := logger.Get()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg.Store)
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.Store.Backend).Msg("failed to build object store client")
		return err
	}

	var gatherer prometheus.Gatherer
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(reg)
		gatherer = reg
	}

	auth := services.NewAuthService(cfg.Auth.Tokens)
	if !auth.Enabled() {
		log.Warn().Msg("API_TOKENS not set, presign endpoints are open to any caller")
	}

	e := newServer(newPresignService(cfg, store, m), gatherer, auth)

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Addr()).
			Str("backend", cfg.Store.Backend).
			Str("bucket", cfg.Store.Bucket).
			Str("link_ttl", utils.FormatTTL(cfg.Link.TTL)).
			Msg("starting server")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// newServer builds the echo instance. /metrics is only mounted when gatherer is non-nil.
func newServer(presigner handlers.Presigner, gatherer prometheus.Gatherer, auth *services.AuthService) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	presignHandler := handlers.NewPresignHandler(presigner)

	// Middleware
	e.Use(middleware.Recover())
	e.Use(customMiddleware.RequestID())
	e.Use(customMiddleware.RequestLogger())
	e.Use(customMiddleware.SecurityHeaders())
	e.Use(customMiddleware.AuthMiddleware(auth))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	e.GET("/presigned", presignHandler.GetPresigned)
	e.GET("/api/get-presigned", presignHandler.GetPresigned)

	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return e
}
