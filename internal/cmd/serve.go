package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/heypico/waypoint/internal/core/admission"
	"github.com/heypico/waypoint/internal/core/quota"
	"github.com/heypico/waypoint/internal/llm"
	"github.com/heypico/waypoint/internal/llm/ollama"
	"github.com/heypico/waypoint/internal/maps"
	"github.com/heypico/waypoint/internal/observability"
	"github.com/heypico/waypoint/internal/server"
	"github.com/heypico/waypoint/internal/server/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server with graceful shutdown support.

Ctrl+C (SIGINT) or SIGTERM drains in-flight requests before exit.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "bind address (overrides config)")
	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	observability.InitServerLogger("waypoint", cfg.Logging.Level)
	logger := observability.ServerLogger

	logger.Info("initializing server",
		zap.String("version", versionInfo.Version),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("model", cfg.LLM.Model),
		zap.String("ollama_url", cfg.LLM.BaseURL),
		zap.String("maps_key", observability.MaskKey(cfg.Maps.APIKey)),
		zap.Int("rate_limit_requests", cfg.RateLimit.Requests),
		zap.Duration("rate_limit_window", cfg.RateLimit.Window))

	if cfg.Maps.APIKey == "" {
		logger.Warn("maps api key not configured, place lookups will fail")
	}

	ctrl := admission.New(cfg.RateLimit.Requests, cfg.RateLimit.Window,
		admission.WithRetention(cfg.RateLimit.Retention))

	tracker := quota.New(cfg.Quota.Limits, cfg.Quota.Period,
		quota.WithDefaultLimit(cfg.Quota.DefaultLimit))

	driver := ollama.NewClient(cfg.LLM.BaseURL, cfg.LLM.Model)
	driver.Timeout = cfg.LLM.Timeout

	llmSvc := llm.NewService(driver, cfg.LLM.Model)
	llmSvc.Temperature = cfg.LLM.Temperature
	llmSvc.MaxTokens = cfg.LLM.MaxTokens
	llmSvc.Logger = logger

	lat, lng := cfg.DefaultCoords()
	mapsClient := maps.NewClient(maps.Options{
		BaseURL:       cfg.Maps.BaseURL,
		APIKey:        cfg.Maps.APIKey,
		FrontendKey:   cfg.Maps.FrontendKey,
		Quota:         tracker,
		Logger:        logger,
		DefaultRadius: cfg.Search.DefaultRadius,
		MaxResults:    cfg.Search.MaxResults,
		DefaultCenter: maps.Coordinates{Lat: lat, Lng: lng},
		DefaultZoom:   cfg.Search.DefaultZoom,
		CacheTTL:      cfg.Cache.TTL,
		CacheEnable:   cfg.Cache.Enabled,
	})

	handlers.SetVersionInfo(versionInfo.Version, versionInfo.Commit, versionInfo.BuildDate)

	srv := server.New(server.Deps{
		Config:    cfg,
		Admission: ctrl,
		LLM:       llmSvc,
		Maps:      mapsClient,
		Logger:    logger,
		Version:   versionInfo.Version,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("server failed", zap.Error(err))
		return err
	case <-ctx.Done():
	}

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
		return err
	}

	logger.Info("server stopped")
	_ = logger.Sync()
	return nil
}
