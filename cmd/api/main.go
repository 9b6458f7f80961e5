package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/mediconsult-api/internal/app"
	"github.com/jwalitptl/mediconsult-api/internal/config"
	"github.com/jwalitptl/mediconsult-api/internal/email"
	"github.com/jwalitptl/mediconsult-api/internal/generation"
	"github.com/jwalitptl/mediconsult-api/internal/middleware"
	"github.com/jwalitptl/mediconsult-api/internal/repository/kv"
	"github.com/jwalitptl/mediconsult-api/internal/router"
	"github.com/jwalitptl/mediconsult-api/internal/store"
	"github.com/jwalitptl/mediconsult-api/internal/worker"
	"github.com/jwalitptl/mediconsult-api/pkg/logger"
	"github.com/jwalitptl/mediconsult-api/pkg/metrics"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "mediconsult",
		Short:         "MediConsult patient consultation API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yml")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(migrateCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	logger.Setup(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg, nil
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Rewrite every stored value at the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			s, err := openStore(ctx, cfg.Store, logger.Component("store"))
			if err != nil {
				return err
			}
			defer s.Close()

			codec := store.NewCodec(s, cfg.Store.Prefix, kv.Schema(), logger.Component("store"))
			n, err := codec.Upgrade(ctx)
			if err != nil {
				return fmt.Errorf("migration failed after %d values: %w", n, err)
			}
			log.Info().Int("upgraded", n).Str("backend", cfg.Store.Backend).Msg("migration complete")
			return nil
		},
	}
}

func runServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(cfg.Monitoring.Namespace, registry)

	s, err := openStore(ctx, cfg.Store, logger.Component("store"))
	if err != nil {
		return err
	}
	defer s.Close()

	generator, err := newGenerator(ctx, cfg.Generation, m)
	if err != nil {
		return err
	}

	var mailer email.Service
	if cfg.Email.Enabled {
		mailer = email.NewSMTPService(email.Config{
			Host:         cfg.Email.Host,
			Port:         cfg.Email.Port,
			Username:     cfg.Email.Username,
			Password:     cfg.Email.Password,
			From:         cfg.Email.From,
			AdminAddress: cfg.Email.AdminAddress,
		}, m)
	}

	routerConfig := router.RouterConfig{
		CORSConfig: middleware.CORSConfig{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		},
		SizeLimit: middleware.SizeLimitConfig{
			MaxBodySize:   cfg.Server.MaxBodyMB << 20,
			MaxHeaderSize: cfg.Server.MaxHeaderBytes,
		},
		RequestTimeout: cfg.Server.RequestTimeout,
		MetricsPrefix:  cfg.Monitoring.Namespace + "_http",
		Registerer:     registry,
	}
	if cfg.RateLimit.Enabled {
		routerConfig.RateLimit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
		routerConfig.RateBurst = cfg.RateLimit.Burst
	}

	var gatherer prometheus.Gatherer = registry
	if !cfg.Monitoring.PrometheusEnabled {
		gatherer = prometheus.NewRegistry()
	}

	application, err := app.New(ctx, app.Options{
		Store:      s,
		Prefix:     cfg.Store.Prefix,
		Generator:  generator,
		Mailer:     mailer,
		JWTSecret:  cfg.JWT.Secret,
		TokenTTL:   cfg.TokenTTL(),
		BcryptCost: cfg.JWT.BcryptCost,
		Router:     routerConfig,
		Metrics:    m,
		Gatherer:   gatherer,
		Logger:     logger.Component("store"),
	})
	if err != nil {
		return err
	}
	defer application.Close()

	if cfg.JWT.CleanupInterval > 0 {
		go worker.NewSessionCleanupWorker(application.Repos.Sessions, cfg.JWT.CleanupInterval).Start(ctx)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      application.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("store", cfg.Store.Backend).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited properly")
	return nil
}

func newGenerator(ctx context.Context, cfg config.GenerationConfig, m *metrics.Metrics) (generation.Generator, error) {
	if cfg.Provider == "static" {
		log.Warn().Msg("using the static generator; prescriptions are canned")
		return generation.NewStatic(), nil
	}

	gc := generation.Config{
		APIKey:            cfg.APIKey,
		PrescriptionModel: cfg.PrescriptionModel,
		SearchModel:       cfg.SearchModel,
		Timeout:           cfg.Timeout,
		BreakerFailures:   cfg.BreakerFailures,
		BreakerTimeout:    cfg.BreakerTimeout,
	}
	client, err := generation.NewGeminiClient(ctx, gc)
	if err != nil {
		return nil, err
	}
	return generation.NewGemini(client.Models, gc, m, logger.Component("generation")), nil
}
