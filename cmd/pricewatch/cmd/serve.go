package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pricewatch/pricewatch/internal/api/handlers"
	"github.com/pricewatch/pricewatch/internal/api/middleware"
	"github.com/pricewatch/pricewatch/internal/config"
	"github.com/pricewatch/pricewatch/internal/engine"
	"github.com/pricewatch/pricewatch/internal/store"
	"github.com/pricewatch/pricewatch/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and monitoring scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	s, err := store.NewPostgresStore(ctx, cfg.Database.DSN(), cfg.Database.PoolSize)
	cancel()
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer s.Close()

	fetcher, err := buildFetcher(cfg)
	if err != nil {
		return err
	}

	notifier, err := buildNotifier(cfg, log)
	if err != nil {
		return err
	}

	eng := engine.NewEngine(s, fetcher, notifier,
		engine.WithLogger(log),
		engine.WithConcurrency(cfg.Schedule.Concurrency),
	)

	sched, err := engine.NewScheduler(
		eng,
		cfg.Schedule.SweepInterval,
		cfg.Schedule.InitialDelay,
		log,
	)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Recovery(log))
	e.Use(middleware.Metrics())

	healthH := handlers.NewHealthHandler(s)
	userH := handlers.NewUserHandler(s)
	productH := handlers.NewProductHandler(s)
	sweepH := handlers.NewSweepHandler(eng)

	e.GET("/healthz", healthH.Healthz)
	e.GET("/readyz", healthH.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")
	v1.POST("/users", userH.Create)
	v1.GET("/users/:id", userH.Get)
	v1.DELETE("/users/:id", userH.Delete)

	v1.GET("/products", productH.List)
	v1.POST("/products", productH.Create)
	v1.GET("/products/:id", productH.Get)
	v1.PUT("/products/:id", productH.Update)
	v1.DELETE("/products/:id", productH.Delete)
	v1.GET("/products/:id/history", productH.History)
	v1.POST("/products/:id/check", sweepH.Check)

	v1.POST("/sweep", sweepH.Sweep)

	sched.Start()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	stopped := sched.Stop()
	select {
	case <-stopped.Done():
	case <-time.After(30 * time.Second):
		log.Warn("sweep still running at shutdown deadline")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}
