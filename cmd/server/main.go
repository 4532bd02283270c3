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

	"go.uber.org/zap"

	"github.com/takato23/acomerlahechopormi-sub001/config"
	"github.com/takato23/acomerlahechopormi-sub001/internal/app"
	httpDelivery "github.com/takato23/acomerlahechopormi-sub001/internal/delivery/http"
	"github.com/takato23/acomerlahechopormi-sub001/internal/domain"
	"github.com/takato23/acomerlahechopormi-sub001/internal/logger"
	"github.com/takato23/acomerlahechopormi-sub001/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("starting pantry interpreter",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("keyword_source", cfg.Keywords.Source),
		zap.String("cache_type", cfg.Cache.Type))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies. The embedded table needs no snapshot cache.
	var snapshots domain.CacheRepository
	if cfg.Keywords.Source != config.SourceSeed {
		c, closeCache, err := app.NewCache(ctx, cfg, log.Named("cache"))
		if err != nil {
			return err
		}
		defer closeCache()
		snapshots = c
	}

	source, closeSource, err := app.NewKeywordSource(ctx, cfg, snapshots, log.Named("keywords"))
	if err != nil {
		return err
	}
	defer closeSource()

	// Load the keyword index; a failure leaves classification degraded, not the server down
	index := usecase.NewKeywordIndex(source, log.Named("index"))
	loadCtx, cancel := context.WithTimeout(ctx, loadTimeout(cfg))
	if err := index.Load(loadCtx); err != nil {
		log.Warn("keyword index not loaded, classification disabled until POST /api/v1/keywords/reload", zap.Error(err))
	}
	cancel()

	// Initialize usecase layer
	pantryService := usecase.NewPantryService(index, log.Named("pantry"))

	handler := httpDelivery.NewHandler(pantryService, log.Named("http"))
	router := httpDelivery.SetupRouter(cfg, handler, log.Named("http"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}

func loadTimeout(cfg *config.Config) time.Duration {
	if cfg.Keywords.LoadTimeout > 0 {
		return cfg.Keywords.LoadTimeout
	}
	return 10 * time.Second
}
