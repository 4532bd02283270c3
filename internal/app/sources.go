// Package app wires configuration to concrete keyword sources and caches
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/takato23/acomerlahechopormi-sub001/config"
	"github.com/takato23/acomerlahechopormi-sub001/internal/domain"
	"github.com/takato23/acomerlahechopormi-sub001/internal/infrastructure/cache"
	"github.com/takato23/acomerlahechopormi-sub001/internal/infrastructure/postgres"
	"github.com/takato23/acomerlahechopormi-sub001/internal/infrastructure/remote"
	"github.com/takato23/acomerlahechopormi-sub001/internal/infrastructure/seed"
	"github.com/takato23/acomerlahechopormi-sub001/internal/usecase"
)

// Closer releases whatever a builder opened
type Closer func()

func noopCloser() {}

// NewCache builds the snapshot cache selected by cfg.Cache.Type
func NewCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domain.CacheRepository, Closer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Cache.Type {
	case "", "memory":
		c := cache.NewMemoryCache()
		return c, func() { _ = c.Close() }, nil
	case "redis":
		c, err := cache.NewRedisCache(cfg.Cache.RedisURL)
		if err != nil {
			return nil, noopCloser, err
		}
		if err := c.Ping(ctx); err != nil {
			// Redis being down only costs the offline fallback
			logger.Warn("redis not reachable, keyword snapshots will fail until it is", zap.Error(err))
		}
		return c, func() { _ = c.Close() }, nil
	default:
		return nil, noopCloser, fmt.Errorf("unknown cache type %q", cfg.Cache.Type)
	}
}

// NewKeywordSource builds the keyword source selected by cfg.Keywords.Source.
// External sources are wrapped in a SnapshotSource over snapshots so a later
// outage can be served from the last good table.
func NewKeywordSource(
	ctx context.Context,
	cfg *config.Config,
	snapshots domain.CacheRepository,
	logger *zap.Logger,
) (domain.KeywordSource, Closer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		upstream domain.KeywordSource
		closer   Closer = noopCloser
	)

	switch cfg.Keywords.Source {
	case "", config.SourceSeed:
		s, err := seed.NewSource()
		if err != nil {
			return nil, noopCloser, err
		}
		logger.Info("using embedded keyword table", zap.Int("version", s.Version()))
		return s, noopCloser, nil

	case config.SourceHTTP:
		client := remote.NewClient(cfg.Keywords.APIKey, cfg.Keywords.BaseURL, cfg.Keywords.RequestsPerHour, logger.Named("remote"))
		if cfg.Server.Environment == "development" {
			client.SetDebug(true)
		}
		logger.Info("using keyword service", zap.String("base_url", cfg.Keywords.BaseURL))
		upstream = client

	case config.SourcePostgres:
		db, err := postgres.Open(cfg.Keywords.DatabaseURL)
		if err != nil {
			return nil, noopCloser, err
		}
		repo := postgres.NewKeywordRepository(db, logger.Named("postgres"))
		if err := repo.Ping(ctx); err != nil {
			logger.Warn("postgres not reachable yet", zap.Error(err))
		}
		logger.Info("using postgres keyword table")
		upstream = repo
		closer = func() { _ = repo.Close() }

	default:
		return nil, noopCloser, fmt.Errorf("unknown keyword source %q", cfg.Keywords.Source)
	}

	if snapshots == nil {
		return upstream, closer, nil
	}

	return usecase.NewSnapshotSource(upstream, snapshots, usecase.SnapshotSourceConfig{
		TTL: cfg.Cache.TTL,
	}, logger.Named("snapshot")), closer, nil
}
