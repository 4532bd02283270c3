package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/takato23/acomerlahechopormi-sub001/internal/domain"
)

// DefaultSnapshotKey is the cache key the last good keyword table is stored under
const DefaultSnapshotKey = "keywords:snapshot"

// SnapshotSourceConfig holds configuration for the snapshot source
type SnapshotSourceConfig struct {
	Key string
	TTL time.Duration
}

// SnapshotSource wraps a keyword source. Every successful fetch is written to
// the cache; when the upstream fails the last snapshot is served instead.
type SnapshotSource struct {
	upstream domain.KeywordSource
	cache    domain.CacheRepository
	key      string
	ttl      time.Duration
	logger   *zap.Logger
}

// NewSnapshotSource creates a snapshot source with dependencies
func NewSnapshotSource(
	upstream domain.KeywordSource,
	cache domain.CacheRepository,
	config SnapshotSourceConfig,
	logger *zap.Logger,
) *SnapshotSource {
	key := config.Key
	if key == "" {
		key = DefaultSnapshotKey
	}

	ttl := config.TTL
	if ttl == 0 {
		ttl = 720 * time.Hour // Default 30 days
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &SnapshotSource{
		upstream: upstream,
		cache:    cache,
		key:      key,
		ttl:      ttl,
		logger:   logger,
	}
}

// FetchAllKeywords returns the upstream table, or the cached snapshot if the upstream is down
func (s *SnapshotSource) FetchAllKeywords(ctx context.Context) ([]domain.KeywordEntry, error) {
	entries, err := s.upstream.FetchAllKeywords(ctx)
	if err == nil {
		if cacheErr := s.store(ctx, entries); cacheErr != nil {
			// A missing snapshot only matters on the next upstream outage
			s.logger.Warn("failed to store keyword snapshot", zap.Error(cacheErr))
		}
		return entries, nil
	}

	s.logger.Warn("keyword upstream failed, trying snapshot", zap.Error(err))

	cached, cacheErr := s.restore(ctx)
	if cacheErr != nil {
		return nil, fmt.Errorf("%w: %v (snapshot: %v)", domain.ErrKeywordSourceUnavailable, err, cacheErr)
	}

	s.logger.Info("serving keywords from snapshot", zap.Int("entries", len(cached)))
	return cached, nil
}

func (s *SnapshotSource) store(ctx context.Context, entries []domain.KeywordEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.key, data, s.ttl)
}

func (s *SnapshotSource) restore(ctx context.Context) ([]domain.KeywordEntry, error) {
	data, err := s.cache.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}

	var entries []domain.KeywordEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return entries, nil
}
