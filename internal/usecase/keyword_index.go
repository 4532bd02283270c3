package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/takato23/acomerlahechopormi-sub001/internal/domain"
	"github.com/takato23/acomerlahechopormi-sub001/internal/metrics"
)

const loadFlightKey = "keywords"

// keywordSnapshot is an immutable view of the index. A new snapshot is built
// off to the side and swapped in whole, so readers never see partial state.
type keywordSnapshot struct {
	byKeyword map[string][]domain.KeywordEntry
	entries   int
	loadedAt  time.Time
}

func (s *keywordSnapshot) lookup(keyword string) []domain.KeywordEntry {
	if s == nil {
		return nil
	}
	return s.byKeyword[keyword]
}

// KeywordIndex holds the keyword -> category table used by the classifier
type KeywordIndex struct {
	source   domain.KeywordSource
	snapshot atomic.Pointer[keywordSnapshot]
	group    singleflight.Group
	logger   *zap.Logger
}

// NewKeywordIndex creates an empty index backed by source
func NewKeywordIndex(source domain.KeywordSource, logger *zap.Logger) *KeywordIndex {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeywordIndex{
		source: source,
		logger: logger,
	}
}

// Load populates the index once. Calls after a successful load are no-ops;
// concurrent calls share the one in-flight fetch.
func (i *KeywordIndex) Load(ctx context.Context) error {
	if i.Loaded() {
		return nil
	}
	return i.load(ctx, false)
}

// Reload fetches the table again and replaces every entry.
// On failure the previous snapshot stays in place.
func (i *KeywordIndex) Reload(ctx context.Context) error {
	return i.load(ctx, true)
}

// Loaded reports whether a snapshot has been installed
func (i *KeywordIndex) Loaded() bool {
	return i.snapshot.Load() != nil
}

// Status summarizes the current snapshot
func (i *KeywordIndex) Status() domain.IndexStatus {
	snap := i.snapshot.Load()
	if snap == nil {
		return domain.IndexStatus{}
	}
	return domain.IndexStatus{
		Loaded:   true,
		Keywords: len(snap.byKeyword),
		Entries:  snap.entries,
		LoadedAt: snap.loadedAt,
	}
}

// current returns the snapshot readers should use; nil before the first load
func (i *KeywordIndex) current() *keywordSnapshot {
	return i.snapshot.Load()
}

func (i *KeywordIndex) load(ctx context.Context, force bool) error {
	if i.source == nil {
		return fmt.Errorf("%w: no keyword source configured", domain.ErrKeywordSourceUnavailable)
	}

	_, err, shared := i.group.Do(loadFlightKey, func() (interface{}, error) {
		if !force && i.Loaded() {
			return nil, nil
		}

		start := time.Now()
		entries, err := i.source.FetchAllKeywords(ctx)
		metrics.KeywordIndexLoadDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.KeywordIndexLoads.WithLabelValues("failure").Inc()
			i.logger.Warn("keyword index load failed", zap.Bool("reload", force), zap.Error(err))
			if errors.Is(err, domain.ErrKeywordSourceUnavailable) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrKeywordSourceUnavailable, err)
		}

		snap := i.buildSnapshot(entries)
		i.snapshot.Store(snap)

		metrics.KeywordIndexLoads.WithLabelValues("success").Inc()
		metrics.KeywordIndexEntries.Set(float64(snap.entries))
		i.logger.Info("keyword index loaded",
			zap.Int("keywords", len(snap.byKeyword)),
			zap.Int("entries", snap.entries),
			zap.Duration("took", time.Since(start)))
		return nil, nil
	})

	if shared {
		i.logger.Debug("keyword index load shared with in-flight caller")
	}
	return err
}

// buildSnapshot normalizes keywords and drops duplicates and invalid rows.
// Entries under one keyword are ordered by priority, then category.
func (i *KeywordIndex) buildSnapshot(entries []domain.KeywordEntry) *keywordSnapshot {
	type entryKey struct {
		keyword  string
		category string
		priority int
	}

	byKeyword := make(map[string][]domain.KeywordEntry, len(entries))
	seen := make(map[entryKey]bool, len(entries))
	count := 0

	for _, e := range entries {
		keyword := NormalizeKeyword(e.Keyword)
		if keyword == "" || e.CategoryID == "" {
			continue
		}
		if e.Priority < 0 {
			i.logger.Warn("skipping keyword with negative priority",
				zap.String("keyword", e.Keyword),
				zap.String("category", e.CategoryID),
				zap.Int("priority", e.Priority))
			continue
		}

		k := entryKey{keyword: keyword, category: e.CategoryID, priority: e.Priority}
		if seen[k] {
			continue
		}
		seen[k] = true

		byKeyword[keyword] = append(byKeyword[keyword], domain.KeywordEntry{
			Keyword:    keyword,
			CategoryID: e.CategoryID,
			Priority:   e.Priority,
		})
		count++
	}

	for _, list := range byKeyword {
		sort.Slice(list, func(a, b int) bool {
			if list[a].Priority != list[b].Priority {
				return list[a].Priority < list[b].Priority
			}
			return list[a].CategoryID < list[b].CategoryID
		})
	}

	return &keywordSnapshot{
		byKeyword: byKeyword,
		entries:   count,
		loadedAt:  time.Now(),
	}
}
