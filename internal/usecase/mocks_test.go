package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/takato23/acomerlahechopormi-sub001/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	mu        sync.Mutex
	data      map[string][]byte
	getError  error
	setError  error
	getCalled bool
	setCalled bool
	lastTTL   time.Duration
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]byte),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalled = true
	m.lastTTL = ttl
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

// MockKeywordSource is a mock implementation of domain.KeywordSource
type MockKeywordSource struct {
	mu      sync.Mutex
	entries []domain.KeywordEntry
	err     error
	delay   time.Duration
	calls   atomic.Int32
}

func NewMockKeywordSource(entries ...domain.KeywordEntry) *MockKeywordSource {
	return &MockKeywordSource{entries: entries}
}

func (m *MockKeywordSource) FetchAllKeywords(ctx context.Context) ([]domain.KeywordEntry, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.KeywordEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *MockKeywordSource) setEntries(entries ...domain.KeywordEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = entries
}

func (m *MockKeywordSource) setError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func kw(keyword, category string, priority int) domain.KeywordEntry {
	return domain.KeywordEntry{Keyword: keyword, CategoryID: category, Priority: priority}
}

// loadedIndex returns an index already populated with entries
func loadedIndex(entries ...domain.KeywordEntry) *KeywordIndex {
	idx := NewKeywordIndex(NewMockKeywordSource(entries...), nil)
	if err := idx.Load(context.Background()); err != nil {
		panic(err)
	}
	return idx
}
