// Package postgres reads the keyword table from a Postgres database
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/takato23/acomerlahechopormi-sub001/internal/domain"
)

const selectKeywordsQuery = `SELECT keyword, category_id, priority FROM ingredient_keywords ORDER BY priority, keyword`

// Open creates a connection pool for dsn. No connection is made until first use.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

// KeywordRepository serves keywords from the ingredient_keywords table
type KeywordRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewKeywordRepository creates a repository over db
func NewKeywordRepository(db *sql.DB, logger *zap.Logger) *KeywordRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeywordRepository{db: db, logger: logger}
}

// Ping checks the database is reachable
func (r *KeywordRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping postgres: %v", domain.ErrKeywordSourceUnavailable, err)
	}
	return nil
}

// FetchAllKeywords reads the whole table. Rows with a NULL priority get 0.
func (r *KeywordRepository) FetchAllKeywords(ctx context.Context) ([]domain.KeywordEntry, error) {
	rows, err := r.db.QueryContext(ctx, selectKeywordsQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: query keywords: %v", domain.ErrKeywordSourceUnavailable, err)
	}
	defer rows.Close()

	var entries []domain.KeywordEntry
	for rows.Next() {
		var (
			e        domain.KeywordEntry
			priority sql.NullInt64
		)
		if err := rows.Scan(&e.Keyword, &e.CategoryID, &priority); err != nil {
			return nil, fmt.Errorf("%w: scan keyword: %v", domain.ErrKeywordSourceUnavailable, err)
		}
		if priority.Valid {
			e.Priority = int(priority.Int64)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate keywords: %v", domain.ErrKeywordSourceUnavailable, err)
	}

	r.logger.Debug("fetched keywords from postgres", zap.Int("entries", len(entries)))
	return entries, nil
}

// Close releases the connection pool
func (r *KeywordRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
