// Package seed provides the keyword table bundled with the binary.
// It backs the keyword index when no external store is configured.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/takato23/acomerlahechopormi-sub001/internal/domain"
)

//go:embed keywords.json
var embedded []byte

type rawCategory struct {
	ID    string     `json:"id"`
	Tiers [][]string `json:"tiers"`
}

type rawTable struct {
	Version    int               `json:"version"`
	Meta       map[string]string `json:"meta"`
	Categories []rawCategory     `json:"categories"`
}

// Source serves the embedded keyword table
type Source struct {
	version    int
	categories []string
	entries    []domain.KeywordEntry
}

// NewSource parses the embedded table
func NewSource() (*Source, error) {
	return Parse(embedded)
}

// Parse builds a Source from a JSON table in the embedded format.
// The position of a tier in a category is the priority of its keywords.
func Parse(data []byte) (*Source, error) {
	var raw rawTable
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("seed: parse keywords.json: %w", err)
	}
	if len(raw.Categories) == 0 {
		return nil, fmt.Errorf("seed: keyword table has no categories")
	}

	s := &Source{version: raw.Version}
	seen := make(map[string]bool, len(raw.Categories))
	for _, c := range raw.Categories {
		if c.ID == "" {
			return nil, fmt.Errorf("seed: category without id")
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("seed: duplicate category %q", c.ID)
		}
		seen[c.ID] = true
		s.categories = append(s.categories, c.ID)

		for priority, tier := range c.Tiers {
			for _, keyword := range tier {
				s.entries = append(s.entries, domain.KeywordEntry{
					Keyword:    keyword,
					CategoryID: c.ID,
					Priority:   priority,
				})
			}
		}
	}
	return s, nil
}

// FetchAllKeywords returns a copy of the bundled table
func (s *Source) FetchAllKeywords(ctx context.Context) ([]domain.KeywordEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.KeywordEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Version of the bundled table
func (s *Source) Version() int { return s.version }

// Categories lists category ids in table order
func (s *Source) Categories() []string {
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}
