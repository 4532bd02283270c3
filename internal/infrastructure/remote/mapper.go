package remote

import (
	"strings"

	"github.com/takato23/acomerlahechopormi-sub001/internal/domain"
)

// keywordDTO is one row as served by the keyword service
type keywordDTO struct {
	Keyword    string `json:"keyword"`
	CategoryID string `json:"category_id"`
	Priority   *int   `json:"priority"`
}

// keywordPage is the /v1/keywords response body
type keywordPage struct {
	Keywords []keywordDTO `json:"keywords"`
	Total    int          `json:"total,omitempty"`
}

// MapToKeywordEntries converts service rows to domain entries.
// Rows without a keyword or category are dropped; a missing priority is 0.
func MapToKeywordEntries(rows []keywordDTO) []domain.KeywordEntry {
	entries := make([]domain.KeywordEntry, 0, len(rows))
	for _, row := range rows {
		keyword := strings.TrimSpace(row.Keyword)
		category := strings.TrimSpace(row.CategoryID)
		if keyword == "" || category == "" {
			continue
		}

		priority := 0
		if row.Priority != nil {
			priority = *row.Priority
		}

		entries = append(entries, domain.KeywordEntry{
			Keyword:    keyword,
			CategoryID: category,
			Priority:   priority,
		})
	}
	return entries
}
