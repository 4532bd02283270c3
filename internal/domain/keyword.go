package domain

import "time"

// KeywordEntry maps a normalized keyword to a category.
// Lower priority values take precedence.
type KeywordEntry struct {
	Keyword    string `json:"keyword"`
	CategoryID string `json:"categoryId"`
	Priority   int    `json:"priority"`
}

// IndexStatus describes the keyword index for health reporting
type IndexStatus struct {
	Loaded   bool      `json:"loaded"`
	Keywords int       `json:"keywords"`
	Entries  int       `json:"entries"`
	LoadedAt time.Time `json:"loadedAt,omitempty"`
}
