package usecase

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Classification outcomes, also used as metric labels
const (
	OutcomeMatch     = "match"
	OutcomeNoMatch   = "no_match"
	OutcomeAmbiguous = "ambiguous"
	OutcomeEmpty     = "empty"
)

// categoryScore accumulates the evidence for one category
type categoryScore struct {
	category     string
	score        int
	bestPriority int
	matched      []string
}

// CategoryClassifier guesses a storage category for an ingredient name by
// additive keyword scoring over a KeywordIndex snapshot.
type CategoryClassifier struct {
	index  *KeywordIndex
	logger *zap.Logger
}

// NewCategoryClassifier creates a classifier reading from index
func NewCategoryClassifier(index *KeywordIndex, logger *zap.Logger) *CategoryClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryClassifier{
		index:  index,
		logger: logger,
	}
}

// Classify returns the best category for name, or ok=false when the index is
// empty, nothing matches, or the top candidates tie on score and priority.
func (c *CategoryClassifier) Classify(name string) (categoryID string, ok bool) {
	categoryID, outcome := c.classify(name)
	return categoryID, outcome == OutcomeMatch
}

// classify does the work and also reports the outcome for metrics
func (c *CategoryClassifier) classify(name string) (string, string) {
	normalized := NormalizeKeyword(name)
	if normalized == "" {
		return "", OutcomeEmpty
	}

	var snap *keywordSnapshot
	if c.index != nil {
		snap = c.index.current()
	}
	if snap == nil {
		return "", OutcomeNoMatch
	}

	scores := make(map[string]*categoryScore)
	for _, word := range strings.Fields(normalized) {
		for _, entry := range snap.lookup(word) {
			s, exists := scores[entry.CategoryID]
			if !exists {
				s = &categoryScore{category: entry.CategoryID, bestPriority: entry.Priority}
				scores[entry.CategoryID] = s
			}
			s.score += entry.Priority + 1
			if entry.Priority < s.bestPriority {
				s.bestPriority = entry.Priority
			}
			s.matched = append(s.matched, word)
		}
	}

	ranked := rankCategories(scores)

	if ce := c.logger.Check(zap.DebugLevel, "classification scores"); ce != nil {
		fields := make([]zap.Field, 0, len(ranked)+1)
		fields = append(fields, zap.String("name", normalized))
		for _, s := range ranked {
			fields = append(fields, zap.Any(s.category, map[string]interface{}{
				"score":    s.score,
				"priority": s.bestPriority,
				"matched":  s.matched,
			}))
		}
		ce.Write(fields...)
	}

	if len(ranked) == 0 || ranked[0].score <= 0 {
		return "", OutcomeNoMatch
	}

	if len(ranked) > 1 && ranked[1].score == ranked[0].score && ranked[1].bestPriority == ranked[0].bestPriority {
		return "", OutcomeAmbiguous
	}

	return ranked[0].category, OutcomeMatch
}

// rankCategories orders candidates by score desc, then best priority asc.
// Category id is the last key only so the order is stable for logging.
func rankCategories(scores map[string]*categoryScore) []*categoryScore {
	ranked := make([]*categoryScore, 0, len(scores))
	for _, s := range scores {
		if s.score > 0 {
			ranked = append(ranked, s)
		}
	}

	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].score != ranked[b].score {
			return ranked[a].score > ranked[b].score
		}
		if ranked[a].bestPriority != ranked[b].bestPriority {
			return ranked[a].bestPriority < ranked[b].bestPriority
		}
		return ranked[a].category < ranked[b].category
	})

	return ranked
}
