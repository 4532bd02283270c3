package domain

// ParsedEntry is the structured form of one line of pantry text
type ParsedEntry struct {
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit,omitempty"` // canonical unit code, "" when no unit was recognized
	IngredientName string  `json:"ingredientName"`
	UsedFallback   bool    `json:"usedFallback,omitempty"`
}

// ParseRequest represents a parse or interpret request
type ParseRequest struct {
	Text string `json:"text"`
}

// ClassifyRequest represents a classification request
type ClassifyRequest struct {
	Name string `json:"name"`
}

// Suggestion is a parsed entry together with the suggested storage category
type Suggestion struct {
	Entry      *ParsedEntry `json:"entry"`
	CategoryID *string      `json:"categoryId"` // nil when no confident match
}
