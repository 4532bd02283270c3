package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/takato23/acomerlahechopormi-sub001/internal/domain"
	"github.com/takato23/acomerlahechopormi-sub001/internal/metrics"
)

// PantryService ties the parser and the classifier together for the delivery layer
type PantryService struct {
	parser     *InputParser
	classifier *CategoryClassifier
	index      *KeywordIndex
	logger     *zap.Logger
}

// NewPantryService creates a pantry service over a keyword index
func NewPantryService(index *KeywordIndex, logger *zap.Logger) *PantryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PantryService{
		parser:     NewInputParser(logger.Named("parser")),
		classifier: NewCategoryClassifier(index, logger.Named("classifier")),
		index:      index,
		logger:     logger,
	}
}

// Parse decomposes one line of pantry text
func (s *PantryService) Parse(text string) (*domain.ParsedEntry, error) {
	entry, strategy, err := s.parser.ParseWithStrategy(text)
	if err != nil {
		var perr *domain.ParseError
		if errors.As(err, &perr) {
			metrics.ParseTotal.WithLabelValues(strategyLabel(strategy), string(perr.Kind)).Inc()
		}
		return nil, err
	}
	metrics.ParseTotal.WithLabelValues(strategy, "success").Inc()
	return entry, nil
}

// Classify suggests a category id for an ingredient name
func (s *PantryService) Classify(name string) (string, bool) {
	categoryID, outcome := s.classifier.classify(name)
	metrics.ClassifyTotal.WithLabelValues(outcome).Inc()
	return categoryID, outcome == OutcomeMatch
}

// Interpret parses text and classifies the resulting ingredient name.
// Flow: parse -> classify(ingredientName) -> suggestion
func (s *PantryService) Interpret(ctx context.Context, text string) (*domain.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, err := s.Parse(text)
	if err != nil {
		return nil, err
	}

	suggestion := &domain.Suggestion{Entry: entry}
	if categoryID, ok := s.Classify(entry.IngredientName); ok {
		suggestion.CategoryID = &categoryID
	}

	s.logger.Debug("pantry input interpreted",
		zap.String("input", strings.TrimSpace(text)),
		zap.String("ingredient", entry.IngredientName),
		zap.Stringp("category", suggestion.CategoryID))
	return suggestion, nil
}

// NormalizeUnit exposes the unit table
func (s *PantryService) NormalizeUnit(raw string) string {
	return NormalizeUnit(raw)
}

// ReloadKeywords refreshes the keyword index from its source
func (s *PantryService) ReloadKeywords(ctx context.Context) (domain.IndexStatus, error) {
	if s.index == nil {
		return domain.IndexStatus{}, domain.ErrKeywordSourceUnavailable
	}
	err := s.index.Reload(ctx)
	return s.index.Status(), err
}

// IndexStatus reports the keyword index state
func (s *PantryService) IndexStatus() domain.IndexStatus {
	if s.index == nil {
		return domain.IndexStatus{}
	}
	return s.index.Status()
}

func strategyLabel(strategy string) string {
	if strategy == "" {
		return "none"
	}
	return strategy
}
