package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/takato23/acomerlahechopormi-sub001/internal/domain"
)

// Strategy names, in evaluation order
const (
	StrategyNumberWordUnit = "number_word_unit"
	StrategyNumericUnit    = "numeric_unit"
	StrategyNumberWord     = "number_word"
	StrategyNameFirst      = "name_first"
	StrategyNumeric        = "numeric"
	StrategyUnitDe         = "unit_de"
	StrategyFallback       = "fallback"
)

// Compiled patterns for the structural strategies
var (
	// "una docena de huevos", "dos kilos papa"
	numberWordUnitPattern = regexp.MustCompile(`^(\p{L}+)\s+(\p{L}+)\s+(.+)$`)

	// "2 kg harina", "1.5kg de pollo"
	numericUnitPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(\p{L}+)\s+(.+)$`)

	// "tres manzanas"
	numberWordPattern = regexp.MustCompile(`^(\p{L}+)\s+(.+)$`)

	// "harina 2 kg", "huevos 12"
	nameFirstPattern = regexp.MustCompile(`^(.+?)\s+(\d+(?:\.\d+)?)(?:\s*(\p{L}+))?$`)

	// "3 tomates"
	numericPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s+(.+)$`)

	// "paquete de fideos"
	unitDePattern = regexp.MustCompile(`(?i)^(\p{L}+)\s+de\s+(.+)$`)

	// fused half qualifier at the start of a remainder: "y medio de pollo"
	halfQualifierPattern = regexp.MustCompile(`(?i)^y\s+medi[oa](?:\s+(.*))?$`)
)

// fillerWords carry no meaning in an ingredient name
var fillerWords = map[string]bool{
	"de":  true,
	"del": true,
	"la":  true,
	"el":  true,
	"los": true,
	"las": true,
}

// parseStrategy is one structural rule: a pattern plus an extractor that may
// still decline the match (unknown unit, empty name).
type parseStrategy struct {
	name    string
	pattern *regexp.Regexp
	extract func(groups []string) (*domain.ParsedEntry, bool)
}

// InputParser turns a line of pantry text into a ParsedEntry.
// It holds no mutable state and is safe for concurrent use.
type InputParser struct {
	strategies []parseStrategy
	logger     *zap.Logger
}

// NewInputParser creates a parser with the fixed strategy order
func NewInputParser(logger *zap.Logger) *InputParser {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &InputParser{
		strategies: []parseStrategy{
			{name: StrategyNumberWordUnit, pattern: numberWordUnitPattern, extract: extractNumberWordUnit},
			{name: StrategyNumericUnit, pattern: numericUnitPattern, extract: extractNumericUnit},
			{name: StrategyNumberWord, pattern: numberWordPattern, extract: extractNumberWord},
			{name: StrategyNameFirst, pattern: nameFirstPattern, extract: extractNameFirst},
			{name: StrategyNumeric, pattern: numericPattern, extract: extractNumeric},
			{name: StrategyUnitDe, pattern: unitDePattern, extract: extractUnitDe},
		},
		logger: logger,
	}
}

var defaultParser = NewInputParser(nil)

// ParsePantryInput parses text with the default parser.
// Failures are *domain.ParseError values.
func ParsePantryInput(text string) (*domain.ParsedEntry, error) {
	return defaultParser.Parse(text)
}

// Parse parses one line of pantry text
func (p *InputParser) Parse(text string) (*domain.ParsedEntry, error) {
	entry, _, err := p.ParseWithStrategy(text)
	return entry, err
}

// ParseWithStrategy parses text and also reports which strategy committed
func (p *InputParser) ParseWithStrategy(text string) (*domain.ParsedEntry, string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, "", &domain.ParseError{Kind: domain.ParseErrorEmptyInput, Input: text}
	}

	for _, strategy := range p.strategies {
		groups := strategy.pattern.FindStringSubmatch(trimmed)
		if groups == nil {
			continue
		}

		entry, ok := strategy.extract(groups)
		if !ok {
			continue
		}

		p.logger.Debug("pantry input parsed",
			zap.String("input", trimmed),
			zap.String("strategy", strategy.name),
			zap.Float64("quantity", entry.Quantity),
			zap.String("unit", entry.Unit),
			zap.String("ingredient", entry.IngredientName))
		return entry, strategy.name, nil
	}

	name := stripFillerWords(trimmed)
	if name == "" {
		p.logger.Debug("pantry input unparseable", zap.String("input", trimmed))
		return nil, StrategyFallback, &domain.ParseError{Kind: domain.ParseErrorUnparseable, Input: text}
	}

	p.logger.Debug("pantry input parsed with fallback", zap.String("input", trimmed))
	return &domain.ParsedEntry{
		Quantity:       1,
		Unit:           UnitUnit,
		IngredientName: name,
		UsedFallback:   true,
	}, StrategyFallback, nil
}

func extractNumberWordUnit(groups []string) (*domain.ParsedEntry, bool) {
	quantity, ok := ParseTextNumber(groups[1])
	if !ok || !IsKnownUnit(groups[2]) {
		return nil, false
	}
	return buildEntry(quantity, groups[2], groups[3], true)
}

func extractNumericUnit(groups []string) (*domain.ParsedEntry, bool) {
	if !IsKnownUnit(groups[2]) {
		return nil, false
	}
	quantity, ok := parseQuantity(groups[1])
	if !ok {
		return nil, false
	}
	return buildEntry(quantity, groups[2], groups[3], true)
}

func extractNumberWord(groups []string) (*domain.ParsedEntry, bool) {
	quantity, ok := ParseTextNumber(groups[1])
	if !ok {
		return nil, false
	}
	return buildEntry(quantity, UnitUnit, groups[2], false)
}

func extractNameFirst(groups []string) (*domain.ParsedEntry, bool) {
	unit := UnitUnit
	if groups[3] != "" {
		if !IsKnownUnit(groups[3]) {
			return nil, false
		}
		unit = groups[3]
	}
	quantity, ok := parseQuantity(groups[2])
	if !ok {
		return nil, false
	}
	return buildEntry(quantity, unit, groups[1], false)
}

func extractNumeric(groups []string) (*domain.ParsedEntry, bool) {
	quantity, ok := parseQuantity(groups[1])
	if !ok {
		return nil, false
	}
	return buildEntry(quantity, UnitUnit, groups[2], false)
}

func extractUnitDe(groups []string) (*domain.ParsedEntry, bool) {
	if !IsKnownUnit(groups[1]) {
		return nil, false
	}
	return buildEntry(1, groups[1], groups[2], false)
}

// buildEntry applies the shared post-processing: the fused half qualifier
// (only where allowed), then filler stripping, then unit normalization.
func buildEntry(quantity float64, unit, rest string, allowHalf bool) (*domain.ParsedEntry, bool) {
	rest = strings.TrimSpace(rest)
	if allowHalf {
		if m := halfQualifierPattern.FindStringSubmatch(rest); m != nil {
			quantity += 0.5
			rest = m[1]
		}
	}

	name := stripFillerWords(rest)
	if name == "" {
		return nil, false
	}

	return &domain.ParsedEntry{
		Quantity:       quantity,
		Unit:           NormalizeUnit(unit),
		IngredientName: name,
	}, true
}

func parseQuantity(s string) (float64, bool) {
	q, err := strconv.ParseFloat(s, 64)
	if err != nil || q < 0 {
		return 0, false
	}
	return q, true
}

// stripFillerWords drops connector words, keeping the case of everything else
func stripFillerWords(s string) string {
	words := strings.Fields(s)
	kept := make([]string, 0, len(words))
	for _, word := range words {
		if fillerWords[strings.ToLower(word)] {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}
