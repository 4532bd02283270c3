package domain

import "errors"

var (
	// ErrEmptyInput is returned when the pantry text has no content to parse
	ErrEmptyInput = errors.New("empty input")

	// ErrUnparseable is returned when no strategy, including the fallback, yields an ingredient name
	ErrUnparseable = errors.New("unparseable input")

	// ErrKeywordSourceUnavailable is returned when the keyword data source cannot be reached
	ErrKeywordSourceUnavailable = errors.New("keyword source unavailable")

	// ErrNotConfigured is returned when a handler has no service wired
	ErrNotConfigured = errors.New("service not configured")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)

// ParseErrorKind tags a parse failure
type ParseErrorKind string

const (
	ParseErrorEmptyInput  ParseErrorKind = "empty_input"
	ParseErrorUnparseable ParseErrorKind = "unparseable"
)

// ParseError is the failure side of a parse result. It carries the original text.
type ParseError struct {
	Kind  ParseErrorKind `json:"code"`
	Input string         `json:"input"`
}

func (e *ParseError) Error() string {
	return string(e.Kind) + ": " + e.Input
}

// Is lets errors.Is match a ParseError against ErrEmptyInput and ErrUnparseable.
func (e *ParseError) Is(target error) bool {
	switch e.Kind {
	case ParseErrorEmptyInput:
		return target == ErrEmptyInput
	case ParseErrorUnparseable:
		return target == ErrUnparseable
	}
	return false
}
