package domain

import "errors"

var (
	// ErrProviderUnavailable signals an LLM or embedding provider failure.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrMalformedResponse signals a provider response that could not be parsed.
	ErrMalformedResponse = errors.New("malformed provider response")
	// ErrToolNotFound signals an unknown tool name.
	ErrToolNotFound = errors.New("tool not found")
	// ErrEmptyQuery signals a query with no usable text.
	ErrEmptyQuery = errors.New("empty query")
	// ErrInvalidDocument signals a corpus document missing required fields.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrUnauthorized signals a missing or invalid API key.
	ErrUnauthorized = errors.New("unauthorized")
)
