package domain

import "errors"

// Sentinel errors shared across the gateway, dispatcher and strategies.
// Callers branch with errors.Is; wrapped messages carry the detail.
var (
	// ErrEmptyResponse reports a provider reply with no usable content.
	ErrEmptyResponse = errors.New("empty response from provider")
	// ErrQuotaExceeded reports a provider quota or rate-limit rejection.
	ErrQuotaExceeded = errors.New("provider quota exceeded")
	// ErrInvalidProvider reports an unknown provider selection.
	ErrInvalidProvider = errors.New("invalid provider")
	// ErrMissingCredential reports an absent API key for a hosted provider.
	ErrMissingCredential = errors.New("missing provider credential")
	// ErrUnrecognizedIntent reports a classification reply outside the intent set.
	ErrUnrecognizedIntent = errors.New("unrecognized intent")
	// ErrClassifierCircuitOpen ends the session after repeated classification failures.
	ErrClassifierCircuitOpen = errors.New("intent classification circuit breaker open")
	// ErrRetrievalEmpty reports a retrieval step that produced no content.
	ErrRetrievalEmpty = errors.New("retrieval produced no content")
	// ErrNoInput reports empty standard input in non-interactive mode.
	ErrNoInput = errors.New("no input provided")
)
