// Package domain defines core business entities and value objects for the
// assistant.
//
// The domain layer is independent of infrastructure concerns and represents
// pure business logic and data structures.
package domain

import (
	"fmt"
	"strings"
)

// Provider identifies an LLM backend.
type Provider string

// Supported providers.
const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
)

// Providers lists every supported provider in display order.
func Providers() []Provider {
	return []Provider{ProviderOpenAI, ProviderAnthropic, ProviderOllama}
}

// ParseProvider normalizes a provider name from config or CLI argument.
func ParseProvider(raw string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(raw))) {
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderAnthropic:
		return ProviderAnthropic, nil
	case ProviderOllama:
		return ProviderOllama, nil
	}
	return "", fmt.Errorf("%w: %q (expected one of openai, anthropic, ollama)", ErrInvalidProvider, raw)
}

// Local reports whether the provider runs on the local host and therefore
// needs no API credential.
func (p Provider) Local() bool {
	return p == ProviderOllama
}

// CompletionRequest is a single gateway call: one system prompt, one user
// payload, one sampling temperature.
type CompletionRequest struct {
	SystemPrompt string
	UserContent  string
	Temperature  float64
}

// CompletionResponse carries the cleaned reply content and the token usage
// reported by the provider (zero when the provider does not report usage).
type CompletionResponse struct {
	Content string
	Tokens  int
}
