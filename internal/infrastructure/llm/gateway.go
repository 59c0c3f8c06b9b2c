// Package llm implements the model gateway for the supported providers.
//
// Each provider gets a small typed client over raw net/http:
//   - OpenAI and Anthropic: hosted chat APIs with provider-reported usage
//   - Ollama: local OpenAI-compatible endpoint, no usage reporting
//
// All clients share the same contract: one system prompt, one user payload,
// one reply. Reasoning markup is stripped before content leaves this
// package, and failures map onto the domain error taxonomy so callers can
// branch with errors.Is.
package llm

import (
	"fmt"
	"net/http"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
	"github.com/ricardoamaro/ai-shell-assistant/internal/ports"
)

// New builds the gateway for the selected provider. Hosted providers fail
// here when their credential is absent from the environment; nothing else
// validates credentials later.
func New(provider domain.Provider, cfg domain.Config, log ports.Logger) (ports.Gateway, error) {
	client := &http.Client{Timeout: domain.DefaultHTTPClientTimeout}

	switch provider {
	case domain.ProviderOpenAI:
		return newOpenAIClient(cfg, client, log)
	case domain.ProviderAnthropic:
		return newAnthropicClient(cfg, client, log)
	case domain.ProviderOllama:
		return newOllamaClient(cfg, client, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidProvider, provider)
	}
}

// checkStatus maps provider HTTP failures onto the shared error taxonomy.
// Quota rejections keep their own identity so the dispatcher can surface
// them without ending the session; auth failures carry the credential hint
// and degrade to an empty response.
func checkStatus(name string, code int, status string, keyEnv string) error {
	switch {
	case code == http.StatusTooManyRequests || code == http.StatusPaymentRequired:
		return fmt.Errorf("%s: %s: %w", name, status, domain.ErrQuotaExceeded)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		if keyEnv == "" {
			return fmt.Errorf("%s: authentication failed (%s): %w", name, status, domain.ErrEmptyResponse)
		}
		return fmt.Errorf("%s: authentication failed (%s): check %s: %w", name, status, keyEnv, domain.ErrEmptyResponse)
	case code >= 400:
		return fmt.Errorf("%s: %s", name, status)
	}
	return nil
}

// dumpRaw logs a raw request or response body when raw debugging is on.
func dumpRaw(log ports.Logger, enabled bool, msg string, body []byte) {
	if !enabled || log == nil {
		return
	}
	log.Debug(msg, map[string]interface{}{"body": string(body)})
}

func valueOrDefault(value string, def string) string {
	if value == "" {
		return def
	}
	return value
}
