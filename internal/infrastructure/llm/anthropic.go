package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
	"github.com/ricardoamaro/ai-shell-assistant/internal/ports"
)

const (
	anthropicEndpoint     = "https://api.anthropic.com/v1/messages"
	anthropicKeyEnv       = "ANTHROPIC_API_KEY"
	anthropicVersion      = "2023-06-01"
	defaultAnthropicModel = "claude-3-5-sonnet-20240620"
)

type anthropicClient struct {
	model      string
	apiKey     string
	endpoint   string
	httpClient *http.Client
	log        ports.Logger
	debugRaw   bool
}

func newAnthropicClient(cfg domain.Config, client *http.Client, log ports.Logger) (*anthropicClient, error) {
	apiKey := os.Getenv(anthropicKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: %w: set %s", domain.ErrMissingCredential, anthropicKeyEnv)
	}

	return &anthropicClient{
		model:      valueOrDefault(cfg.Models.Anthropic, defaultAnthropicModel),
		apiKey:     apiKey,
		endpoint:   anthropicEndpoint,
		httpClient: client,
		log:        log,
		debugRaw:   cfg.DebugRaw,
	}, nil
}

func (p *anthropicClient) Provider() domain.Provider {
	return domain.ProviderAnthropic
}

func (p *anthropicClient) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResponse, error) {
	payload := anthropicRequest{
		Model:       p.model,
		MaxTokens:   domain.DefaultMaxTokens,
		Temperature: req.Temperature,
		System:      req.SystemPrompt,
		Messages: []anthropicMessage{
			{
				Role: "user",
				Content: []anthropicContent{
					{Type: "text", Text: req.UserContent},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.CompletionResponse{}, fmt.Errorf("anthropic: encode request: %w", err)
	}
	dumpRaw(p.log, p.debugRaw, "anthropic request", body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.CompletionResponse{}, fmt.Errorf("anthropic: create request: %w", err)
	}
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("content-type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return domain.CompletionResponse{}, fmt.Errorf("anthropic: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.CompletionResponse{}, fmt.Errorf("anthropic: read response: %w", err)
	}
	dumpRaw(p.log, p.debugRaw, "anthropic response", raw)

	if err := checkStatus("anthropic", resp.StatusCode, resp.Status, anthropicKeyEnv); err != nil {
		return domain.CompletionResponse{}, err
	}

	var decoded anthropicResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return domain.CompletionResponse{}, fmt.Errorf("anthropic: decode response: %w", err)
	}

	content := StripThinking(decoded.FirstText())
	if content == "" {
		return domain.CompletionResponse{}, fmt.Errorf("anthropic: %w", domain.ErrEmptyResponse)
	}

	return domain.CompletionResponse{
		Content: content,
		Tokens:  decoded.TotalTokens(),
	}, nil
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature,omitempty"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (a anthropicResponse) FirstText() string {
	if len(a.Content) == 0 {
		return ""
	}
	return a.Content[0].Text
}

// TotalTokens folds prompt and completion usage into the single meter the
// session tracks.
func (a anthropicResponse) TotalTokens() int {
	return a.Usage.InputTokens + a.Usage.OutputTokens
}

var _ ports.Gateway = (*anthropicClient)(nil)
