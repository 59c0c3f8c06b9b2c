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
	openAIEndpoint     = "https://api.openai.com/v1/chat/completions"
	openAIKeyEnv       = "OPENAI_API_KEY"
	openAIOrgEnv       = "OPENAI_ORG_ID"
	defaultOpenAIModel = "gpt-4o-mini"
)

type openAIClient struct {
	model      string
	apiKey     string
	org        string
	endpoint   string
	httpClient *http.Client
	log        ports.Logger
	debugRaw   bool
}

func newOpenAIClient(cfg domain.Config, client *http.Client, log ports.Logger) (*openAIClient, error) {
	apiKey := os.Getenv(openAIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %w: set %s", domain.ErrMissingCredential, openAIKeyEnv)
	}

	return &openAIClient{
		model:      valueOrDefault(cfg.Models.OpenAI, defaultOpenAIModel),
		apiKey:     apiKey,
		org:        os.Getenv(openAIOrgEnv),
		endpoint:   openAIEndpoint,
		httpClient: client,
		log:        log,
		debugRaw:   cfg.DebugRaw,
	}, nil
}

func (p *openAIClient) Provider() domain.Provider {
	return domain.ProviderOpenAI
}

func (p *openAIClient) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResponse, error) {
	payload := chatCompletionRequest{
		Model:       p.model,
		MaxTokens:   domain.DefaultMaxTokens,
		Temperature: req.Temperature,
		Messages:    buildChatMessages(req),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.CompletionResponse{}, fmt.Errorf("openai: encode request: %w", err)
	}
	dumpRaw(p.log, p.debugRaw, "openai request", body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.CompletionResponse{}, fmt.Errorf("openai: create request: %w", err)
	}
	httpReq.Header.Set("authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("content-type", "application/json")
	if p.org != "" {
		httpReq.Header.Set("OpenAI-Organization", p.org)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return domain.CompletionResponse{}, fmt.Errorf("openai: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.CompletionResponse{}, fmt.Errorf("openai: read response: %w", err)
	}
	dumpRaw(p.log, p.debugRaw, "openai response", raw)

	if err := checkStatus("openai", resp.StatusCode, resp.Status, openAIKeyEnv); err != nil {
		return domain.CompletionResponse{}, err
	}

	var decoded chatCompletionResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return domain.CompletionResponse{}, fmt.Errorf("openai: decode response: %w", err)
	}

	content := StripThinking(decoded.FirstMessage())
	if content == "" {
		return domain.CompletionResponse{}, fmt.Errorf("openai: %w", domain.ErrEmptyResponse)
	}

	return domain.CompletionResponse{
		Content: content,
		Tokens:  decoded.Usage.TotalTokens,
	}, nil
}

var _ ports.Gateway = (*openAIClient)(nil)
