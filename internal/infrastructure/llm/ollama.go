package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
	"github.com/ricardoamaro/ai-shell-assistant/internal/ports"
)

const (
	defaultOllamaHost  = "http://localhost:11434"
	defaultOllamaModel = "llama3.2"
	ollamaChatPath     = "/v1/chat/completions"
)

// ollamaClient talks to a local Ollama daemon through its OpenAI-compatible
// endpoint. Local models report no usable usage, so the token meter relies
// on ParseReply finding a trailing count when the model was prompted to
// emit one.
type ollamaClient struct {
	model      string
	endpoint   string
	httpClient *http.Client
	log        ports.Logger
	debugRaw   bool
}

func newOllamaClient(cfg domain.Config, client *http.Client, log ports.Logger) *ollamaClient {
	host := valueOrDefault(cfg.OllamaHost, defaultOllamaHost)

	return &ollamaClient{
		model:      valueOrDefault(cfg.Models.Ollama, defaultOllamaModel),
		endpoint:   strings.TrimRight(host, "/") + ollamaChatPath,
		httpClient: client,
		log:        log,
		debugRaw:   cfg.DebugRaw,
	}
}

func (o *ollamaClient) Provider() domain.Provider {
	return domain.ProviderOllama
}

func (o *ollamaClient) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResponse, error) {
	payload := chatCompletionRequest{
		Model:       o.model,
		MaxTokens:   domain.DefaultMaxTokens,
		Temperature: req.Temperature,
		Messages:    buildChatMessages(req),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.CompletionResponse{}, fmt.Errorf("ollama: encode request: %w", err)
	}
	dumpRaw(o.log, o.debugRaw, "ollama request", body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.CompletionResponse{}, fmt.Errorf("ollama: create request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return domain.CompletionResponse{}, fmt.Errorf("ollama: %w (is the daemon running at %s?)", err, o.endpoint)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.CompletionResponse{}, fmt.Errorf("ollama: read response: %w", err)
	}
	dumpRaw(o.log, o.debugRaw, "ollama response", raw)

	if err := checkStatus("ollama", resp.StatusCode, resp.Status, ""); err != nil {
		return domain.CompletionResponse{}, err
	}

	var decoded ollamaChatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return domain.CompletionResponse{}, fmt.Errorf("ollama: decode response: %w", err)
	}

	content, tokens := ParseReply(StripThinking(decoded.FirstMessage()))
	if content == "" {
		return domain.CompletionResponse{}, fmt.Errorf("ollama: %w", domain.ErrEmptyResponse)
	}

	return domain.CompletionResponse{Content: content, Tokens: tokens}, nil
}

// ollamaChatResponse deliberately omits the usage block; local counts are
// unreliable across models and the trailing-line convention wins instead.
type ollamaChatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c ollamaChatResponse) FirstMessage() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(c.Choices[0].Message.Content)
}

var _ ports.Gateway = (*ollamaClient)(nil)
