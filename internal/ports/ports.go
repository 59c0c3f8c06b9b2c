// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the application to remain independent of specific
// implementations like databases, HTTP clients, or CLI frameworks.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Gateway, Conversation)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.ai-shell/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// Gateway is the single entry point for model calls. Each implementation
// wraps one provider API; callers never see transport detail, only the
// cleaned content plus reported token usage.
type Gateway interface {
	Provider() domain.Provider
	Complete(context.Context, domain.CompletionRequest) (domain.CompletionResponse, error)
}

// Conversation keeps the dialogue state: a transcript that only grows and
// a rolling window bounded by word count, both persisted after every update.
type Conversation interface {
	Record(text string) error
	Rolling() string
	Transcript() string
	Last() string
	Stats() domain.ContextStats
	Clear() error
}

// CommandGate assesses and runs shell command candidates. Nothing the
// model produces reaches a shell except through this port.
type CommandGate interface {
	Assess(command string) domain.Assessment
	Run(ctx context.Context, command string, preconfirmed bool) (domain.CommandResult, error)
}

// ConfirmationPrompter handles interactive user confirmations for gated
// commands.
type ConfirmationPrompter interface {
	Confirm(command string, reasons []string) (bool, error)
	Enabled() bool
}

// InstructionReader yields one instruction per call and io.EOF when the
// input source is exhausted.
type InstructionReader interface {
	Read() (string, error)
	Close() error
}

// SearchClient queries a web retrieval backend. A result with an empty
// message means the backend found nothing.
type SearchClient interface {
	Name() string
	Search(ctx context.Context, query string) (domain.SearchResult, error)
}

// HistoryRepository persists the per-instruction audit trail.
type HistoryRepository interface {
	Save(domain.HistoryRecord) error
	Records(limit int, search string) ([]domain.HistoryRecord, error)
	Clear() error
	Close() error
}

// Renderer writes user-facing output. It is a port so the dispatch core
// stays independent of terminal styling.
type Renderer interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Answer(text string)
	Tokens(total int)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
