// Package app assembles the dependency graph for one session.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
	"github.com/ricardoamaro/ai-shell-assistant/internal/infrastructure/config"
	contextcollector "github.com/ricardoamaro/ai-shell-assistant/internal/infrastructure/context"
	"github.com/ricardoamaro/ai-shell-assistant/internal/infrastructure/conversation"
	"github.com/ricardoamaro/ai-shell-assistant/internal/infrastructure/history"
	"github.com/ricardoamaro/ai-shell-assistant/internal/infrastructure/llm"
	"github.com/ricardoamaro/ai-shell-assistant/internal/infrastructure/safety"
	"github.com/ricardoamaro/ai-shell-assistant/internal/infrastructure/search"
	"github.com/ricardoamaro/ai-shell-assistant/internal/pkg/logger"
	"github.com/ricardoamaro/ai-shell-assistant/internal/ports"
	"github.com/ricardoamaro/ai-shell-assistant/internal/services/dispatch"
)

// Container wires the dispatch service with its infrastructure adapters.
// Terminal-facing pieces (prompter, renderer, reader) are attached by the
// CLI layer after construction, mirroring how they depend on whether
// stdin is a terminal.
type Container struct {
	Config       domain.Config
	Session      *domain.Session
	Dispatcher   *dispatch.Service
	Gate         *safety.Gate
	ConfigLoader *config.FileLoader
	History      ports.HistoryRepository
	Logger       ports.Logger
}

// BuildContainer constructs the dependency graph. providerArg overrides
// the configured provider; debug raises the log level. A gateway that
// cannot be configured (unknown provider, missing credentials) fails the
// build — there is no degraded mode without a model.
func BuildContainer(ctx context.Context, providerArg string, debug bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateConsistency(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	provider, err := cfg.EffectiveProvider(providerArg)
	if err != nil {
		return nil, err
	}

	log := logger.New(debug || cfg.DebugRaw)

	gateway, err := llm.New(provider, cfg, log)
	if err != nil {
		return nil, err
	}

	session := domain.NewSession(provider)
	policy := safety.NewPolicy(cfg.EffectiveMaxCommandLength(), cfg.Security.SafeCommands)
	gate := safety.NewGate(cfg, policy, nil, os.Stderr, log)
	store := history.NewSQLiteStore("")

	dispatcher := &dispatch.Service{
		Config:       cfg,
		Session:      session,
		Gateway:      gateway,
		Conversation: conversation.NewManager(cfg.EffectiveMaxContextWords(), cfg.LogDir, session.Stamp(), log),
		Gate:         gate,
		Search:       search.New(cfg, log),
		History:      store,
		Host:         contextcollector.Collect(),
		Logger:       log,
	}

	return &Container{
		Config:       cfg,
		Session:      session,
		Dispatcher:   dispatcher,
		Gate:         gate,
		ConfigLoader: cfgLoader,
		History:      store,
		Logger:       log,
	}, nil
}
