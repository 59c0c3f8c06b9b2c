package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
)

// runRetrieve executes the RETRIEVE strategy: one routing call decides
// LOCAL or REMOTE, the data is gathered, and a summary call condenses
// it. An empty gather is a reported non-result, never a summary call.
func (s *Service) runRetrieve(ctx context.Context, instruction string) (cycleOutcome, error) {
	mode, err := s.routeRetrieval(ctx, instruction)
	if err != nil {
		return cycleOutcome{}, err
	}

	var content string
	outcome := cycleOutcome{exitCode: -1}
	switch mode {
	case domain.RetrievalRemote:
		content, err = s.searchRemote(ctx, instruction)
		if err != nil {
			return cycleOutcome{}, err
		}
	default:
		result, err := s.gatherLocal(ctx, instruction)
		if err != nil {
			return cycleOutcome{}, err
		}
		if result.Aborted {
			s.Out.Info("Retrieval aborted.")
			s.record(fmt.Sprintf("%s => retrieval aborted", instruction))
			return cycleOutcome{command: result.Command, exitCode: -1}, nil
		}
		content = result.Output
		outcome = cycleOutcome{command: result.Command, exitCode: result.ExitCode}
	}

	if content == "" {
		return outcome, fmt.Errorf("retrieve %q: %w", clip(instruction, 60), domain.ErrRetrievalEmpty)
	}

	p := s.catalog()
	summary, err := s.complete(ctx, p.summary(),
		fmt.Sprintf("Instruction: %s\n\nMaterial:\n%s", instruction, clip(content, 4000)))
	if err != nil {
		return outcome, fmt.Errorf("summarize retrieval: %w", err)
	}

	s.Out.Answer(summary)
	s.record(fmt.Sprintf("%s => %s", instruction, summary))
	return outcome, nil
}

// routeRetrieval decides LOCAL vs REMOTE. An unrecognized reply or a
// non-quota failure falls back to LOCAL; quota propagates.
func (s *Service) routeRetrieval(ctx context.Context, instruction string) (domain.RetrievalMode, error) {
	p := s.catalog()
	reply, err := s.complete(ctx, p.retrievalRouting(), instruction)
	if err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			return "", err
		}
		s.Logger.Debug("retrieval routing failed, defaulting to local", map[string]interface{}{
			"error": err.Error(),
		})
		return domain.RetrievalLocal, nil
	}
	mode, ok := domain.ParseRetrievalMode(reply)
	if !ok {
		return domain.RetrievalLocal, nil
	}
	return mode, nil
}

// gatherLocal turns the instruction into one read-only command and runs
// it through the safety gate. Shared with the ANALYZE path branch.
func (s *Service) gatherLocal(ctx context.Context, instruction string) (domain.CommandResult, error) {
	p := s.catalog()
	reply, err := s.complete(ctx, p.retrievalCommand(), withContext(instruction, s.Conversation.Rolling()))
	if err != nil {
		return domain.CommandResult{}, fmt.Errorf("generate retrieval command: %w", err)
	}
	command := extractCommand(reply)
	if command == "" {
		return domain.CommandResult{}, fmt.Errorf("generate retrieval command: %w", domain.ErrEmptyResponse)
	}
	s.Out.Info("$ " + command)

	result, err := s.Gate.Run(ctx, command, false)
	if err != nil {
		return domain.CommandResult{}, fmt.Errorf("run retrieval command: %w", err)
	}
	return result, nil
}

// searchRemote queries the configured web backend. An empty message is
// a legitimate no-result, reported by the caller.
func (s *Service) searchRemote(ctx context.Context, instruction string) (string, error) {
	if s.Search == nil {
		return "", errors.New("remote retrieval unavailable: no search backend configured")
	}
	s.Out.Info(fmt.Sprintf("Searching the web (%s)...", s.Search.Name()))
	result, err := s.Search.Search(ctx, instruction)
	if err != nil {
		return "", fmt.Errorf("search %s: %w", s.Search.Name(), err)
	}
	return result.Message, nil
}
