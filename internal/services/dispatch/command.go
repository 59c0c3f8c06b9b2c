package dispatch

import (
	"context"
	"fmt"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
)

// runCommand executes the COMMAND strategy: turn the instruction into a
// single shell command (unless one was pre-supplied by /run), put it
// through the safety gate, and on a non-zero exit ask the model what
// went wrong.
func (s *Service) runCommand(ctx context.Context, instruction, command string, preconfirmed bool) (cycleOutcome, error) {
	p := s.catalog()
	if command == "" {
		reply, err := s.complete(ctx, p.commandGeneration(), withContext(instruction, s.Conversation.Rolling()))
		if err != nil {
			return cycleOutcome{}, fmt.Errorf("generate command: %w", err)
		}
		command = extractCommand(reply)
		if command == "" {
			return cycleOutcome{}, fmt.Errorf("generate command: %w", domain.ErrEmptyResponse)
		}
		s.Out.Info("$ " + command)
	}

	result, err := s.Gate.Run(ctx, command, preconfirmed)
	if err != nil {
		return cycleOutcome{}, fmt.Errorf("run command: %w", err)
	}

	if result.Aborted {
		s.record(fmt.Sprintf("%s => aborted: %s", instruction, command))
		return cycleOutcome{command: command, exitCode: -1}, nil
	}

	// The gate mirrors output live only when a terminal is attached.
	if !s.Interactive && result.Output != "" {
		s.Out.Answer(result.Output)
	}

	if result.Failed() {
		s.analyzeFailure(ctx, command, result)
	}

	s.record(fmt.Sprintf("%s => $ %s => %s", instruction, command, result.Output))
	return cycleOutcome{command: command, exitCode: result.ExitCode}, nil
}

// analyzeFailure asks the model why a command failed. Best-effort: its
// own failure is logged, never surfaced as an error.
func (s *Service) analyzeFailure(ctx context.Context, command string, result domain.CommandResult) {
	p := s.catalog()
	user := fmt.Sprintf("Command: %s\nExit code: %d\nOutput:\n%s",
		command, result.ExitCode, clip(result.Output, 2000))
	reply, err := s.complete(ctx, p.failureAnalysis(), user)
	if err != nil {
		s.Logger.Warn("failure analysis unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	s.Out.Answer(reply)
}
