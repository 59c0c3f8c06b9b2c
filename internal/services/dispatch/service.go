// Package dispatch runs the instruction loop: directives, intent
// classification, the four strategies, and the session-level error
// policy that keeps one bad instruction from ending the conversation.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
	"github.com/ricardoamaro/ai-shell-assistant/internal/ports"
)

// Service orchestrates one session end-to-end.
type Service struct {
	Config       domain.Config
	Session      *domain.Session
	Gateway      ports.Gateway
	Conversation ports.Conversation
	Gate         ports.CommandGate
	Search       ports.SearchClient
	History      ports.HistoryRepository
	Out          ports.Renderer
	Reader       ports.InstructionReader
	Host         domain.HostInfo
	Interactive  bool
	Logger       ports.Logger
}

// cycleOutcome carries what a strategy ran so the audit row can record
// it. exitCode is -1 when no command ran.
type cycleOutcome struct {
	command  string
	exitCode int
}

func (s *Service) ready() error {
	if s.Session == nil || s.Gateway == nil || s.Conversation == nil ||
		s.Gate == nil || s.Out == nil || s.Logger == nil {
		return errors.New("dispatch.Service dependencies not satisfied")
	}
	return nil
}

func (s *Service) catalog() prompts {
	return newPrompts(s.Config.Language, s.Host)
}

// RunInteractive reads instructions until an exit directive, EOF, or a
// fatal error.
func (s *Service) RunInteractive(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	if s.Reader == nil {
		return errors.New("dispatch.Service needs an instruction reader")
	}
	defer s.Reader.Close()

	greeting := fmt.Sprintf("Talking to %s", s.Session.Provider)
	if model := s.Config.ModelFor(s.Session.Provider); model != "" {
		greeting += " (" + model + ")"
	}
	s.Out.Info(greeting + ". /bye ends the session.")

	for {
		line, err := s.Reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read instruction: %w", err)
		}

		cont, err := s.Dispatch(ctx, line)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
		s.Out.Tokens(s.Session.TokensUsed)
	}
}

// RunOnce processes a single piped instruction.
func (s *Service) RunOnce(ctx context.Context, instruction string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(instruction) == "" {
		return domain.ErrNoInput
	}
	_, err := s.Dispatch(ctx, instruction)
	if err != nil {
		return err
	}
	s.Out.Tokens(s.Session.TokensUsed)
	return nil
}

// Dispatch processes one instruction. The bool reports whether the
// session should continue; the error is non-nil only for fatal
// conditions (currently the classifier circuit breaker).
func (s *Service) Dispatch(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return true, nil
	}

	if name, rest, ok := splitDirective(line); ok {
		return s.runDirective(ctx, name, rest)
	}

	tokensBefore := s.Session.TokensUsed
	intent, err := s.classify(ctx, line)
	if err != nil {
		return s.reportError(err)
	}
	s.Logger.Debug("instruction classified", map[string]interface{}{
		"intent": string(intent),
	})

	outcome, err := s.runStrategy(ctx, intent, line)
	if err != nil {
		return s.reportError(err)
	}
	s.saveHistory(line, intent, outcome, s.Session.TokensUsed-tokensBefore)
	return true, nil
}

func (s *Service) runStrategy(ctx context.Context, intent domain.Intent, instruction string) (cycleOutcome, error) {
	switch intent {
	case domain.IntentCommand:
		return s.runCommand(ctx, instruction, "", false)
	case domain.IntentRetrieve:
		return s.runRetrieve(ctx, instruction)
	case domain.IntentAnalyze:
		return s.runAnalyze(ctx, instruction)
	case domain.IntentQuestion:
		return s.runQuestion(ctx, instruction)
	}
	return cycleOutcome{}, fmt.Errorf("%w: %q", domain.ErrUnrecognizedIntent, intent)
}

// directiveNames is the full control surface. A slash-prefixed line
// outside this set is an ordinary instruction (paths start with "/").
var directiveNames = map[string]bool{
	"/bye": true, "/quit": true, "/q": true,
	"/clear": true, "/run": true, "/ask": true,
}

// splitDirective recognizes an in-band control directive: the whole
// instruction for the bare forms, a prefix for /run and /ask.
func splitDirective(line string) (name, rest string, ok bool) {
	if !strings.HasPrefix(line, "/") {
		return "", "", false
	}
	name, rest, _ = strings.Cut(line, " ")
	name = strings.ToLower(name)
	if !directiveNames[name] {
		return "", "", false
	}
	return name, strings.TrimSpace(rest), true
}

func (s *Service) runDirective(ctx context.Context, name, rest string) (bool, error) {
	switch name {
	case "/bye", "/quit", "/q":
		s.Out.Info("Bye.")
		return false, nil

	case "/clear":
		stats := s.Conversation.Stats()
		if err := s.Conversation.Clear(); err != nil {
			s.Out.Warn(fmt.Sprintf("clear context: %v", err))
			return true, nil
		}
		s.Session.ResetCircuit()
		s.Out.Info(fmt.Sprintf("Context cleared (%d words dropped).", stats.TranscriptWords))
		return true, nil

	case "/run":
		if rest == "" {
			s.Out.Warn("Usage: /run <command>")
			return true, nil
		}
		tokensBefore := s.Session.TokensUsed
		outcome, err := s.runCommand(ctx, rest, rest, true)
		if err != nil {
			return s.reportError(err)
		}
		s.saveHistory(rest, domain.IntentCommand, outcome, s.Session.TokensUsed-tokensBefore)
		return true, nil

	case "/ask":
		if rest == "" {
			s.Out.Warn("Usage: /ask <question>")
			return true, nil
		}
		tokensBefore := s.Session.TokensUsed
		outcome, err := s.runQuestion(ctx, rest)
		if err != nil {
			return s.reportError(err)
		}
		s.saveHistory(rest, domain.IntentQuestion, outcome, s.Session.TokensUsed-tokensBefore)
		return true, nil
	}

	// splitDirective only admits known names.
	s.Out.Warn(fmt.Sprintf("Unhandled directive %s.", name))
	return true, nil
}

// reportError applies the strategy-boundary policy: the circuit breaker
// is fatal, quota ends the instruction, everything else is one
// diagnostic line and the loop continues.
func (s *Service) reportError(err error) (bool, error) {
	switch {
	case errors.Is(err, domain.ErrClassifierCircuitOpen):
		s.Out.Error(fmt.Sprintf("%v — ending the session; check the %s configuration.", err, s.Session.Provider))
		return false, err
	case errors.Is(err, domain.ErrQuotaExceeded):
		s.Out.Error(fmt.Sprintf("%v — instruction abandoned.", err))
		return true, nil
	case errors.Is(err, domain.ErrRetrievalEmpty):
		s.Out.Warn("Nothing retrieved; try rephrasing the request.")
		return true, nil
	default:
		s.Out.Warn(err.Error())
		return true, nil
	}
}

// complete issues one gateway call with the configured sampling
// temperature and accrues reported token usage.
func (s *Service) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := s.Gateway.Complete(ctx, domain.CompletionRequest{
		SystemPrompt: system,
		UserContent:  user,
		Temperature:  s.Config.EffectiveTemperature(),
	})
	if err != nil {
		return "", err
	}
	s.Session.AddTokens(resp.Tokens)
	return resp.Content, nil
}

func (s *Service) saveHistory(instruction string, intent domain.Intent, outcome cycleOutcome, tokens int) {
	if s.History == nil {
		return
	}
	rec := domain.HistoryRecord{
		Timestamp:   time.Now(),
		SessionID:   s.Session.ID,
		Provider:    string(s.Session.Provider),
		Instruction: instruction,
		Intent:      string(intent),
		Command:     outcome.command,
		ExitCode:    outcome.exitCode,
		Tokens:      tokens,
	}
	if err := s.History.Save(rec); err != nil {
		s.Logger.Warn("history save failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// record feeds one interaction into the rolling context.
func (s *Service) record(text string) {
	if err := s.Conversation.Record(text); err != nil {
		s.Logger.Warn("context record failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
