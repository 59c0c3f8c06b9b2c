package safety

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
	"github.com/ricardoamaro/ai-shell-assistant/internal/ports"
)

// Gate is the only path from model-generated text to the host shell.
// Interactive sessions confirm gated commands through the prompter;
// unattended sessions get the bell countdown instead, or an outright
// refusal in strict mode.
type Gate struct {
	Policy   *Policy
	Prompter ports.ConfirmationPrompter
	Out      io.Writer
	Shell    string
	Timeout  time.Duration
	Strict   bool
	Grace    time.Duration
	Logger   ports.Logger
}

// NewGate wires the gate from configuration.
func NewGate(cfg domain.Config, policy *Policy, prompter ports.ConfirmationPrompter, out io.Writer, log ports.Logger) *Gate {
	return &Gate{
		Policy:   policy,
		Prompter: prompter,
		Out:      out,
		Shell:    cfg.EffectiveShell(),
		Timeout:  cfg.CommandTimeout(),
		Strict:   cfg.Security.StrictWarnings,
		Grace:    domain.CountdownGracePeriod,
		Logger:   log,
	}
}

// Assess implements ports.CommandGate.
func (g *Gate) Assess(command string) domain.Assessment {
	return g.Policy.Assess(command)
}

// Run assesses a candidate, walks the approval flow its verdict requires,
// and executes it. An abort is a normal outcome, not an error: the result
// comes back with Aborted set and the session continues.
func (g *Gate) Run(ctx context.Context, command string, preconfirmed bool) (domain.CommandResult, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return domain.CommandResult{}, errors.New("empty command candidate")
	}

	assessment := g.Assess(command)
	g.logAssessment(command, assessment)

	switch {
	case preconfirmed || !assessment.RequiresApproval():
		fmt.Fprintf(g.Out, "Auto-proceeding: %s\n", command)

	case g.interactive():
		approved, err := g.Prompter.Confirm(command, assessment.Reasons)
		if err != nil {
			return domain.CommandResult{Command: command}, fmt.Errorf("read confirmation: %w", err)
		}
		if !approved {
			fmt.Fprintln(g.Out, "Aborted.")
			return domain.CommandResult{Command: command, Aborted: true}, nil
		}

	case g.Strict:
		fmt.Fprintf(g.Out, "Strict mode: refusing unreviewed command: %s\n", command)
		return domain.CommandResult{Command: command, Aborted: true}, nil

	default:
		fmt.Fprintf(g.Out, "Warning: %s\n", strings.Join(assessment.Reasons, "; "))
		fmt.Fprintf(g.Out, "About to run: %s\n", command)
		if !Countdown(ctx, g.Out, g.Grace) {
			return domain.CommandResult{Command: command, Aborted: true}, nil
		}
		fmt.Fprintln(g.Out, "Auto-proceeding.")
	}

	return g.execute(ctx, command)
}

func (g *Gate) execute(ctx context.Context, command string) (domain.CommandResult, error) {
	runCtx := ctx
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, g.Shell, "-c", command)

	var buf bytes.Buffer
	if g.interactive() {
		// Mirror live so long-running commands stay visible.
		sink := io.MultiWriter(&buf, g.Out)
		cmd.Stdout = sink
		cmd.Stderr = sink
	} else {
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	}

	start := time.Now()
	err := cmd.Run()

	result := domain.CommandResult{
		Command:  command,
		Ran:      true,
		Output:   buf.String(),
		Duration: time.Since(start),
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		result.ExitCode = domain.TimeoutExitCode
		marker := fmt.Sprintf("[timed out after %ds]", int(g.Timeout/time.Second))
		if result.Output != "" && !strings.HasSuffix(result.Output, "\n") {
			result.Output += "\n"
		}
		result.Output += marker + "\n"
		if g.interactive() {
			fmt.Fprintln(g.Out, marker)
		}
		return result, nil
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.Ran = false
		return result, fmt.Errorf("run command: %w", err)
	}
	return result, nil
}

func (g *Gate) interactive() bool {
	return g.Prompter != nil && g.Prompter.Enabled()
}

func (g *Gate) logAssessment(command string, assessment domain.Assessment) {
	if g.Logger == nil {
		return
	}
	g.Logger.Debug("command assessed", map[string]interface{}{
		"command": command,
		"verdict": string(assessment.Verdict),
		"rule":    assessment.Rule,
	})
}

var _ ports.CommandGate = (*Gate)(nil)
