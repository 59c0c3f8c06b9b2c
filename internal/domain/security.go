package domain

import "time"

// Verdict enumerates command gate outcomes.
type Verdict string

const (
	// VerdictSafe allows immediate execution without confirmation.
	VerdictSafe Verdict = "safe"
	// VerdictNeedsConfirmation requires user approval (or a countdown
	// grace period when no user is attached) before execution.
	VerdictNeedsConfirmation Verdict = "needs_confirmation"
	// VerdictBlocked gates execution behind the same approval path as
	// NeedsConfirmation; the command exceeded a hard policy bound.
	VerdictBlocked Verdict = "blocked"
)

// Assessment aggregates the gate evaluation for one command candidate.
type Assessment struct {
	Verdict Verdict
	Reasons []string
	Rule    string
}

// RequiresApproval reports whether the command may only run after the
// confirmation flow.
func (a Assessment) RequiresApproval() bool {
	return a.Verdict != VerdictSafe
}

// CommandResult wraps the outcome of running a candidate through the gate.
type CommandResult struct {
	Command  string
	Ran      bool
	Aborted  bool
	Output   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Failed reports whether the command ran and exited non-zero.
func (r CommandResult) Failed() bool {
	return r.Ran && r.ExitCode != 0
}
