package cli

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/ricardoamaro/ai-shell-assistant/internal/ports"
)

// LinerReader reads instructions from a terminal with line editing and
// in-process input history. Ctrl+C at the prompt and Ctrl+D both signal
// io.EOF so the session ends the same graceful way.
type LinerReader struct {
	state  *liner.State
	prompt string
}

// NewLinerReader prepares the terminal reader. Close must be called to
// restore the terminal mode.
func NewLinerReader(prompt string) *LinerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &LinerReader{state: state, prompt: prompt}
}

// Read blocks for the next instruction line.
func (r *LinerReader) Read() (string, error) {
	line, err := r.state.Prompt(r.prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", err
	}
	trimmed := strings.TrimSpace(line)
	// Directives are cheap to retype; only instructions earn a history slot.
	if trimmed != "" && !strings.HasPrefix(trimmed, "/") {
		r.state.AppendHistory(trimmed)
	}
	return line, nil
}

// Close restores the terminal state.
func (r *LinerReader) Close() error {
	return r.state.Close()
}

// StdinReader delivers everything on standard input as a single
// instruction, then io.EOF. It backs the piped (non-interactive) mode.
type StdinReader struct {
	in      io.Reader
	drained bool
}

// NewStdinReader wraps the given reader, defaulting to os.Stdin.
func NewStdinReader(in io.Reader) *StdinReader {
	if in == nil {
		in = os.Stdin
	}
	return &StdinReader{in: in}
}

// Read returns the whole input once.
func (r *StdinReader) Read() (string, error) {
	if r.drained {
		return "", io.EOF
	}
	r.drained = true
	data, err := io.ReadAll(r.in)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Close is a no-op; stdin is not ours to close.
func (r *StdinReader) Close() error {
	return nil
}

var (
	_ ports.InstructionReader = (*LinerReader)(nil)
	_ ports.InstructionReader = (*StdinReader)(nil)
)
