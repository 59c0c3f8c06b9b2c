package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/ricardoamaro/ai-shell-assistant/internal/ports"
)

// Renderer writes user-facing output. In styled mode everything goes to
// the terminal writer; in plain mode only answer content reaches out, so
// piped stdout stays clean while diagnostics land on errOut.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	styled bool
}

// NewRenderer builds a renderer. styled should be true only when out is
// a terminal.
func NewRenderer(out, errOut io.Writer, styled bool) *Renderer {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	return &Renderer{out: out, errOut: errOut, styled: styled}
}

// Info prints a progress or status line.
func (r *Renderer) Info(msg string) {
	if r.styled {
		fmt.Fprintln(r.out, infoStyle.Render(msg))
		return
	}
	fmt.Fprintln(r.errOut, msg)
}

// Warn prints a recoverable problem.
func (r *Renderer) Warn(msg string) {
	if r.styled {
		fmt.Fprintln(r.out, warnStyle.Render(msg))
		return
	}
	fmt.Fprintln(r.errOut, "warning: "+msg)
}

// Error prints a failure that ends the current instruction or session.
func (r *Renderer) Error(msg string) {
	if r.styled {
		fmt.Fprintln(r.out, errorStyle.Render(msg))
		return
	}
	fmt.Fprintln(r.errOut, "error: "+msg)
}

// Answer prints model or command content unstyled. This is the only
// method that writes to stdout in plain mode.
func (r *Renderer) Answer(text string) {
	fmt.Fprintln(r.out, text)
}

// Tokens reports the running session total. Zero totals are not worth a
// line.
func (r *Renderer) Tokens(total int) {
	if total <= 0 {
		return
	}
	line := fmt.Sprintf("tokens used: %s", humanize.Comma(int64(total)))
	if r.styled {
		fmt.Fprintln(r.out, tokenStyle.Render(line))
		return
	}
	fmt.Fprintln(r.errOut, line)
}

var _ ports.Renderer = (*Renderer)(nil)
