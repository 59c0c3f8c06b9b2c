package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ricardoamaro/ai-shell-assistant/internal/ports"
)

// Prompter implements ConfirmationPrompter using stdin/stdout.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter constructs a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Enabled indicates the prompter is interactive.
func (p *Prompter) Enabled() bool {
	return true
}

// Confirm shows why a command was flagged and asks before it runs. Only
// an explicit y or yes proceeds; EOF counts as a decline.
func (p *Prompter) Confirm(command string, reasons []string) (bool, error) {
	fmt.Fprintln(p.out, warnStyle.Render("This command needs a second look:"))
	for _, reason := range reasons {
		fmt.Fprintln(p.out, warnStyle.Render(" - "+reason))
	}
	fmt.Fprintf(p.out, "  %s\n", commandStyle.Render(command))
	fmt.Fprint(p.out, "Proceed? (y/n): ")

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return false, nil
		}
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
