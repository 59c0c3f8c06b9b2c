// Package cli is the terminal adapter: the cobra command tree, liner
// input, lipgloss output, and the confirmation prompt.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ricardoamaro/ai-shell-assistant/internal/app"
	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
)

const instructionPrompt = "ai> "

// NewRootCmd wires the cobra command tree. The bare invocation starts a
// session; everything else is a subcommand.
func NewRootCmd() *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:   "ai-shell [provider]",
		Short: "Natural-language front end for the shell",
		Long: "ai-shell holds a conversation about your machine: instructions become\n" +
			"reviewed shell commands, file retrievals, web lookups, or plain answers.\n" +
			"The optional argument picks the provider (openai, anthropic, ollama).",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			providerArg := ""
			if len(args) == 1 {
				providerArg = args[0]
			}
			return runSession(cmd, providerArg, debug)
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable verbose logging")

	root.AddCommand(newHistoryCommand())
	root.AddCommand(newDoctorCommand())
	root.AddCommand(newVersionCommand())
	return root
}

func runSession(cmd *cobra.Command, providerArg string, debug bool) error {
	ctx := cmd.Context()
	interactive := stdinIsTerminal()

	// Piped input is read before any wiring so empty input costs zero
	// network setup.
	instruction := ""
	if !interactive {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		instruction = strings.TrimSpace(string(data))
		if instruction == "" {
			return domain.ErrNoInput
		}
	}

	container, err := app.BuildContainer(ctx, providerArg, debug)
	if err != nil {
		return err
	}
	defer container.History.Close()

	styled := interactive && stdoutIsTerminal()
	dispatcher := container.Dispatcher
	dispatcher.Out = NewRenderer(os.Stdout, os.Stderr, styled)
	dispatcher.Interactive = interactive

	if !interactive {
		// No prompter: the gate falls through to the countdown path.
		return dispatcher.RunOnce(ctx, instruction)
	}

	container.Gate.Prompter = NewPrompter(nil, nil)
	container.Gate.Out = os.Stdout
	if styled {
		dispatcher.Gateway = NewSpinningGateway(dispatcher.Gateway, os.Stderr)
	}
	dispatcher.Reader = NewLinerReader(instructionPrompt)
	return dispatcher.RunInteractive(ctx)
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
