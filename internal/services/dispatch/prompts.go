package dispatch

import (
	"fmt"
	"strings"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
)

// prompts builds the fixed system prompts. Every prompt that can shape a
// shell command embeds the host snapshot so the model targets the right
// shell and platform.
type prompts struct {
	language string
	host     domain.HostInfo
}

func newPrompts(language string, host domain.HostInfo) prompts {
	if language == "" {
		language = "English"
	}
	return prompts{language: language, host: host}
}

func (p prompts) hostLines() string {
	lines := []string{
		"Directory: " + p.host.WorkingDir,
		"Shell: " + p.host.Shell,
		"OS: " + p.host.OS,
	}
	if p.host.User != "" {
		lines = append(lines, "User: "+p.host.User)
	}
	return strings.Join(lines, "\n")
}

func (p prompts) languageLine() string {
	return fmt.Sprintf("Respond in %s.", p.language)
}

func (p prompts) classification() string {
	return `You classify one instruction given to a shell assistant.
Reply with exactly one word: COMMAND, RETRIEVE, ANALYZE, or QUESTION.
COMMAND: the user wants a shell command run on this machine.
RETRIEVE: the user wants current information looked up, locally or on the web.
ANALYZE: the user wants existing output, files, or errors examined.
QUESTION: the user wants an explanation or a general answer.
Reply with the single word only: no punctuation, no extra text.`
}

func (p prompts) commandGeneration() string {
	return fmt.Sprintf(`You translate an instruction into exactly one shell command.
Environment:
%s
Reply with the command only, on a single line.
No code fences, no commentary, no leading prompt characters.
Prefer non-destructive forms and never invent file paths.`, p.hostLines())
}

func (p prompts) retrievalRouting() string {
	return `Decide where the requested information lives.
Reply with exactly one word:
LOCAL if a shell command on this machine can produce it (files, processes, installed software, system state).
REMOTE if it requires the web (current events, prices, weather, general facts).
Reply with the single word only.`
}

func (p prompts) retrievalCommand() string {
	return fmt.Sprintf(`You produce exactly one read-only shell command that prints the requested information.
Environment:
%s
Reply with the command only, on a single line. No code fences, no commentary.
The command must not modify anything.`, p.hostLines())
}

func (p prompts) summary() string {
	return fmt.Sprintf(`Summarize the retrieved material for a terminal user.
Be brief and keep concrete numbers, names, and paths intact.
%s`, p.languageLine())
}

func (p prompts) analysis() string {
	return fmt.Sprintf(`You are a shell assistant examining command output, files, or error text.
Explain what the material shows and what the user should do next.
%s`, p.languageLine())
}

func (p prompts) question() string {
	return fmt.Sprintf(`You are a helpful shell assistant. Answer concisely.
Environment:
%s
%s`, p.hostLines(), p.languageLine())
}

func (p prompts) failureAnalysis() string {
	return fmt.Sprintf(`A shell command just failed. Explain the most likely cause in one or two sentences and suggest a fix.
%s`, p.languageLine())
}

// withContext appends the rolling conversation context to user content
// when any exists.
func withContext(text, rolling string) string {
	if rolling == "" {
		return text
	}
	return text + "\n\nRecent conversation:\n" + rolling
}
