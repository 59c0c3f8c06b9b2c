package dispatch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// previousOutputHints are phrases that point the ANALYZE strategy at the
// conversation context instead of the instruction text. Best-effort by
// design: a miss only means the model sees less material.
var previousOutputHints = []string{
	"the output",
	"previous command",
	"last command",
	"previous output",
	"last output",
	"that error",
	"this error",
	"the error above",
	"that result",
}

func refersToPreviousOutput(instruction string) bool {
	lowered := strings.ToLower(instruction)
	for _, hint := range previousOutputHints {
		if strings.Contains(lowered, hint) {
			return true
		}
	}
	return false
}

// dataFileExtensions mark instructions that name a file worth reading
// before analyzing.
var dataFileExtensions = []string{
	".log", ".txt", ".json", ".yaml", ".yml",
	".csv", ".conf", ".toml", ".ini", ".xml",
}

func looksLikePath(instruction string) bool {
	for _, field := range strings.Fields(instruction) {
		if strings.ContainsRune(field, filepath.Separator) {
			return true
		}
		lowered := strings.ToLower(strings.TrimRight(field, ".,;:!?"))
		for _, ext := range dataFileExtensions {
			if strings.HasSuffix(lowered, ext) {
				return true
			}
		}
	}
	return false
}

// runAnalyze executes the ANALYZE strategy. Material selection, in
// order: conversation context when the instruction refers to previous
// output, file content when it names a path, else the instruction
// alone. One analysis call either way.
func (s *Service) runAnalyze(ctx context.Context, instruction string) (cycleOutcome, error) {
	p := s.catalog()

	var material string
	outcome := cycleOutcome{exitCode: -1}
	switch {
	case refersToPreviousOutput(instruction) && s.Conversation.Rolling() != "":
		material = fmt.Sprintf("Conversation context:\n%s", s.Conversation.Rolling())

	case looksLikePath(instruction):
		result, err := s.gatherLocal(ctx, instruction)
		if err != nil {
			return cycleOutcome{}, err
		}
		if result.Aborted {
			s.Out.Info("Analysis aborted.")
			s.record(fmt.Sprintf("%s => analysis aborted", instruction))
			return cycleOutcome{command: result.Command, exitCode: -1}, nil
		}
		outcome = cycleOutcome{command: result.Command, exitCode: result.ExitCode}
		if result.Output != "" {
			material = fmt.Sprintf("File material:\n%s", clip(result.Output, 4000))
		}
	}

	user := "Instruction: " + instruction
	if material != "" {
		user += "\n\n" + material
	}

	reply, err := s.complete(ctx, p.analysis(), user)
	if err != nil {
		return outcome, fmt.Errorf("analyze: %w", err)
	}

	s.Out.Answer(reply)
	s.record(fmt.Sprintf("%s => %s", instruction, reply))
	return outcome, nil
}
