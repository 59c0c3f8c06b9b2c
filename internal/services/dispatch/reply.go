package dispatch

import "strings"

// extractCommand pulls a single shell command out of a model reply.
// Strategies, in order: first fenced code block, a "command:" line, then
// the first non-empty line. Models are told to answer with the bare
// command, but replies wrapped in fences or prose still yield something
// runnable.
func extractCommand(content string) string {
	if cmd := extractCodeBlock(content); cmd != "" {
		return firstLine(cmd)
	}
	if cmd := extractCommandLine(content); cmd != "" {
		return cmd
	}
	return firstLine(content)
}

func extractCodeBlock(content string) string {
	start := strings.Index(content, "```")
	if start == -1 {
		return ""
	}
	rest := content[start+3:]
	end := strings.Index(rest, "```")
	if end == -1 {
		return ""
	}
	block := rest[:end]
	if i := strings.IndexByte(block, '\n'); i != -1 {
		marker := strings.TrimSpace(block[:i])
		// Drop a language marker like "sh" or "bash".
		if marker != "" && !strings.ContainsAny(marker, " \t") && len(marker) <= 10 {
			block = block[i+1:]
		}
	}
	return strings.TrimSpace(block)
}

func extractCommandLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if after, ok := cutPrefixFold(line, "command:"); ok {
			return strings.TrimSpace(after)
		}
	}
	return ""
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return "", false
}

func firstLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// A reply like `df -h` wrapped in inline backticks.
		if len(line) > 1 && line[0] == '`' && line[len(line)-1] == '`' {
			line = strings.TrimSpace(line[1 : len(line)-1])
		}
		return line
	}
	return ""
}
