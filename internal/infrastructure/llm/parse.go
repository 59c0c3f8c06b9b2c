package llm

import (
	"regexp"
	"strconv"
	"strings"
)

// thinkingBlock matches paired reasoning markup emitted by chain-of-thought
// models. Unpaired tags are left alone rather than guessing at intent.
var thinkingBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// StripThinking removes reasoning markup from model output and trims the
// surrounding whitespace it leaves behind.
func StripThinking(s string) string {
	if strings.Contains(s, "<think>") {
		s = thinkingBlock.ReplaceAllString(s, "")
	}
	return strings.TrimSpace(s)
}

// ParseReply splits a local-model reply into content and a trailing token
// count. The convention is a bare non-negative integer alone on the final
// line; a reply without one keeps its full text and reports zero. A reply
// that is nothing but an integer counts as content, not usage.
func ParseReply(raw string) (string, int) {
	trimmed := strings.TrimSpace(raw)

	idx := strings.LastIndexByte(trimmed, '\n')
	if idx < 0 {
		return trimmed, 0
	}

	lastLine := strings.TrimSpace(trimmed[idx+1:])
	tokens, err := strconv.Atoi(lastLine)
	if err != nil || tokens < 0 {
		return trimmed, 0
	}

	return strings.TrimSpace(trimmed[:idx]), tokens
}
