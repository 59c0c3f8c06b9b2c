package domain

import "strings"

// Intent is the classified purpose of an instruction. Every instruction
// maps to exactly one intent before any strategy runs.
type Intent string

const (
	// IntentCommand generates and runs a shell command.
	IntentCommand Intent = "COMMAND"
	// IntentRetrieve fetches information locally or from the web, then summarizes.
	IntentRetrieve Intent = "RETRIEVE"
	// IntentAnalyze reasons over prior output or a named file.
	IntentAnalyze Intent = "ANALYZE"
	// IntentQuestion answers directly from model knowledge.
	IntentQuestion Intent = "QUESTION"
)

// RetrievalMode selects where a RETRIEVE instruction gets its data.
type RetrievalMode string

const (
	RetrievalLocal  RetrievalMode = "LOCAL"
	RetrievalRemote RetrievalMode = "REMOTE"
)

// normalizeKeyword reduces a one-word model reply to a comparable token:
// surrounding whitespace and trailing punctuation stripped, upper-cased.
// Anything beyond that (extra words, prose) stays unrecognized on purpose.
func normalizeKeyword(raw string) string {
	word := strings.TrimSpace(raw)
	word = strings.TrimRight(word, ".,:;!")
	return strings.ToUpper(word)
}

// ParseIntent maps a classification reply onto the intent set.
func ParseIntent(raw string) (Intent, bool) {
	switch Intent(normalizeKeyword(raw)) {
	case IntentCommand:
		return IntentCommand, true
	case IntentRetrieve:
		return IntentRetrieve, true
	case IntentAnalyze:
		return IntentAnalyze, true
	case IntentQuestion:
		return IntentQuestion, true
	}
	return "", false
}

// ParseRetrievalMode maps a routing reply onto a retrieval mode.
func ParseRetrievalMode(raw string) (RetrievalMode, bool) {
	switch RetrievalMode(normalizeKeyword(raw)) {
	case RetrievalLocal:
		return RetrievalLocal, true
	case RetrievalRemote:
		return RetrievalRemote, true
	}
	return "", false
}
