// Package conversation keeps the dialogue state between instructions: a
// transcript that only grows and a rolling window bounded by word count.
// Both views are persisted after every update so a crashed session leaves
// a readable trail behind.
package conversation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
	"github.com/ricardoamaro/ai-shell-assistant/internal/ports"
)

// Manager implements ports.Conversation for a single session. It belongs
// to the session goroutine and is not safe for concurrent use.
type Manager struct {
	maxWords int
	dir      string
	stamp    string
	log      ports.Logger

	records      []string
	rolling      string
	last         string
	interactions int
}

// NewManager creates the conversation state for one session. An empty dir
// disables persistence.
func NewManager(maxWords int, dir string, stamp string, log ports.Logger) *Manager {
	if maxWords <= 0 {
		maxWords = domain.DefaultMaxContextWords
	}
	return &Manager{
		maxWords: maxWords,
		dir:      dir,
		stamp:    stamp,
		log:      log,
	}
}

// Record folds one interaction into the transcript, recomputes the rolling
// window, and persists both views. Interior whitespace is collapsed so a
// record is always a single line.
func (m *Manager) Record(text string) error {
	record := strings.Join(strings.Fields(text), " ")
	if record == "" {
		return nil
	}

	m.last = record
	m.records = append(m.records, record)
	m.interactions++
	m.recomputeRolling()

	return m.persist()
}

// recomputeRolling keeps the rolling window an exact word-suffix of the
// transcript, never exceeding the configured bound.
func (m *Manager) recomputeRolling() {
	words := strings.Fields(strings.Join(m.records, " "))
	if len(words) > m.maxWords {
		words = words[len(words)-m.maxWords:]
	}
	m.rolling = strings.Join(words, " ")
}

// Rolling returns the bounded context injected into prompts.
func (m *Manager) Rolling() string {
	return m.rolling
}

// Transcript returns the full session record, one interaction per line.
func (m *Manager) Transcript() string {
	return strings.Join(m.records, "\n")
}

// Last returns the most recent interaction record.
func (m *Manager) Last() string {
	return m.last
}

// Stats summarizes the state; /clear reports the dropped word count.
func (m *Manager) Stats() domain.ContextStats {
	return domain.ContextStats{
		RollingWords:    len(strings.Fields(m.rolling)),
		TranscriptWords: len(strings.Fields(strings.Join(m.records, " "))),
		Interactions:    m.interactions,
	}
}

// Clear wipes every view, including the last-interaction value, and
// truncates the snapshot files.
func (m *Manager) Clear() error {
	m.records = nil
	m.rolling = ""
	m.last = ""
	m.interactions = 0
	return m.persist()
}

func (m *Manager) persist() error {
	if m.dir == "" {
		return nil
	}
	if err := os.MkdirAll(m.dir, domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	if err := writeSnapshot(m.ContextPath(), m.rolling); err != nil {
		return err
	}
	return writeSnapshot(m.TranscriptPath(), m.Transcript())
}

// ContextPath is where the rolling window snapshot lives.
func (m *Manager) ContextPath() string {
	return filepath.Join(m.dir, "context_"+m.stamp+".txt")
}

// TranscriptPath is where the full transcript snapshot lives.
func (m *Manager) TranscriptPath() string {
	return filepath.Join(m.dir, "transcript_"+m.stamp+".txt")
}

// writeSnapshot writes with tight permissions; snapshots can carry
// command output.
func writeSnapshot(path string, content string) error {
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write snapshot %s: %w", filepath.Base(path), err)
	}
	return nil
}

var _ ports.Conversation = (*Manager)(nil)
