package domain

import "time"

// HistoryRecord captures one dispatched instruction for the audit trail.
type HistoryRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	SessionID   string    `json:"session_id"`
	Provider    string    `json:"provider"`
	Instruction string    `json:"instruction"`
	Intent      string    `json:"intent"`
	Command     string    `json:"command,omitempty"`
	ExitCode    int       `json:"exit_code"`
	Tokens      int       `json:"tokens"`
}
