// Package history persists the per-instruction audit trail. The primary
// store is SQLite; when the database cannot be opened the store degrades
// to an append-only JSONL file rather than losing the trail.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ricardoamaro/ai-shell-assistant/internal/domain"
	"github.com/ricardoamaro/ai-shell-assistant/internal/pkg/filesystem"
	"github.com/ricardoamaro/ai-shell-assistant/internal/ports"
)

// SQLiteStore persists interaction records in a SQLite database.
type SQLiteStore struct {
	db       *sql.DB
	path     string
	fallback *FileStore
	mu       sync.Mutex
}

// DefaultPath returns ~/.ai-shell/history/history.db.
func DefaultPath() string {
	return filepath.Join(filesystem.UserHomeDir(), ".ai-shell", "history", "history.db")
}

// NewSQLiteStore creates (or opens) the database at path; an empty path
// selects the default location. Open or schema failures degrade to the
// JSONL fallback next to the database.
func NewSQLiteStore(path string) *SQLiteStore {
	if path == "" {
		path = DefaultPath()
	}
	_ = os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)

	fallback := newFileStore(strings.TrimSuffix(path, filepath.Ext(path)) + ".jsonl")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path, fallback: fallback}
	}
	store := &SQLiteStore{db: db, path: path, fallback: fallback}
	if err := store.init(); err != nil {
		_ = db.Close()
		return &SQLiteStore{path: path, fallback: fallback}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS interactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		session_id TEXT,
		provider TEXT,
		instruction TEXT,
		intent TEXT,
		command TEXT,
		exit_code INTEGER,
		tokens INTEGER
	);`)
	return err
}

// Save inserts a new record.
func (s *SQLiteStore) Save(record domain.HistoryRecord) error {
	if s.db == nil {
		return s.fallback.Save(record)
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO interactions
		(timestamp, session_id, provider, instruction, intent, command, exit_code, tokens)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Timestamp.Format(time.RFC3339),
		record.SessionID,
		record.Provider,
		record.Instruction,
		record.Intent,
		record.Command,
		record.ExitCode,
		record.Tokens,
	)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// Records returns entries newest first, optionally filtered by a
// substring of the instruction or command.
func (s *SQLiteStore) Records(limit int, search string) ([]domain.HistoryRecord, error) {
	if s.db == nil {
		return s.fallback.Records(limit, search)
	}

	builder := strings.Builder{}
	builder.WriteString("SELECT timestamp, session_id, provider, instruction, intent, command, exit_code, tokens FROM interactions")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE instruction LIKE ? OR command LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC, id DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		var rec domain.HistoryRecord
		var ts string
		if err := rows.Scan(&ts, &rec.SessionID, &rec.Provider, &rec.Instruction, &rec.Intent, &rec.Command, &rec.ExitCode, &rec.Tokens); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback.Clear()
	}
	_, err := s.db.Exec("DELETE FROM interactions")
	return err
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
