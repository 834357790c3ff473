package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/refrag-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/refrag-cli/internal/core/domain"
	"github.com/custodia-labs/refrag-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.refrag/data/refrag.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".refrag", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "refrag.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// KnowledgeBaseStore returns a KnowledgeBaseStore interface backed by this store.
func (s *Store) KnowledgeBaseStore() driven.KnowledgeBaseStore {
	return &knowledgeBaseStore{store: s}
}

// AssistantMappingStore returns an AssistantMappingStore interface backed by this store.
func (s *Store) AssistantMappingStore() driven.AssistantMappingStore {
	return &assistantMappingStore{store: s}
}

// SessionStore returns a SessionStore interface backed by this store.
func (s *Store) SessionStore() driven.SessionStore {
	return &sessionStore{store: s}
}

// HistoryStore returns a HistoryStore interface backed by this store.
func (s *Store) HistoryStore() driven.HistoryStore {
	return &historyStore{store: s, cap: domain.HistoryCap}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Knowledge Base Store ====================

// knowledgeBaseStore implements driven.KnowledgeBaseStore.
type knowledgeBaseStore struct {
	store *Store
}

var _ driven.KnowledgeBaseStore = (*knowledgeBaseStore)(nil)

// Save records a knowledge base, replacing any entry with the same id.
func (s *knowledgeBaseStore) Save(ctx context.Context, kb domain.KnowledgeBase) error {
	if kb.CreatedAt.IsZero() {
		kb.CreatedAt = time.Now().UTC()
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO knowledge_bases (id, name, collection, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			collection = excluded.collection
	`, kb.ID, kb.Name, kb.Collection, kb.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving knowledge base: %w", err)
	}
	return nil
}

// Get returns a knowledge base by id.
func (s *knowledgeBaseStore) Get(ctx context.Context, id string) (*domain.KnowledgeBase, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, collection, created_at
		FROM knowledge_bases WHERE id = ?
	`, id)

	var kb domain.KnowledgeBase
	if err := row.Scan(&kb.ID, &kb.Name, &kb.Collection, &kb.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: knowledge base %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("getting knowledge base: %w", err)
	}
	return &kb, nil
}

// List returns all recorded knowledge bases, newest first.
func (s *knowledgeBaseStore) List(ctx context.Context) ([]domain.KnowledgeBase, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, collection, created_at
		FROM knowledge_bases ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing knowledge bases: %w", err)
	}
	defer rows.Close()

	var bases []domain.KnowledgeBase
	for rows.Next() {
		var kb domain.KnowledgeBase
		if err := rows.Scan(&kb.ID, &kb.Name, &kb.Collection, &kb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning knowledge base: %w", err)
		}
		bases = append(bases, kb)
	}
	return bases, rows.Err()
}

// Delete removes a knowledge base record.
func (s *knowledgeBaseStore) Delete(ctx context.Context, id string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM knowledge_bases WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting knowledge base: %w", err)
	}
	return nil
}

// SetActive marks the knowledge base questions default to.
func (s *knowledgeBaseStore) SetActive(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO active_knowledge_base (singleton, knowledge_base_id)
		VALUES (1, ?)
		ON CONFLICT(singleton) DO UPDATE SET knowledge_base_id = excluded.knowledge_base_id
	`, id)
	if err != nil {
		return fmt.Errorf("setting active knowledge base: %w", err)
	}
	return nil
}

// Active returns the default knowledge base.
func (s *knowledgeBaseStore) Active(ctx context.Context) (*domain.KnowledgeBase, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT kb.id, kb.name, kb.collection, kb.created_at
		FROM knowledge_bases kb
		JOIN active_knowledge_base a ON a.knowledge_base_id = kb.id
	`)

	var kb domain.KnowledgeBase
	if err := row.Scan(&kb.ID, &kb.Name, &kb.Collection, &kb.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no active knowledge base", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting active knowledge base: %w", err)
	}
	return &kb, nil
}

// ==================== Assistant Mapping Store ====================

// assistantMappingStore implements driven.AssistantMappingStore.
type assistantMappingStore struct {
	store *Store
}

var _ driven.AssistantMappingStore = (*assistantMappingStore)(nil)

// AssistantFor returns the assistant id bound to a dataset.
func (s *assistantMappingStore) AssistantFor(ctx context.Context, datasetID string) (string, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT assistant_id FROM assistant_bindings WHERE dataset_id = ?", datasetID)

	var assistantID string
	if err := row.Scan(&assistantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: no assistant for dataset %s", domain.ErrNotFound, datasetID)
		}
		return "", fmt.Errorf("getting assistant binding: %w", err)
	}
	return assistantID, nil
}

// Bind records a dataset to assistant mapping.
func (s *assistantMappingStore) Bind(ctx context.Context, datasetID, assistantID string) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO assistant_bindings (dataset_id, assistant_id)
		VALUES (?, ?)
		ON CONFLICT(dataset_id) DO UPDATE SET assistant_id = excluded.assistant_id
	`, datasetID, assistantID)
	if err != nil {
		return fmt.Errorf("saving assistant binding: %w", err)
	}
	return nil
}

// Unbind removes the mapping for a dataset.
func (s *assistantMappingStore) Unbind(ctx context.Context, datasetID string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM assistant_bindings WHERE dataset_id = ?", datasetID); err != nil {
		return fmt.Errorf("deleting assistant binding: %w", err)
	}
	return nil
}

// ==================== Session Store ====================

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// ActiveSession returns the active session id for an assistant.
func (s *sessionStore) ActiveSession(ctx context.Context, assistantID string) (string, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT session_id FROM active_sessions WHERE assistant_id = ?", assistantID)

	var sessionID string
	if err := row.Scan(&sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: no active session for assistant %s", domain.ErrNotFound, assistantID)
		}
		return "", fmt.Errorf("getting active session: %w", err)
	}
	return sessionID, nil
}

// SaveSession records a session and marks it active for its assistant.
func (s *sessionStore) SaveSession(ctx context.Context, session domain.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, assistant_id, name, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`, session.ID, session.AssistantID, session.Name, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO active_sessions (assistant_id, session_id)
		VALUES (?, ?)
		ON CONFLICT(assistant_id) DO UPDATE SET session_id = excluded.session_id
	`, session.AssistantID, session.ID)
	if err != nil {
		return fmt.Errorf("saving active session: %w", err)
	}

	return tx.Commit()
}

// ClearActive drops the active pointer for an assistant.
func (s *sessionStore) ClearActive(ctx context.Context, assistantID string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM active_sessions WHERE assistant_id = ?", assistantID); err != nil {
		return fmt.Errorf("clearing active session: %w", err)
	}
	return nil
}

// Sessions lists all recorded sessions for an assistant, newest first.
func (s *sessionStore) Sessions(ctx context.Context, assistantID string) ([]domain.Session, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, assistant_id, name, created_at
		FROM sessions WHERE assistant_id = ?
		ORDER BY created_at DESC
	`, assistantID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(&session.ID, &session.AssistantID, &session.Name, &session.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// ==================== History Store ====================

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
	cap   int
}

var _ driven.HistoryStore = (*historyStore)(nil)

// Append prepends an entry and evicts the oldest beyond the cap.
func (s *historyStore) Append(ctx context.Context, entry domain.HistoryEntry) error {
	sourcesJSON, err := json.Marshal(entry.Sources)
	if err != nil {
		return fmt.Errorf("marshalling sources: %w", err)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO history (id, question, answer, sources, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, entry.ID, entry.Question, entry.Answer, string(sourcesJSON), entry.Timestamp)
	if err != nil {
		return fmt.Errorf("saving history entry: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY created_at DESC, rowid DESC LIMIT ?
		)
	`, s.cap)
	if err != nil {
		return fmt.Errorf("trimming history: %w", err)
	}

	return tx.Commit()
}

// List returns all retained entries, newest first.
func (s *historyStore) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, question, answer, sources, created_at
		FROM history ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		var sourcesJSON string
		if err := rows.Scan(&entry.ID, &entry.Question, &entry.Answer, &sourcesJSON, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		if err := json.Unmarshal([]byte(sourcesJSON), &entry.Sources); err != nil {
			return nil, fmt.Errorf("unmarshalling sources: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Clear removes every retained entry.
func (s *historyStore) Clear(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM history"); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}
