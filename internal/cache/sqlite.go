package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	werrors "github.com/cristianoliveira/wardlink/internal/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	partition  TEXT NOT NULL,
	key        TEXT NOT NULL,
	status     INTEGER NOT NULL,
	header     TEXT NOT NULL,
	body       BLOB NOT NULL,
	stored_at  TEXT NOT NULL,
	PRIMARY KEY (partition, key)
);
CREATE INDEX IF NOT EXISTS idx_cache_entries_partition ON cache_entries(partition);
`

// SQLiteStore is a persistent Store backed by SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite cache store at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite store: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite store: create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open %s: %w", dbPath, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(partition, key string) (*Entry, error) {
	row := s.db.QueryRow(
		`SELECT status, header, body, stored_at FROM cache_entries WHERE partition = ? AND key = ?`,
		partition, key)
	var (
		e         Entry
		headerRaw string
		storedAt  string
	)
	err := row.Scan(&e.Status, &headerRaw, &e.Body, &storedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s/%s", werrors.ErrCacheMiss, partition, key)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite store: get: %w", err)
	}
	e.Header = make(http.Header)
	if err := json.Unmarshal([]byte(headerRaw), &e.Header); err != nil {
		return nil, fmt.Errorf("sqlite store: decode header: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, storedAt); err == nil {
		e.StoredAt = t
	}
	return &e, nil
}

func (s *SQLiteStore) Put(partition, key string, e *Entry) error {
	headerRaw, err := json.Marshal(e.Header)
	if err != nil {
		return fmt.Errorf("sqlite store: encode header: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO cache_entries (partition, key, status, header, body, stored_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(partition, key) DO UPDATE SET
		   status = excluded.status,
		   header = excluded.header,
		   body = excluded.body,
		   stored_at = excluded.stored_at`,
		partition, key, e.Status, string(headerRaw), e.Body,
		e.StoredAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sqlite store: put: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(partition, key string) error {
	_, err := s.db.Exec(`DELETE FROM cache_entries WHERE partition = ? AND key = ?`, partition, key)
	if err != nil {
		return fmt.Errorf("sqlite store: delete: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeletePartition(partition string) error {
	_, err := s.db.Exec(`DELETE FROM cache_entries WHERE partition = ?`, partition)
	if err != nil {
		return fmt.Errorf("sqlite store: delete partition: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Partitions() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT partition FROM cache_entries`)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: list partitions: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite store: scan partition: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) Len(partition string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM cache_entries WHERE partition = ?`, partition).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite store: count: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
