package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLitePort persists the knowledge snapshot as a single row in a SQLite
// file, for hosts that prefer one inspectable database file
type SQLitePort struct {
	db *sql.DB
}

// NewSQLitePort opens (or creates) the SQLite database at path
func NewSQLitePort(path string) (*SQLitePort, error) {
	db, err := sql.Open("sqlite3", expandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS knowledge_snapshot (
		key  TEXT PRIMARY KEY,
		blob TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create snapshot table: %w", err)
	}

	return &SQLitePort{db: db}, nil
}

// Load reads the snapshot blob
func (p *SQLitePort) Load(ctx context.Context) (*Snapshot, error) {
	var blob string
	err := p.db.QueryRowContext(ctx,
		`SELECT blob FROM knowledge_snapshot WHERE key = ?`, snapshotKey).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(blob), &snap); err != nil {
		return nil, fmt.Errorf("corrupt snapshot: %w", err)
	}
	return &snap, nil
}

// Save replaces the snapshot blob
func (p *SQLitePort) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO knowledge_snapshot (key, blob) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET blob = excluded.blob`,
		snapshotKey, string(data))
	return err
}

// Close closes the database
func (p *SQLitePort) Close() error {
	return p.db.Close()
}
