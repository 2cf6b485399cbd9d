package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// snapshotKey is the single fixed key the whole knowledge blob lives under
const snapshotKey = "knowledge:snapshot"

// BadgerPort persists the knowledge snapshot in a local BadgerDB, the
// default backend
type BadgerPort struct {
	db *badger.DB
}

// NewBadgerPort opens (or creates) a BadgerDB at path
func NewBadgerPort(path string) (*BadgerPort, error) {
	opts := badger.DefaultOptions(expandPath(path)).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}

	return &BadgerPort{db: db}, nil
}

// Load reads the snapshot blob
func (p *BadgerPort) Load(ctx context.Context) (*Snapshot, error) {
	var snap *Snapshot

	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var decoded Snapshot
			if err := json.Unmarshal(val, &decoded); err != nil {
				return fmt.Errorf("corrupt snapshot: %w", err)
			}
			snap = &decoded
			return nil
		})
	})

	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Save replaces the snapshot blob
func (p *BadgerPort) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKey), data)
	})
}

// Close closes the BadgerDB instance
func (p *BadgerPort) Close() error {
	return p.db.Close()
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
