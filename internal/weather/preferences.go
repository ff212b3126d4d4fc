// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package weather

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kominfo-muaraenim/portal/pkg/types"
)

// PreferenceStore keeps the kecamatan each client selected, keyed by an
// opaque client id.
type PreferenceStore struct {
	db *sql.DB
}

// NewPreferenceStore opens or creates the SQLite database at path and
// creates the schema if it does not exist.
func NewPreferenceStore(path string) (*PreferenceStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &PreferenceStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *PreferenceStore) Close() error {
	return s.db.Close()
}

func (s *PreferenceStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS preferences (
			client_id TEXT PRIMARY KEY,
			adm4 TEXT NOT NULL,
			kecamatan TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_preferences_adm4 ON preferences(adm4)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// Get returns the stored selection for clientID. ok is false when the client
// has never chosen one.
func (s *PreferenceStore) Get(ctx context.Context, clientID string) (k types.Kecamatan, ok bool, err error) {
	var raw string
	err = s.db.QueryRowContext(ctx,
		`SELECT kecamatan FROM preferences WHERE client_id = ?`, clientID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return k, false, nil
	}
	if err != nil {
		return k, false, fmt.Errorf("reading preference for %s: %w", clientID, err)
	}
	if err := json.Unmarshal([]byte(raw), &k); err != nil {
		return k, false, fmt.Errorf("decoding preference for %s: %w", clientID, err)
	}
	return k, true, nil
}

// Set stores k as clientID's selection, replacing any earlier one.
func (s *PreferenceStore) Set(ctx context.Context, clientID string, k types.Kecamatan) error {
	raw, err := json.Marshal(k)
	if err != nil {
		return fmt.Errorf("encoding preference: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO preferences (client_id, adm4, kecamatan, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(client_id) DO UPDATE SET adm4 = excluded.adm4, kecamatan = excluded.kecamatan, updated_at = excluded.updated_at`,
		clientID, k.ADM4, string(raw), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving preference for %s: %w", clientID, err)
	}
	return nil
}

// Selected returns clientID's stored choice, or the first entry of list when
// there is none. ok is false only when list is empty and nothing is stored.
func (s *PreferenceStore) Selected(ctx context.Context, clientID string, list []types.Kecamatan) (types.Kecamatan, bool, error) {
	if clientID != "" {
		k, ok, err := s.Get(ctx, clientID)
		if err != nil {
			return types.Kecamatan{}, false, err
		}
		if ok {
			return k, true, nil
		}
	}
	if len(list) == 0 {
		return types.Kecamatan{}, false, nil
	}
	return list[0], true, nil
}

// Count returns the number of clients with a stored selection.
func (s *PreferenceStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM preferences`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting preferences: %w", err)
	}
	return n, nil
}
