package extension

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SnapshotStore keeps the last successfully fetched remote configuration
// per (extension, guild). It stores raw config bytes only; no rule,
// audit, or channel state is ever written here.
type SnapshotStore struct {
	db *sql.DB
}

func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping snapshot store: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS config_snapshots (
		extension TEXT NOT NULL,
		guild_id TEXT NOT NULL,
		url TEXT NOT NULL,
		payload BLOB NOT NULL,
		fetched_at INTEGER NOT NULL,
		PRIMARY KEY (extension, guild_id)
	);`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create snapshot table: %w", err)
	}

	return &SnapshotStore{db: db}, nil
}

func (s *SnapshotStore) Save(extension, guildID, url string, payload []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO config_snapshots (extension, guild_id, url, payload, fetched_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (extension, guild_id) DO UPDATE SET
		 url = excluded.url, payload = excluded.payload, fetched_at = excluded.fetched_at`,
		extension, guildID, url, payload, time.Now().Unix())
	return err
}

func (s *SnapshotStore) Load(extension, guildID string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRow(
		`SELECT payload FROM config_snapshots WHERE extension = ? AND guild_id = ?`,
		extension, guildID).Scan(&payload)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *SnapshotStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
