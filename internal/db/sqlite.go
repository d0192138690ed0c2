package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// schema is bootstrapped on open; both tables are append-heavy and small,
// a field device holds at most a few thousand rows.
const schema = `
CREATE TABLE IF NOT EXISTS queue_entries (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	submission_id TEXT NOT NULL,
	word_id       TEXT NOT NULL,
	language_id   TEXT NOT NULL,
	district_id   TEXT NOT NULL,
	tehsil_id     TEXT NOT NULL,
	village_id    TEXT NOT NULL,
	regional_text TEXT NOT NULL,
	audio_path    TEXT NOT NULL DEFAULT '',
	audio_data    BLOB,
	created_at    TIMESTAMP NOT NULL,
	enqueued_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS submissions (
	id            TEXT PRIMARY KEY,
	word_id       TEXT NOT NULL,
	language_id   TEXT NOT NULL,
	district_id   TEXT NOT NULL,
	tehsil_id     TEXT NOT NULL,
	village_id    TEXT NOT NULL,
	regional_text TEXT NOT NULL,
	audio_path    TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	remote_id     TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMP NOT NULL
);
`

// Open opens (or creates) the client state database at path and bootstraps
// the schema. Pass ":memory:" for an in-memory database (used by tests).
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create state dir: %w", err)
		}
	}

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection avoids "database is locked" under the sqlite driver.
	database.SetMaxOpenConns(1)

	if _, err := database.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := database.Exec("PRAGMA journal_mode = WAL"); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	// Durable flush on every commit; a crash right after Enqueue returns
	// must not lose the entry.
	if _, err := database.Exec("PRAGMA synchronous = FULL"); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	if _, err := database.Exec(schema); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, err
	}

	return database, nil
}
