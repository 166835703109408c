package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started_at TEXT,
    seed TEXT,
    policy TEXT,
    min_words INTEGER,
    max_words INTEGER,
    records INTEGER,
    errors INTEGER
);

CREATE TABLE IF NOT EXISTS samples (
    id INTEGER PRIMARY KEY,
    run_id TEXT,
    record_id TEXT,
    sample_index INTEGER,
    split TEXT,
    source TEXT,
    text TEXT,
    labels TEXT,
    cnt_first_human INTEGER,
    mergeable INTEGER,
    merged INTEGER,
    start_word INTEGER,
    word_count INTEGER
);

CREATE INDEX IF NOT EXISTS samples_run_idx ON samples(run_id);
`

func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(SchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
