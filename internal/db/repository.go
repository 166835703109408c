package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"segprep/internal/dataset"
)

type Run struct {
	ID        string
	StartedAt time.Time
	Seed      uint64
	Policy    string
	MinWords  int
	MaxWords  int
	Records   int
	Errors    int
}

// PersistRun stores one run row and its samples in a single transaction and
// returns the run id, generating one when run.ID is empty.
func PersistRun(dbPath string, run Run, samples []dataset.Sample) (string, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	tx, err := conn.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs(id, started_at, seed, policy, min_words, max_words, records, errors) VALUES(?,?,?,?,?,?,?,?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339),
		strconv.FormatUint(run.Seed, 10),
		run.Policy,
		run.MinWords,
		run.MaxWords,
		run.Records,
		run.Errors,
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO samples(run_id, record_id, sample_index, split, source, text, labels, cnt_first_human, mergeable, merged, start_word, word_count) VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return "", fmt.Errorf("prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range samples {
		labels, err := json.Marshal(s.Labels)
		if err != nil {
			return "", fmt.Errorf("marshal labels: %w", err)
		}
		if _, err := stmt.Exec(
			run.ID,
			s.RecordID,
			s.Index,
			s.Split,
			s.Source,
			s.Text,
			string(labels),
			s.CntFirstHuman,
			s.Mergeable,
			s.Merged,
			s.Start,
			s.WordCount,
		); err != nil {
			return "", fmt.Errorf("insert sample: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit tx: %w", err)
	}
	return run.ID, nil
}

// LoadSamples returns the samples of one run, or of every run when runID is empty.
func LoadSamples(dbPath, runID string) ([]dataset.Sample, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	query := `SELECT record_id, sample_index, split, source, text, labels, cnt_first_human, mergeable, merged, start_word, word_count FROM samples`
	args := []any{}
	if runID != "" {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` ORDER BY id`

	rows, err := conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var out []dataset.Sample
	for rows.Next() {
		var s dataset.Sample
		var labels string
		if err := rows.Scan(&s.RecordID, &s.Index, &s.Split, &s.Source, &s.Text, &labels, &s.CntFirstHuman, &s.Mergeable, &s.Merged, &s.Start, &s.WordCount); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		if err := json.Unmarshal([]byte(labels), &s.Labels); err != nil {
			return nil, fmt.Errorf("decode labels for %s: %w", s.RecordID, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return out, nil
}

func CountRows(dbPath, table string) (int, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	return countRowsConn(conn, table)
}

func countRowsConn(conn *sql.DB, table string) (int, error) {
	row := conn.QueryRow(`SELECT COUNT(*) FROM ` + table)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return count, nil
}
