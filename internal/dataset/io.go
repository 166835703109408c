package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidRecord = errors.New("invalid record")

const maxLineBytes = 64 << 20

// ReadRecords loads a JSONL record file. Blank lines are skipped; every other
// line must satisfy the record schema.
func ReadRecords(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1<<20), maxLineBytes)
	var records []Record
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(strings.TrimSpace(string(raw))) == 0 {
			continue
		}
		if err := ValidateRecordJSON(raw); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
		}
		var r Record
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("%s:%d: parse record: %w", filepath.Base(path), line, err)
		}
		if r.ID == "" {
			r.ID = recordID(r)
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}
	return records, nil
}

func ReadSamples(path string) ([]Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open samples: %w", err)
	}
	defer func() { _ = file.Close() }()

	decoder := json.NewDecoder(bufio.NewReader(file))
	var samples []Sample
	for decoder.More() {
		var s Sample
		if err := decoder.Decode(&s); err != nil {
			return nil, fmt.Errorf("decode sample %d: %w", len(samples)+1, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func WriteRecords(path string, records []Record) error {
	return writeJSONL(path, records)
}

func WriteSamples(path string, samples []Sample) error {
	return writeJSONL(path, samples)
}

func writeJSONL[T any](path string, rows []T) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = file.Close() }()

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	encoder.SetEscapeHTML(false)
	for _, row := range rows {
		if err := encoder.Encode(row); err != nil {
			return fmt.Errorf("encode row: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", filepath.Base(path), err)
	}
	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	return nil
}
