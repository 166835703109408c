package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"segprep/internal/dataset"
	"segprep/internal/db"
	"segprep/internal/logging"
	"segprep/internal/manifest"
	"segprep/internal/segment"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { _ = logging.Close() })
	root := NewRootCmd()
	b := new(bytes.Buffer)
	root.SetOut(b)
	root.SetErr(b)
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return b.String(), err
}

func writeRecords(t *testing.T, dir string, n int) string {
	t.Helper()
	ai := segment.AI
	records := make([]dataset.Record, 0, n)
	for i := range n {
		records = append(records, dataset.Record{
			Prompt: fmt.Sprintf("prompt %d words", i),
			Text:   " " + strings.Repeat("body ", 20+i),
			Label:  &ai,
			Source: "fixture",
		})
	}
	path := filepath.Join(dir, "records.jsonl")
	if err := dataset.WriteRecords(path, records); err != nil {
		t.Fatalf("write records: %v", err)
	}
	return path
}

func TestRootCmd(t *testing.T) {
	out, err := execute(t, "nonexistent")
	if err == nil {
		t.Error("Expected an error for a nonexistent command, but got none")
	}
	expected := "unknown command \"nonexistent\" for \"segprep\""
	if !strings.Contains(out, expected) {
		t.Errorf("Expected output to contain '%s', but got '%s'", expected, out)
	}
}

func TestPrepareWritesSamplesAndRun(t *testing.T) {
	dir := t.TempDir()
	in := writeRecords(t, dir, 6)
	out := filepath.Join(dir, "out", "samples.jsonl")
	dbPath := filepath.Join(dir, "samples.db")

	stdout, err := execute(t, "prepare", "--input", in, "--output", out, "--db", dbPath,
		"--seed", "7", "--minWords", "5", "--maxWords", "12", "--logFile", filepath.Join(dir, "segprep.log"))
	if err != nil {
		t.Fatalf("prepare failed: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "Wrote 6 samples from 6 records") || !strings.Contains(stdout, "Stored run") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}

	samples, err := dataset.ReadSamples(out)
	if err != nil {
		t.Fatalf("read samples: %v", err)
	}
	if len(samples) != 6 {
		t.Fatalf("expected 6 samples, got %d", len(samples))
	}
	for _, s := range samples {
		if len(strings.Fields(s.Text)) != len(s.Labels) {
			t.Fatalf("sample %s misaligned: %q vs %d labels", s.RecordID, s.Text, len(s.Labels))
		}
		if n := len(s.Labels); n < 5 || n > 12 {
			t.Fatalf("sample %s has %d words, want 5..12", s.RecordID, n)
		}
	}

	m, err := manifest.Load(manifest.PathFor(out))
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if m.Seed != 7 || m.Samples != 6 || m.Records != 6 || m.InputSHA256 == "" || !strings.Contains(stdout, m.RunID) {
		t.Fatalf("unexpected manifest: %+v", m)
	}

	rows, err := db.CountRows(dbPath, "samples")
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 6 {
		t.Fatalf("expected 6 stored samples, got %d", rows)
	}
}

func TestPrepareIsReproducibleWithSeed(t *testing.T) {
	dir := t.TempDir()
	in := writeRecords(t, dir, 8)
	logFile := filepath.Join(dir, "segprep.log")

	var outputs [2][]byte
	for i, workers := range []string{"1", "4"} {
		out := filepath.Join(dir, fmt.Sprintf("samples-%d.jsonl", i))
		if _, err := execute(t, "prepare", "-i", in, "-o", out, "--seed", "99", "--workers", workers, "--minWords", "4", "--maxWords", "9", "--logFile", logFile); err != nil {
			t.Fatalf("prepare failed: %v", err)
		}
		raw, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		outputs[i] = raw
	}
	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Fatal("expected identical samples for the same seed regardless of workers")
	}
}

func TestPrepareRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	in := writeRecords(t, dir, 1)
	if _, err := execute(t, "prepare", "-i", in, "--minWords", "20", "--maxWords", "10", "--logFile", filepath.Join(dir, "x.log")); err == nil {
		t.Fatal("expected error when minWords exceeds maxWords")
	}
}

func TestConfigFileAndShowConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "segprep.json")
	if err := os.WriteFile(cfgPath, []byte(`{"policy": "keep-until-first-human", "maxWords": 120}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, err := execute(t, "--config", cfgPath, "--logFile", filepath.Join(dir, "segprep.log"), "show", "config")
	if err != nil {
		t.Fatalf("show config failed: %v", err)
	}
	for _, want := range []string{"Config file: " + cfgPath, "keep-until-first-human", "35..120"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestIngestThenStats(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "docs", "nested")
	if err := os.MkdirAll(docs, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	var words []string
	for i := range 60 {
		words = append(words, fmt.Sprintf("w%02d", i))
	}
	if err := os.WriteFile(filepath.Join(docs, "notes.txt"), []byte(strings.Join(words, " ")), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	logFile := filepath.Join(dir, "segprep.log")
	records := filepath.Join(dir, "records.jsonl")

	out, err := execute(t, "ingest", "-i", filepath.Join(dir, "docs", "**", "*.txt"), "-o", records,
		"--segmentWords", "20", "--overlapWords", "0", "--promptWords", "5", "--logFile", logFile)
	if err != nil {
		t.Fatalf("ingest failed: %v\n%s", err, out)
	}
	got, err := dataset.ReadRecords(records)
	if err != nil {
		t.Fatalf("read records: %v", err)
	}
	if len(got) != 3 || got[0].Prompt != "w00 w01 w02 w03 w04" {
		t.Fatalf("unexpected records: %+v", got)
	}

	samples := filepath.Join(dir, "samples.jsonl")
	if _, err := execute(t, "prepare", "-i", records, "-o", samples, "--seed", "3", "--minWords", "5", "--maxWords", "10", "--logFile", logFile); err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	out, err = execute(t, "stats", "--input", samples, "--logFile", logFile)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(out, "Samples:            3 (3 records)") || !strings.Contains(out, "Single class") {
		t.Fatalf("unexpected stats output:\n%s", out)
	}
}

func TestStatsRequiresSource(t *testing.T) {
	if _, err := execute(t, "stats", "--logFile", filepath.Join(t.TempDir(), "x.log")); err == nil {
		t.Fatal("expected error without --input or --db")
	}
}
