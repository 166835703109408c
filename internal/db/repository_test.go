package db

import (
	"path/filepath"
	"slices"
	"testing"

	"segprep/internal/dataset"
)

func TestPersistRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "samples.db")
	input := []dataset.Sample{
		{
			RecordID:      "r1",
			Split:         dataset.SplitTrain,
			Text:          "human words then ai",
			Labels:        []int{0, 0, 0, 1},
			CntFirstHuman: 2,
			Mergeable:     true,
			Merged:        true,
			WordCount:     4,
		},
		{
			RecordID:  "r2",
			Index:     1,
			Split:     dataset.SplitTest,
			Text:      "ai only",
			Labels:    []int{1, 1},
			Start:     7,
			WordCount: 2,
		},
	}

	runID, err := PersistRun(dbPath, Run{Seed: ^uint64(0), Policy: "keep-from-first-ai", MinWords: 35, MaxWords: 350, Records: 2}, input)
	if err != nil {
		t.Fatalf("persist run: %v", err)
	}
	if runID == "" {
		t.Fatal("expected generated run id")
	}

	runs, err := CountRows(dbPath, "runs")
	if err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if runs != 1 {
		t.Fatalf("expected 1 run, got %d", runs)
	}

	samples, err := CountRows(dbPath, "samples")
	if err != nil {
		t.Fatalf("count samples: %v", err)
	}
	if samples != 2 {
		t.Fatalf("expected 2 samples, got %d", samples)
	}

	loaded, err := LoadSamples(dbPath, runID)
	if err != nil {
		t.Fatalf("load samples: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 loaded samples, got %d", len(loaded))
	}
	if !loaded[0].Merged || !loaded[0].Mergeable || loaded[1].Mergeable || loaded[0].CntFirstHuman != 2 || !slices.Equal(loaded[0].Labels, []int{0, 0, 0, 1}) {
		t.Fatalf("unexpected first sample: %+v", loaded[0])
	}
	if loaded[1].Start != 7 || loaded[1].Split != dataset.SplitTest {
		t.Fatalf("unexpected second sample: %+v", loaded[1])
	}
}

func TestLoadSamplesFiltersByRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "samples.db")
	first, err := PersistRun(dbPath, Run{}, []dataset.Sample{{RecordID: "a", Labels: []int{0}}})
	if err != nil {
		t.Fatalf("persist first run: %v", err)
	}
	if _, err := PersistRun(dbPath, Run{}, []dataset.Sample{{RecordID: "b", Labels: []int{1}}, {RecordID: "c", Labels: []int{1}}}); err != nil {
		t.Fatalf("persist second run: %v", err)
	}

	only, err := LoadSamples(dbPath, first)
	if err != nil {
		t.Fatalf("load first run: %v", err)
	}
	if len(only) != 1 || only[0].RecordID != "a" {
		t.Fatalf("expected only the first run's sample, got %+v", only)
	}
	all, err := LoadSamples(dbPath, "")
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 samples across runs, got %d", len(all))
	}
}
