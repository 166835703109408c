package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"segprep/internal/segment"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() defaults failed: %v", err)
	}
	if cfg.MinWords != 35 || cfg.MaxWords != 350 {
		t.Fatalf("expected 35..350 words, got %d..%d", cfg.MinWords, cfg.MaxWords)
	}
	if cfg.Policy != "keep-from-first-ai" || !cfg.MergePrompts || cfg.SamplesPerRecord != 1 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.LogFilePath() != "segprep.log" {
		t.Fatalf("expected default log file, got %s", cfg.LogFilePath())
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, "segprep.yaml", "minWords: 10\nmaxWords: 40\npolicy: keep-either\nseed: 77\nlogFile: logs/run.log\n")
	t.Setenv("SEGPREP_MAXWORDS", "60")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.MinWords != 10 || cfg.MaxWords != 60 {
		t.Fatalf("expected file min and env max, got %d..%d", cfg.MinWords, cfg.MaxWords)
	}
	if cfg.Seed != 77 || cfg.ConfigPath != path || cfg.LogFilePath() != "logs/run.log" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	opts, err := cfg.PipelineOptions()
	if err != nil {
		t.Fatalf("PipelineOptions failed: %v", err)
	}
	if opts.Policy != segment.KeepEither || opts.MinWords != 10 || opts.Seed != 77 {
		t.Fatalf("unexpected pipeline options: %+v", opts)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"promptWords": 12, "segmentWords": 200, "mergePrompts": false}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	rec := cfg.RecordOptions()
	if rec.PromptWords != 12 || rec.SegmentWords != 200 || rec.OverlapWords != 50 || cfg.MergePrompts {
		t.Fatalf("unexpected record options: %+v merge=%v", rec, cfg.MergePrompts)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"min above max":  "minWords: 50\nmaxWords: 20\n",
		"zero min":       "minWords: 0\n",
		"unknown policy": "policy: keep-all\n",
		"bad fraction":   "testFraction: 1.5\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, "c.yaml", content)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	cfg := Defaults()
	cfg.DBPath = "samples.db"
	ShowConfig(&buf, "", cfg)
	out := buf.String()
	for _, want := range []string{"No config file loaded", "35..350", "keep-from-first-ai", "samples.db"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
