package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:              %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Log File:           %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Seed:               %d\n", cfg.Seed)
	fmt.Fprintf(out, "  Workers:            %d\n", cfg.Workers)
	fmt.Fprintf(out, "  Words per Sample:   %d..%d\n", cfg.MinWords, cfg.MaxWords)
	fmt.Fprintf(out, "  Alternation Policy: %s\n", cfg.Policy)
	fmt.Fprintf(out, "  Samples per Record: %d\n", cfg.SamplesPerRecord)
	fmt.Fprintf(out, "  Merge Prompts:      %v\n", cfg.MergePrompts)
	fmt.Fprintf(out, "  Test Fraction:      %g\n", cfg.TestFraction)
	if cfg.WindowWords > 0 {
		fmt.Fprintf(out, "  Record Windows:     %d words, %d overlap\n", cfg.WindowWords, cfg.WindowOverlap)
	}
	if cfg.DBPath != "" {
		fmt.Fprintf(out, "  Sample Store:       %s\n", cfg.DBPath)
	}
	fmt.Fprintf(out, "  Ingest Segments:    %d words, %d overlap, %d prompt words\n", cfg.SegmentWords, cfg.OverlapWords, cfg.PromptWords)
}
