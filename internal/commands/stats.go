package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"segprep/internal/dataset"
	"segprep/internal/db"
	"segprep/internal/segment"
	"segprep/internal/stats"
)

func (a *app) statsCmd() *cobra.Command {
	var input, dbPath, runID string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize a sample file or stored run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var samples []dataset.Sample
			var err error
			switch {
			case input != "":
				samples, err = dataset.ReadSamples(input)
			case dbPath != "":
				samples, err = db.LoadSamples(dbPath, runID)
			default:
				return errors.New("one of --input or --db is required")
			}
			if err != nil {
				return fmt.Errorf("load samples: %w", err)
			}
			printReport(cmd.OutOrStdout(), stats.Analyze(samples))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "samples JSONL file")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database written by prepare --db")
	cmd.Flags().StringVar(&runID, "run", "", "restrict --db to one run id")
	cmd.MarkFlagsMutuallyExclusive("input", "db")
	return cmd
}

func printReport(out io.Writer, r stats.Report) {
	fmt.Fprintf(out, "Samples:            %d (%d records)\n", r.Samples, r.Records)
	if r.Samples > 0 {
		fmt.Fprintf(out, "Words per sample:   %.1f ± %.1f [%d..%d]\n", r.MeanWords, r.WordsSD, r.MinWords, r.MaxWords)
	}
	fmt.Fprintf(out, "Merged:             %.3f of %d with a prompt (expected %.3f)\n", r.MergedFraction, r.MergeEligible, segment.MergeProbability)
	fmt.Fprintf(out, "AI words:           %.3f\n", r.AIWordFraction)
	fmt.Fprintf(out, "With boundary:      %.3f\n", r.BoundaryFraction)
	fmt.Fprintf(out, "Test split:         %.3f\n", r.TestFraction)
	if len(r.Flags) == 0 {
		color.New(color.FgGreen).Fprintln(out, "No anomalies found.")
		return
	}
	warn := color.New(color.FgYellow)
	for _, flag := range r.Flags {
		warn.Fprintf(out, "! %s\n", flag)
	}
}
