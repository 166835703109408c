package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"segprep/internal/dataset"
	"segprep/internal/db"
	"segprep/internal/logging"
	"segprep/internal/manifest"
	"segprep/internal/pipeline"
	"segprep/internal/stats"
)

func (a *app) prepareCmd() *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Merge, label and subsample records into training samples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := dataset.ReadRecords(input)
			if err != nil {
				return fmt.Errorf("read records: %w", err)
			}
			opts, err := a.cfg.PipelineOptions()
			if err != nil {
				return err
			}
			if opts.Seed == 0 {
				opts.Seed = uint64(time.Now().UnixNano())
				logging.Info("PREPARE", "no seed configured, using %d", opts.Seed)
			}

			started := time.Now()
			res := pipeline.Prepare(cmd.Context(), records, opts, logging.Logger{})
			if len(records) > 0 && len(res.Samples) == 0 {
				return fmt.Errorf("no samples produced from %d records: %w", len(records), errors.Join(res.Errors...))
			}
			if err := dataset.WriteSamples(output, res.Samples); err != nil {
				return fmt.Errorf("write samples: %w", err)
			}

			out := cmd.OutOrStdout()
			run := db.Run{
				ID:        uuid.NewString(),
				StartedAt: started,
				Seed:      opts.Seed,
				Policy:    opts.Policy.String(),
				MinWords:  opts.MinWords,
				MaxWords:  opts.MaxWords,
				Records:   len(records),
				Errors:    len(res.Errors),
			}
			if a.cfg.DBPath != "" {
				if _, err := db.PersistRun(a.cfg.DBPath, run, res.Samples); err != nil {
					return fmt.Errorf("persist run: %w", err)
				}
				fmt.Fprintf(out, "Stored run %s in %s\n", run.ID, a.cfg.DBPath)
			}

			report := stats.Analyze(res.Samples)
			digest, err := manifest.FileDigest(input)
			if err != nil {
				return err
			}
			if err := manifest.Save(manifest.PathFor(output), manifest.Manifest{
				RunID:       run.ID,
				StartedAt:   started,
				Seed:        opts.Seed,
				Policy:      run.Policy,
				MinWords:    opts.MinWords,
				MaxWords:    opts.MaxWords,
				Input:       input,
				InputSHA256: digest,
				Output:      output,
				Records:     len(records),
				Samples:     len(res.Samples),
				Errors:      len(res.Errors),
				Report:      report,
			}); err != nil {
				return err
			}

			color.New(color.FgGreen).Fprintf(out, "Wrote %d samples from %d records to %s (seed %d)\n", len(res.Samples), len(records), output, opts.Seed)
			if len(res.Errors) > 0 {
				color.New(color.FgYellow).Fprintf(out, "%d records skipped, see log for details\n", len(res.Errors))
			}
			printReport(out, report)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "records JSONL file")
	cmd.Flags().StringVarP(&output, "output", "o", "samples.jsonl", "samples JSONL file")
	cmd.Flags().String("db", "", "also store the run in this sqlite database")
	cmd.Flags().String("policy", "", "alternation policy (keep-from-first-ai, keep-until-first-human, keep-either)")
	cmd.Flags().Int("samplesPerRecord", 0, "samples drawn per record")
	cmd.Flags().Int("minWords", 0, "minimum words per sample")
	cmd.Flags().Int("maxWords", 0, "maximum words per sample")
	_ = cmd.MarkFlagRequired("input")
	_ = a.v.BindPFlag("dbPath", cmd.Flags().Lookup("db"))
	for _, name := range []string{"policy", "samplesPerRecord", "minWords", "maxWords"} {
		_ = a.v.BindPFlag(name, cmd.Flags().Lookup(name))
	}
	return cmd
}
