package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"segprep/internal/dataset"
	"segprep/internal/ingest"
	"segprep/internal/logging"
)

func (a *app) ingestCmd() *cobra.Command {
	var inputs []string
	var output string
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Turn human-written documents (pdf, docx, txt, md) into prompt/text records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := ingest.ExpandInputs(inputs)
			if err != nil {
				return err
			}

			opts := a.cfg.RecordOptions()
			var records []dataset.Record
			failed := 0
			for _, path := range files {
				doc, err := ingest.Load(path)
				if err != nil {
					failed++
					logging.Warn("INGEST", "skipping %s: %v", path, err)
					continue
				}
				recs := ingest.HumanRecords(doc, opts)
				logging.Debug("INGEST", "%s: %d records", path, len(recs))
				records = append(records, recs...)
			}
			if len(records) == 0 {
				return fmt.Errorf("no records produced from %d files", len(files))
			}
			if err := dataset.WriteRecords(output, records); err != nil {
				return fmt.Errorf("write records: %w", err)
			}

			out := cmd.OutOrStdout()
			color.New(color.FgGreen).Fprintf(out, "Wrote %d records from %d files to %s\n", len(records), len(files)-failed, output)
			if failed > 0 {
				color.New(color.FgYellow).Fprintf(out, "%d files could not be parsed\n", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&inputs, "input", "i", nil, "input files or ** globs (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "records.jsonl", "records JSONL file")
	cmd.Flags().Int("segmentWords", 0, "words per document segment")
	cmd.Flags().Int("overlapWords", 0, "words shared by consecutive segments")
	cmd.Flags().Int("promptWords", 0, "leading words of each segment used as the prompt")
	_ = cmd.MarkFlagRequired("input")
	for _, name := range []string{"segmentWords", "overlapWords", "promptWords"} {
		_ = a.v.BindPFlag(name, cmd.Flags().Lookup(name))
	}
	return cmd
}
