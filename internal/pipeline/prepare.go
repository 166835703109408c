package pipeline

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"segprep/internal/chunk"
	"segprep/internal/dataset"
	"segprep/internal/segment"
)

type Logger interface {
	Log(level, stage, message, detail string)
}

type Options struct {
	Seed             uint64
	Workers          int
	SamplesPerRecord int
	MergePrompts     bool
	MinWords         int
	MaxWords         int
	Policy           segment.AlternationPolicy
	TestFraction     float64
	// WindowWords > 0 cuts each record into overlapping labeled windows
	// before subsampling.
	WindowWords   int
	WindowOverlap int
}

func DefaultOptions() Options {
	return Options{
		SamplesPerRecord: 1,
		MergePrompts:     true,
		MinWords:         segment.DefaultMinWords,
		MaxWords:         segment.DefaultMaxWords,
		Policy:           segment.KeepFromFirstAI,
		TestFraction:     0.2,
	}
}

type Result struct {
	Samples []dataset.Sample
	Errors  []error
}

// Prepare turns records into training samples: optional prompt merge, human
// label prefix, then subsampling. Each record draws from its own source
// seeded by (Seed, record index), so output does not depend on scheduling.
func Prepare(ctx context.Context, records []dataset.Record, opts Options, logger Logger) Result {
	perRecord := make([][]dataset.Sample, len(records))
	errs := Run(ctx, len(records), opts.Workers, func(i int) error {
		rng := segment.NewSource(opts.Seed, uint64(i))
		samples, err := prepareRecord(records[i], rng, opts)
		if err != nil {
			logf(logger, "WARN", "record skipped", fmt.Sprintf("id=%s err=%v", records[i].ID, err))
			return err
		}
		perRecord[i] = samples
		logf(logger, "DEBUG", "record prepared", fmt.Sprintf("id=%s samples=%d", records[i].ID, len(samples)))
		return nil
	})

	out := Result{Errors: errs}
	for _, samples := range perRecord {
		out.Samples = append(out.Samples, samples...)
	}
	logf(logger, "INFO", "prepare finished", fmt.Sprintf("records=%d samples=%d errors=%d", len(records), len(out.Samples), len(errs)))
	return out
}

type piece struct {
	index  int
	text   string
	labels []int
}

func prepareRecord(rec dataset.Record, rng segment.Source, opts Options) ([]dataset.Sample, error) {
	labels := rec.WordLabels()
	if labels == nil {
		return nil, fmt.Errorf("record %s: no labels: %w", rec.ID, segment.ErrInvalidArgument)
	}
	pieces, err := splitRecord(rec, labels, opts)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.ID, err)
	}

	merger := segment.NewMerger(rng)
	sub := segment.NewSubsampler(rng)
	sub.MinWords = opts.MinWords
	sub.MaxWords = opts.MaxWords
	sub.Policy = opts.Policy
	split := dataset.SplitFor(rec.ID, opts.TestFraction)

	count := max(opts.SamplesPerRecord, 1)
	out := make([]dataset.Sample, 0, count*len(pieces))
	for range count {
		for _, p := range pieces {
			text, pieceLabels := p.text, p.labels
			merged := segment.MergeResult{Text: text}
			mergeable := opts.MergePrompts && rec.Prompt != "" && p.index == 0
			if mergeable {
				merged, err = merger.Merge(rec.Prompt, text)
				if err != nil {
					return nil, fmt.Errorf("record %s: %w", rec.ID, err)
				}
				text = merged.Text
				pieceLabels = segment.PrefixLabels(merged.CntFirstHuman, pieceLabels)
			}

			res, err := sub.Subsample(text, pieceLabels)
			if err != nil {
				return nil, fmt.Errorf("record %s sample %d: %w", rec.ID, len(out), err)
			}
			out = append(out, dataset.Sample{
				RecordID:      rec.ID,
				Index:         len(out),
				Split:         split,
				Source:        rec.Source,
				Text:          res.Text,
				Labels:        res.Labels,
				CntFirstHuman: merged.CntFirstHuman,
				Mergeable:     mergeable,
				Merged:        merged.Merged(),
				Start:         res.Start,
				WordCount:     len(res.Labels),
			})
		}
	}
	return out, nil
}

func splitRecord(rec dataset.Record, labels []int, opts Options) ([]piece, error) {
	if opts.WindowWords <= 0 {
		return []piece{{index: 0, text: rec.Text, labels: labels}}, nil
	}
	segments, err := chunk.LabeledWindows(rec.Text, labels, opts.WindowWords, opts.WindowOverlap)
	if err != nil {
		return nil, err
	}
	leading := rec.Text[:len(rec.Text)-len(strings.TrimLeftFunc(rec.Text, unicode.IsSpace))]
	pieces := make([]piece, 0, len(segments))
	for _, s := range segments {
		text := s.Text
		if s.Index == 0 {
			text = leading + text
		}
		pieces = append(pieces, piece{index: s.Index, text: text, labels: s.Labels})
	}
	return pieces, nil
}

func logf(logger Logger, level, message, detail string) {
	if logger != nil {
		logger.Log(level, "PIPELINE", message, detail)
	}
}
