package stats

import (
	"fmt"
	"math"
	"strings"

	"segprep/internal/dataset"
	"segprep/internal/segment"
)

const mergeRateTolerance = 0.05

type Report struct {
	Samples      int
	Records      int
	TestFraction float64
	// MergeEligible counts samples that had a prompt to merge; MergedFraction
	// is taken over those only.
	MergeEligible    int
	MergedFraction   float64
	AIWordFraction   float64
	BoundaryFraction float64
	MeanWords        float64
	WordsSD          float64
	MinWords         int
	MaxWords         int
	Misaligned       int
	Flags            []string
}

func Analyze(samples []dataset.Sample) Report {
	report := Report{Samples: len(samples), Flags: []string{}}
	if len(samples) == 0 {
		report.Flags = append(report.Flags, "Empty: no samples to analyze")
		return report
	}

	records := map[string]struct{}{}
	lengths := make([]float64, 0, len(samples))
	eligible, merged, test, boundary := 0, 0, 0, 0
	aiWords, totalWords := 0, 0
	report.MinWords = math.MaxInt

	for _, s := range samples {
		records[s.RecordID] = struct{}{}
		n := len(s.Labels)
		lengths = append(lengths, float64(n))
		report.MinWords = min(report.MinWords, n)
		report.MaxWords = max(report.MaxWords, n)
		if len(strings.Fields(s.Text)) != n {
			report.Misaligned++
		}
		if s.Mergeable || s.Merged {
			eligible++
		}
		if s.Merged {
			merged++
		}
		if s.Split == dataset.SplitTest {
			test++
		}
		if hasBoundary(s.Labels) {
			boundary++
		}
		for _, l := range s.Labels {
			if l == segment.AI {
				aiWords++
			}
		}
		totalWords += n
	}

	report.Records = len(records)
	report.MergeEligible = eligible
	report.MergedFraction = ratio(merged, eligible)
	report.TestFraction = ratio(test, len(samples))
	report.BoundaryFraction = ratio(boundary, len(samples))
	report.AIWordFraction = ratio(aiWords, totalWords)
	report.MeanWords, report.WordsSD = meanStd(lengths)

	if report.Misaligned > 0 {
		report.Flags = append(report.Flags, fmt.Sprintf("Misaligned: %d samples have word/label count mismatch", report.Misaligned))
	}
	if eligible >= 200 && math.Abs(report.MergedFraction-segment.MergeProbability) > mergeRateTolerance {
		report.Flags = append(report.Flags, fmt.Sprintf("Merge rate %.3f deviates from expected %.3f", report.MergedFraction, segment.MergeProbability))
	}
	if boundary == 0 {
		report.Flags = append(report.Flags, "No boundaries: no sample contains a human/AI transition")
	}
	if aiWords == 0 || aiWords == totalWords {
		report.Flags = append(report.Flags, "Single class: every word carries the same label")
	}
	return report
}

func hasBoundary(labels []int) bool {
	for i := 0; i+1 < len(labels); i++ {
		if labels[i] != labels[i+1] {
			return true
		}
	}
	return false
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

func meanStd(values []float64) (mean, sd float64) {
	if len(values) == 0 {
		return 0, 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	mean = total / float64(len(values))
	if len(values) == 1 {
		return mean, 0
	}
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}
