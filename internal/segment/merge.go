package segment

import (
	"fmt"
	"strings"
)

// MergeProbability is the chance that a prompt is prepended to its continuation.
const MergeProbability = 40.0 / (25.0 + 40.0)

type MergeResult struct {
	Text          string `json:"text"`
	CntFirstHuman int    `json:"cnt_first_human"`
}

func (r MergeResult) Merged() bool {
	return r.CntFirstHuman > 0
}

type Merger struct {
	rng Source
}

func NewMerger(rng Source) *Merger {
	return &Merger{rng: rng}
}

// Merge concatenates prompt and text verbatim with probability MergeProbability.
// CntFirstHuman counts the prompt words on a merge and is 0 otherwise.
func (m *Merger) Merge(prompt, text string) (MergeResult, error) {
	if prompt == "" {
		return MergeResult{}, fmt.Errorf("a prompt is required for merging: %w", ErrInvalidArgument)
	}
	if m.rng.Float64() < MergeProbability {
		return MergeResult{
			Text:          prompt + text,
			CntFirstHuman: len(strings.Fields(prompt)),
		}, nil
	}
	return MergeResult{Text: text}, nil
}
