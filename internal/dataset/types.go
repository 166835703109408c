package dataset

import (
	"crypto/sha256"
	"encoding/hex"

	"segprep/internal/segment"
)

const (
	SplitTrain = "train"
	SplitTest  = "test"
)

type Record struct {
	ID     string `json:"id,omitempty"`
	Prompt string `json:"prompt,omitempty"`
	Text   string `json:"text"`
	Labels []int  `json:"labels,omitempty"`
	Label  *int   `json:"label,omitempty"`
	Source string `json:"source,omitempty"`
}

// WordLabels returns the per-word labels, expanding a whole-text label when
// no per-word sequence is present.
func (r Record) WordLabels() []int {
	if r.Labels != nil {
		return r.Labels
	}
	if r.Label != nil {
		return segment.UniformLabels(r.Text, *r.Label)
	}
	return nil
}

type Sample struct {
	RecordID      string `json:"record_id"`
	Index         int    `json:"index"`
	Split         string `json:"split"`
	Source        string `json:"source,omitempty"`
	Text          string `json:"text"`
	Labels        []int  `json:"labels"`
	CntFirstHuman int    `json:"cnt_first_human"`
	// Mergeable marks samples that went through a merge draw: the first
	// piece of a record with a prompt while merging is enabled.
	Mergeable bool `json:"mergeable"`
	Merged    bool `json:"merged"`
	Start     int  `json:"start"`
	WordCount int  `json:"word_count"`
}

func recordID(r Record) string {
	sum := sha256.Sum256([]byte(r.Source + "\x00" + r.Prompt + "\x00" + r.Text))
	return hex.EncodeToString(sum[:])[:12]
}
