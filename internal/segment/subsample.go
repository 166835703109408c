package segment

import (
	"fmt"
	"slices"
	"strings"
)

const (
	DefaultMinWords = 35
	DefaultMaxWords = 350
)

type SubsampleResult struct {
	Text   string `json:"text"`
	Labels []int  `json:"labels"`
	// Start is the input index of the first kept word.
	Start int `json:"start"`
	// Dropped counts the words removed by alternation narrowing only.
	Dropped int `json:"dropped"`
	// TrimmedHead and TrimmedTail report an edge word that actually lost characters.
	TrimmedHead bool `json:"trimmed_head"`
	TrimmedTail bool `json:"trimmed_tail"`
}

type Subsampler struct {
	MinWords int
	MaxWords int
	Policy   AlternationPolicy
	rng      Source
}

func NewSubsampler(rng Source) *Subsampler {
	return &Subsampler{
		MinWords: DefaultMinWords,
		MaxWords: DefaultMaxWords,
		Policy:   KeepFromFirstAI,
		rng:      rng,
	}
}

func (s *Subsampler) validate() error {
	if s.MinWords <= 0 {
		return fmt.Errorf("min words must be positive, got %d: %w", s.MinWords, ErrInvalidArgument)
	}
	if s.MaxWords < s.MinWords {
		return fmt.Errorf("max words %d below min words %d: %w", s.MaxWords, s.MinWords, ErrInvalidArgument)
	}
	return nil
}

// Subsample narrows a labeled word sequence to a window of MinWords..MaxWords
// words. Sequences of at most MinWords words come back unchanged.
func (s *Subsampler) Subsample(text string, labels []int) (SubsampleResult, error) {
	if err := s.validate(); err != nil {
		return SubsampleResult{}, err
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return SubsampleResult{}, fmt.Errorf("subsample: empty text: %w", ErrInvalidArgument)
	}
	if len(words) != len(labels) {
		return SubsampleResult{}, fmt.Errorf("subsample: %d words but %d labels: %w", len(words), len(labels), ErrInvalidArgument)
	}
	if err := ValidateLabels(labels); err != nil {
		return SubsampleResult{}, err
	}

	lo, hi, err := s.collapseAlternations(labels)
	if err != nil {
		return SubsampleResult{}, err
	}
	res := SubsampleResult{
		Start:   lo,
		Dropped: len(words) - (hi - lo),
	}
	words, labels = words[lo:hi], labels[lo:hi]

	if len(words) <= s.MinWords {
		res.Text = strings.Join(words, " ")
		res.Labels = slices.Clone(labels)
		return res, nil
	}

	n := len(words)
	cnt := intBetween(s.rng, s.MinWords, min(s.MaxWords, n))
	start := s.windowStart(labels, cnt)

	window := slices.Clone(words[start : start+cnt])
	if len(window) > 0 && s.rng.Float64() < 0.5 {
		window[0], res.TrimmedHead = trimHead(window[0], s.rng)
	}
	if len(window) > 0 && s.rng.Float64() < 0.5 {
		window[len(window)-1], res.TrimmedTail = trimTail(window[len(window)-1], s.rng)
	}

	res.Start += start
	res.Text = strings.Join(window, " ")
	res.Labels = slices.Clone(labels[start : start+cnt])
	return res, nil
}

// collapseAlternations repeatedly applies the alternation policy while the
// labels hold both a 0→1 and a 1→0 transition and the span exceeds MinWords.
func (s *Subsampler) collapseAlternations(labels []int) (lo, hi int, err error) {
	lo, hi = 0, len(labels)
	for hi-lo > s.MinWords {
		has01, has10 := classify(labels[lo:hi])
		if !has01 || !has10 {
			break
		}
		nlo, nhi := s.Policy.narrow(labels[lo:hi], s.rng)
		if nlo < 0 || nhi > hi-lo || nhi-nlo <= 0 || nhi-nlo >= hi-lo {
			return 0, 0, fmt.Errorf("alternation narrowing stalled at [%d,%d)", lo, hi)
		}
		lo, hi = lo+nlo, lo+nhi
	}
	return lo, hi, nil
}

// windowStart keeps a window near the human→AI boundary when the sequence
// opens with a partial human block.
func (s *Subsampler) windowStart(labels []int, cnt int) int {
	n := len(labels)
	zeros := leadingHuman(labels)
	if zeros > 0 && zeros < n {
		return intBetween(s.rng, max(zeros-cnt, 0), min(n-cnt, zeros))
	}
	return intBetween(s.rng, 0, n-cnt)
}

// trimHead drops a random leading rune range, possibly empty, and never the
// last rune.
func trimHead(word string, rng Source) (string, bool) {
	r := []rune(word)
	if len(r) == 0 {
		return word, false
	}
	cut := rng.IntN(len(r))
	return string(r[cut:]), cut > 0
}

// trimTail drops at least one trailing rune but keeps at least one, so
// single-rune words are left alone.
func trimTail(word string, rng Source) (string, bool) {
	r := []rune(word)
	if len(r) < 2 {
		return word, false
	}
	return string(r[:1+rng.IntN(len(r)-1)]), true
}
