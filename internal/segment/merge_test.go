package segment

import (
	"errors"
	"strings"
	"testing"
)

type fixedFloat struct {
	f    float64
	base Source
}

func (s fixedFloat) Float64() float64 { return s.f }

func (s fixedFloat) IntN(n int) int {
	if s.base == nil {
		return 0
	}
	return s.base.IntN(n)
}

func TestMergeRequiresPrompt(t *testing.T) {
	m := NewMerger(NewSource(1, 1))
	_, err := m.Merge("", "anything at all")
	if err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestMergeConcatenatesVerbatim(t *testing.T) {
	m := NewMerger(fixedFloat{f: 0})
	got, err := m.Merge("Write a story about", " a lighthouse keeper.")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if got.Text != "Write a story about a lighthouse keeper." {
		t.Fatalf("unexpected merged text %q", got.Text)
	}
	if got.CntFirstHuman != 4 || !got.Merged() {
		t.Fatalf("expected 4 human prompt words, got %d", got.CntFirstHuman)
	}

	glued, err := m.Merge("no trailing space", "continuation")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if glued.Text != "no trailing spacecontinuation" {
		t.Fatalf("expected no separator to be inserted, got %q", glued.Text)
	}
}

func TestMergePassThrough(t *testing.T) {
	m := NewMerger(fixedFloat{f: 0.99})
	got, err := m.Merge("prompt words here", "body text")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if got.Text != "body text" || got.CntFirstHuman != 0 || got.Merged() {
		t.Fatalf("expected untouched text, got %+v", got)
	}
}

func TestMergeCountAndRate(t *testing.T) {
	prompt := "  Tell me   about the\tsea "
	want := len(strings.Fields(prompt))
	m := NewMerger(NewSource(42, 7))

	const runs = 4000
	merged := 0
	for range runs {
		got, err := m.Merge(prompt, "the sea is wide")
		if err != nil {
			t.Fatalf("merge: %v", err)
		}
		switch got.CntFirstHuman {
		case 0:
		case want:
			merged++
		default:
			t.Fatalf("cnt_first_human must be 0 or %d, got %d", want, got.CntFirstHuman)
		}
	}
	rate := float64(merged) / runs
	if rate < MergeProbability-0.05 || rate > MergeProbability+0.05 {
		t.Fatalf("merge rate %.3f too far from %.3f", rate, MergeProbability)
	}
}
