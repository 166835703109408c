package ingest

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"

	"segprep/internal/chunk"
	"segprep/internal/dataset"
	"segprep/internal/segment"
)

type RecordOptions struct {
	SegmentWords int
	OverlapWords int
	PromptWords  int
}

// ExpandInputs resolves each pattern (plain path or ** glob) to files,
// de-duplicated and sorted.
func ExpandInputs(patterns []string) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return nil, fmt.Errorf("invalid input pattern %q", p)
		}
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", p)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// HumanRecords splits a document into human-authored records. The first
// PromptWords words of each segment become the prompt and the rest the
// continuation, which keeps a leading space so a verbatim merge does not glue
// the two halves into one word.
func HumanRecords(doc *Document, opts RecordOptions) []dataset.Record {
	if doc == nil {
		return nil
	}
	segments := chunk.WordWindows(normalizeWords(doc.Words), opts.SegmentWords, opts.OverlapWords)
	out := make([]dataset.Record, 0, len(segments))
	for _, seg := range segments {
		words := strings.Fields(seg.Text)
		label := segment.Human
		rec := dataset.Record{
			ID:     fmt.Sprintf("%s-%04d", slug(doc.Title), seg.Index),
			Text:   seg.Text,
			Label:  &label,
			Source: filepath.Base(doc.Path),
		}
		if split := min(max(opts.PromptWords, 0), len(words)-1); split > 0 {
			rec.Prompt = strings.Join(words[:split], " ")
			rec.Text = " " + strings.Join(words[split:], " ")
		}
		out = append(out, rec)
	}
	return out
}

// normalizeWords strips invisible format characters (soft hyphens, zero-width
// spaces and joiners, byte order marks) that extraction leaves inside words,
// and drops words left empty.
func normalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Map(func(r rune) rune {
			if unicode.Is(unicode.Cf, r) {
				return -1
			}
			return r
		}, w)
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

func slug(title string) string {
	title = strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	dash := false
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "doc"
	}
	return out
}
