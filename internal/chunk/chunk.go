package chunk

import (
	"fmt"
	"strings"
)

type Segment struct {
	Index      int
	StartToken int
	EndToken   int
	Text       string
}

type LabeledSegment struct {
	Segment
	Labels []int
}

func SlidingWindow(text string, segmentTokens, overlapTokens int) []Segment {
	return WordWindows(strings.Fields(text), segmentTokens, overlapTokens)
}

// WordWindows cuts an already tokenized word stream into overlapping segments.
func WordWindows(tokens []string, segmentTokens, overlapTokens int) []Segment {
	bounds := windowBounds(len(tokens), segmentTokens, overlapTokens)
	segments := make([]Segment, 0, len(bounds))
	for _, b := range bounds {
		segments = append(segments, Segment{
			Index:      len(segments),
			StartToken: b[0],
			EndToken:   b[1],
			Text:       strings.Join(tokens[b[0]:b[1]], " "),
		})
	}
	return segments
}

// LabeledWindows cuts a labeled word sequence into overlapping windows that
// keep each word's label attached.
func LabeledWindows(text string, labels []int, segmentTokens, overlapTokens int) ([]LabeledSegment, error) {
	tokens := strings.Fields(text)
	if len(tokens) != len(labels) {
		return nil, fmt.Errorf("labeled windows: %d words but %d labels", len(tokens), len(labels))
	}
	bounds := windowBounds(len(tokens), segmentTokens, overlapTokens)
	segments := make([]LabeledSegment, 0, len(bounds))
	for _, b := range bounds {
		segments = append(segments, LabeledSegment{
			Segment: Segment{
				Index:      len(segments),
				StartToken: b[0],
				EndToken:   b[1],
				Text:       strings.Join(tokens[b[0]:b[1]], " "),
			},
			Labels: append([]int(nil), labels[b[0]:b[1]]...),
		})
	}
	return segments, nil
}

func windowBounds(total, segmentTokens, overlapTokens int) [][2]int {
	if segmentTokens <= 0 || total == 0 {
		return nil
	}
	if overlapTokens < 0 {
		overlapTokens = 0
	}
	if overlapTokens >= segmentTokens {
		overlapTokens = segmentTokens - 1
	}

	step := segmentTokens - overlapTokens
	bounds := make([][2]int, 0, (total/step)+1)
	for start := 0; start < total; start += step {
		end := min(start+segmentTokens, total)
		bounds = append(bounds, [2]int{start, end})
		if end == total {
			break
		}
	}
	return bounds
}
