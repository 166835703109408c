package segment

import (
	"fmt"
	"strings"
)

const (
	Human = 0
	AI    = 1
)

func ValidateLabels(labels []int) error {
	for i, l := range labels {
		if l != Human && l != AI {
			return fmt.Errorf("label %d at word %d is not 0 or 1: %w", l, i, ErrInvalidArgument)
		}
	}
	return nil
}

// PrefixLabels marks the first cnt words human and appends the body labels.
func PrefixLabels(cnt int, body []int) []int {
	if cnt < 0 {
		cnt = 0
	}
	out := make([]int, cnt, cnt+len(body))
	return append(out, body...)
}

// UniformLabels gives every whitespace word of text the same label.
func UniformLabels(text string, label int) []int {
	words := strings.Fields(text)
	out := make([]int, len(words))
	for i := range out {
		out[i] = label
	}
	return out
}

func classify(labels []int) (has01, has10 bool) {
	for i := 0; i+1 < len(labels); i++ {
		if labels[i] == Human && labels[i+1] == AI {
			has01 = true
		}
		if labels[i] == AI && labels[i+1] == Human {
			has10 = true
		}
	}
	return has01, has10
}

func leadingHuman(labels []int) int {
	n := 0
	for _, l := range labels {
		if l != Human {
			break
		}
		n++
	}
	return n
}

func firstTransition(labels []int, from, to int) int {
	for i := 0; i+1 < len(labels); i++ {
		if labels[i] == from && labels[i+1] == to {
			return i
		}
	}
	return -1
}
