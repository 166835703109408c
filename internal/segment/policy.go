package segment

import (
	"fmt"
	"strings"
)

// AlternationPolicy picks which side of a human→AI→human sequence survives narrowing.
type AlternationPolicy int

const (
	// KeepFromFirstAI drops everything before the first human→AI transition.
	KeepFromFirstAI AlternationPolicy = iota
	// KeepUntilFirstHuman drops everything from the first AI→human transition on.
	KeepUntilFirstHuman
	// KeepEither flips a fair coin between the two.
	KeepEither
)

var policyNames = map[AlternationPolicy]string{
	KeepFromFirstAI:     "keep-from-first-ai",
	KeepUntilFirstHuman: "keep-until-first-human",
	KeepEither:          "keep-either",
}

func (p AlternationPolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

func ParsePolicy(name string) (AlternationPolicy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return KeepFromFirstAI, nil
	}
	for p, n := range policyNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown alternation policy %q: %w", name, ErrInvalidArgument)
}

// narrow returns the half-open bounds, relative to labels, that survive one
// narrowing step. labels must contain both transition kinds.
func (p AlternationPolicy) narrow(labels []int, rng Source) (lo, hi int) {
	tail := func() (int, int) {
		return firstTransition(labels, Human, AI) + 1, len(labels)
	}
	head := func() (int, int) {
		return 0, firstTransition(labels, AI, Human) + 1
	}
	switch p {
	case KeepUntilFirstHuman:
		return head()
	case KeepEither:
		if rng.Float64() < 0.5 {
			return tail()
		}
		return head()
	default:
		return tail()
	}
}
