package dataset

import (
	"crypto/sha256"
	"encoding/binary"
)

const defaultTestSplitFraction = 0.2

// SplitFor deterministically assigns a record id to train or test.
func SplitFor(id string, testFraction float64) string {
	fraction := testFraction
	if fraction <= 0 || fraction >= 1 {
		fraction = defaultTestSplitFraction
	}
	threshold := uint64(float64(^uint64(0)) * fraction)
	if stableUint64(id) <= threshold {
		return SplitTest
	}
	return SplitTrain
}

func stableUint64(input string) uint64 {
	sum := sha256.Sum256([]byte(input))
	return binary.BigEndian.Uint64(sum[:8])
}
