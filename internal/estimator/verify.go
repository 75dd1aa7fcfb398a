package estimator

import "math"

// DefaultTolerance is the ratio slack the verification helpers allow for
// timing noise.
const DefaultTolerance = 3.0

// IsConstantTime reports whether the large-input time stays within tolerance
// of the small-input time, suggesting O(1) behavior. A zero small time only
// passes when the large time is effectively zero too.
func IsConstantTime(small, large, tolerance float64) bool {
	if small == 0 {
		return large < 1e-6
	}
	return large/small < tolerance
}

// IsLinearTime reports whether the time ratio tracks the size ratio within
// tolerance. A zero small time is below measurement resolution and passes.
func IsLinearTime(small, large, sizeRatio, tolerance float64) bool {
	if small == 0 {
		return true
	}
	return large/small < sizeRatio*tolerance
}

// IsLogarithmicTime reports whether the time ratio tracks
// log2(largeN)/log2(smallN) within tolerance.
func IsLogarithmicTime(small, large float64, smallN, largeN int, tolerance float64) bool {
	if small == 0 {
		return true
	}
	expected := math.Log2(float64(largeN)) / math.Log2(float64(smallN))
	return large/small < expected*tolerance
}
