package estimator

import (
	"context"
	"sort"
	"time"
)

// DefaultSizes are the input sizes measured when the caller supplies none.
var DefaultSizes = []int{100, 500, 1000, 2000, 5000}

const (
	// DefaultIterations is how many timed calls Measure averages per size.
	DefaultIterations = 5
	// DefaultLoopIterations is how many samples MeasureLoop collects.
	DefaultLoopIterations = 100
	// DefaultTrimFraction is the share trimmed from each tail by MeasureLoop.
	DefaultTrimFraction = 0.1
)

// Measure times fn(n): one warmup call to shed cold-start noise, then
// iterations timed calls, returning the mean seconds per call. The context
// is only consulted before the warmup so cancellation checks never leak
// into the timed region.
func Measure(ctx context.Context, fn func(int), n, iterations int) (float64, error) {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	fn(n)
	start := time.Now()
	for i := 0; i < iterations; i++ {
		fn(n)
	}
	elapsed := time.Since(start).Seconds()
	return elapsed / float64(iterations), nil
}

// MeasureLoop samples fn iterations times (default 100) and returns the
// trimmed mean of the per-call durations in seconds. Trimming discards the
// slowest and fastest tails so scheduler hiccups do not skew comparisons.
func MeasureLoop(fn func(), iterations int) float64 {
	if iterations <= 0 {
		iterations = DefaultLoopIterations
	}
	samples := make([]float64, 0, iterations)
	for i := 0; i < iterations; i++ {
		start := time.Now()
		fn()
		samples = append(samples, time.Since(start).Seconds())
	}
	return TrimmedMean(samples, DefaultTrimFraction)
}

// TrimmedMean returns the mean of samples after dropping int(len*fraction)
// entries from each tail. Empty input yields 0; when trimming would consume
// the whole sample set the plain mean is returned instead.
func TrimmedMean(samples []float64, fraction float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	if fraction <= 0 {
		return mean(samples)
	}
	k := int(float64(len(samples)) * fraction)
	if len(samples)-2*k <= 0 {
		return mean(samples)
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	return mean(sorted[k : len(sorted)-k])
}

func mean(samples []float64) float64 {
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}
