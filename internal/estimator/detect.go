package estimator

import "math"

// Model display names, in fitting order. Fitting walks them simplest first
// and prefers the earlier model when scores are effectively tied.
const (
	ModelConstant     = "O(1) (Constant)"
	ModelLogarithmic  = "O(log n) (Logarithmic)"
	ModelLinear       = "O(n) (Linear)"
	ModelLinearithmic = "O(n log n) (Linearithmic)"
	ModelQuadratic    = "O(n^2) (Quadratic)"
)

// relativeEps is the tolerance used both for preferring simpler models and
// for triggering the linear vs linearithmic tie-break.
const relativeEps = 0.05

type candidate struct {
	name     string
	priority int
	curve    func(n float64) float64
}

func candidates() []candidate {
	return []candidate{
		{ModelConstant, 0, func(float64) float64 { return 1 }},
		{ModelLogarithmic, 1, func(n float64) float64 {
			if n <= 0 {
				return 0
			}
			return math.Log(n)
		}},
		{ModelLinear, 2, func(n float64) float64 { return n }},
		{ModelLinearithmic, 3, func(n float64) float64 {
			if n <= 0 {
				return 0
			}
			return n * math.Log(n)
		}},
		{ModelQuadratic, 4, func(n float64) float64 { return n * n }},
	}
}

// Sample pairs an input size with its mean execution time in seconds.
type Sample struct {
	Size    int     `json:"size"`
	Seconds float64 `json:"seconds"`
}

// Estimate is the outcome of fitting timing samples against the candidate
// curves. Scores holds the RMSE of every model that produced a valid fit.
type Estimate struct {
	Name    string             `json:"name"`
	RMSE    float64            `json:"rmse"`
	Scores  map[string]float64 `json:"scores"`
	Samples []Sample           `json:"samples,omitempty"`
}

// Detect fits the candidate complexity curves to the measured times and
// returns the best match. Times are normalized by their minimum so fits are
// comparable across models. It reports ok=false when fewer than three
// samples are available. Extra entries in the longer slice are ignored.
func Detect(sizes []int, seconds []float64) (Estimate, bool) {
	count := len(sizes)
	if len(seconds) < count {
		count = len(seconds)
	}
	if count < 3 {
		return Estimate{}, false
	}
	sizes = sizes[:count]
	seconds = seconds[:count]

	minTime := seconds[0]
	for _, t := range seconds[1:] {
		if t < minTime {
			minTime = t
		}
	}
	if minTime <= 0 {
		minTime = 1e-9
	}
	normalized := make([]float64, count)
	for i, t := range seconds {
		normalized[i] = t / minTime
	}

	best, scores := scoreModels(sizes, normalized)
	if best.Name == ModelLinear || best.Name == ModelLinearithmic {
		if name, rmse, ok := tieBreakLinearVsNlogn(sizes, seconds, scores); ok {
			best.Name = name
			best.RMSE = rmse
		}
	}
	if best.Name == "" {
		return Estimate{}, false
	}

	best.Scores = scores
	best.Samples = make([]Sample, count)
	for i := range best.Samples {
		best.Samples[i] = Sample{Size: sizes[i], Seconds: seconds[i]}
	}
	return best, true
}

func scoreModels(sizes []int, normalized []float64) (Estimate, map[string]float64) {
	var (
		best     Estimate
		bestSet  bool
		priority = map[string]int{}
		scores   = map[string]float64{}
	)

	for _, model := range candidates() {
		priority[model.name] = model.priority
		theoretical := make([]float64, len(sizes))
		for i, n := range sizes {
			theoretical[i] = model.curve(float64(n))
		}
		residuals, ok := fitResiduals(normalized, theoretical)
		if !ok {
			continue
		}

		var sq float64
		for _, r := range residuals {
			sq += r * r
		}
		rmse := math.Sqrt(sq / float64(len(residuals)))
		scores[model.name] = rmse

		if !bestSet {
			best = Estimate{Name: model.name, RMSE: rmse}
			bestSet = true
			continue
		}

		// Tolerate timing noise: comparable fits go to the simpler model.
		threshold := relativeEps * best.RMSE
		if best.RMSE <= 0 {
			threshold = 1e-9
		}
		switch {
		case rmse < best.RMSE-threshold:
			best = Estimate{Name: model.name, RMSE: rmse}
		case math.Abs(rmse-best.RMSE) <= threshold && model.priority < priority[best.Name]:
			best = Estimate{Name: model.name, RMSE: rmse}
		}
	}

	return best, scores
}

// fitResiduals fits t = a*f(n) + b by least squares and returns the
// residuals. A constant curve (every theoretical value equal) fits the mean
// instead. Models with a degenerate system or a non-positive slope do not
// explain growth and are rejected.
func fitResiduals(normalized, theoretical []float64) ([]float64, bool) {
	constant := true
	for _, x := range theoretical[1:] {
		if x != theoretical[0] {
			constant = false
			break
		}
	}
	if constant {
		var mean float64
		for _, t := range normalized {
			mean += t
		}
		mean /= float64(len(normalized))
		residuals := make([]float64, len(normalized))
		for i, t := range normalized {
			residuals[i] = t - mean
		}
		return residuals, true
	}

	n := float64(len(theoretical))
	var sumX, sumY, sumXX, sumXY float64
	for i, x := range theoretical {
		y := normalized[i]
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	denom := n*sumXX - sumX*sumX
	if math.Abs(denom) < 1e-12 {
		return nil, false
	}
	a := (n*sumXY - sumX*sumY) / denom
	b := (sumY - a*sumX) / n
	if a <= 1e-12 {
		return nil, false
	}

	residuals := make([]float64, len(normalized))
	for i, t := range normalized {
		residuals[i] = t - (a*theoretical[i] + b)
	}
	return residuals, true
}

// tieBreakLinearVsNlogn separates the two hardest-to-distinguish models.
// When their scores sit within the noise tolerance of each other, a log-log
// regression over the raw samples decides: a slope near 1.0 means linear,
// a slope near 1 + 1/ln(n_mid) means linearithmic.
func tieBreakLinearVsNlogn(sizes []int, seconds []float64, scores map[string]float64) (string, float64, bool) {
	linearRMSE, hasLinear := scores[ModelLinear]
	nlognRMSE, hasNlogn := scores[ModelLinearithmic]
	if !hasLinear || !hasNlogn {
		return "", 0, false
	}

	threshold := relativeEps * math.Min(linearRMSE, nlognRMSE)
	if math.Abs(linearRMSE-nlognRMSE) > threshold {
		return "", 0, false
	}

	// log(1) = 0 would collapse the regression, so keep n > 1 pairs only.
	var logN, logT []float64
	for i, n := range sizes {
		if n > 1 && seconds[i] > 0 {
			logN = append(logN, math.Log(float64(n)))
			logT = append(logT, math.Log(seconds[i]))
		}
	}
	if len(logN) < 2 {
		return "", 0, false
	}

	var meanLN, meanLT float64
	for i := range logN {
		meanLN += logN[i]
		meanLT += logT[i]
	}
	meanLN /= float64(len(logN))
	meanLT /= float64(len(logT))

	var varLN, cov float64
	for i := range logN {
		varLN += (logN[i] - meanLN) * (logN[i] - meanLN)
		cov += (logN[i] - meanLN) * (logT[i] - meanLT)
	}
	if varLN == 0 {
		return "", 0, false
	}

	slope := cov / varLN
	nMid := math.Exp(meanLN)
	lnMid := math.Log(nMid)
	if math.Abs(lnMid) < 1e-6 {
		return "", 0, false
	}
	targetNlogn := 1.0 + 1.0/lnMid

	if math.Abs(slope-1.0) <= math.Abs(slope-targetNlogn) {
		return ModelLinear, linearRMSE, true
	}
	return ModelLinearithmic, nlognRMSE, true
}
