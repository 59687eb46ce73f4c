package scoring

import "math"

// NormalizeSentiment maps a sentiment score from -1.0~1.0 onto 0~100.
// -1.0 → 0, 0.0 → 50, 1.0 → 100.
func NormalizeSentiment(score float64) float64 {
	return (score + 1) / 2 * 100
}

// NormalizeComposite is the explicit pass-through for scores that are
// already on the 0~100 scale (technical, fundamental, macro composites).
// Callers must not re-normalize these.
func NormalizeComposite(score float64) float64 {
	return score
}

// RiskScore derives the risk score from the technical volatility
// stability sub-score. Stability is 0.0~1.0 where higher means calmer,
// so risk is the inversion: 高ボラ = 高リスク。
// This is the only inverted indicator in the pipeline.
func RiskScore(stability float64) float64 {
	return (1 - stability) * 100
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round1 rounds to one decimal place
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round4 rounds to four decimal places
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
