package sentiment

import (
	"math"
	"time"

	"github.com/wonny/ichiba/internal/contracts"
)

// nonNeutralThreshold separates positive/negative articles from neutral
// ones when counting. |score| <= 0.1 counts as neutral.
const nonNeutralThreshold = 0.1

// Aggregate computes the time-decayed weighted sentiment over one
// ticker's observations. Callers pass observations already restricted
// to the analysis window.
//
// Each observation weighs decay^ageDays * confidence, where a zero
// confidence counts as 0.5 and a missing publish time is treated as
// sitting in the middle of the window. A zero total weight (all
// observations infinitely old) yields score 0.0, which still reports
// the article counts: データなしとは区別される。
func Aggregate(ticker string, obs []contracts.SentimentObservation, windowDays int, decay float64, now time.Time) contracts.SentimentSummary {
	summary := contracts.SentimentSummary{Ticker: ticker}
	if len(obs) == 0 {
		return summary
	}

	var weightedSum, weightTotal float64
	for _, o := range obs {
		var ageDays float64
		if o.PublishedAt != nil {
			ageDays = now.Sub(*o.PublishedAt).Hours() / 24
		} else {
			ageDays = float64(windowDays) / 2
		}

		confidence := o.Confidence
		if confidence == 0 {
			confidence = 0.5
		}

		w := math.Pow(decay, ageDays) * confidence
		weightedSum += o.Score * w
		weightTotal += w

		switch {
		case o.Score > nonNeutralThreshold:
			summary.PositiveCount++
		case o.Score < -nonNeutralThreshold:
			summary.NegativeCount++
		default:
			summary.NeutralCount++
		}
	}

	if weightTotal > 0 {
		summary.Score = round4(weightedSum / weightTotal)
	}
	summary.ArticleCount = len(obs)

	return summary
}
