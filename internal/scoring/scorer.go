package scoring

import (
	"errors"
	"fmt"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/pkg/config"
	"github.com/wonny/ichiba/pkg/logger"
)

// ErrMissingTicker is returned when Score is called without a ticker
var ErrMissingTicker = errors.New("scoring: ticker is required")

const (
	neutralScore     = 50.0 // 0~100 scale neutral
	neutralStability = 0.5
)

// Scorer combines the per-factor results into one total score and
// rating. Weights are applied exactly as configured; the config layer
// is responsible for normalizing them once at load time.
type Scorer struct {
	weights config.Weights
	log     *logger.Logger
}

// NewScorer creates a multi-factor scorer
func NewScorer(weights config.Weights, log *logger.Logger) *Scorer {
	return &Scorer{weights: weights, log: log}
}

// Score produces the final ScoreResult for one ticker. Any factor input
// may be nil, in which case its neutral default is used: sentiment 0.0
// (→ 50), technical composite 50 with stability 0.5, fundamental 50.
// Missing inputs never fail the ticker.
func (s *Scorer) Score(
	ticker string,
	sentiment *contracts.SentimentSummary,
	technical *contracts.TechnicalResult,
	fundamental *contracts.FundamentalResult,
	macroScore float64,
) (*contracts.ScoreResult, error) {
	if ticker == "" {
		return nil, ErrMissingTicker
	}

	// 各ファクターを 0~100 に揃える
	sentimentScore := neutralScore
	if sentiment != nil {
		sentimentScore = NormalizeSentiment(sentiment.Score)
	}

	technicalScore := neutralScore
	stability := neutralStability
	if technical != nil {
		technicalScore = NormalizeComposite(technical.CompositeScore)
		stability = technical.StabilityScore
	}

	fundamentalScore := neutralScore
	if fundamental != nil {
		fundamentalScore = NormalizeComposite(fundamental.CompositeScore)
	}

	riskScore := RiskScore(stability)

	// Risk contributes as (100 - risk): lower risk raises the total
	total := sentimentScore*s.weights.Sentiment +
		technicalScore*s.weights.Technical +
		fundamentalScore*s.weights.Fundamental +
		macroScore*s.weights.Macro +
		(100-riskScore)*s.weights.Risk
	total = Round1(Clamp(total, 0, 100))

	rating := RatingFor(total)

	result := &contracts.ScoreResult{
		Ticker:     ticker,
		TotalScore: total,
		Rating:     rating.Label,
		RatingIcon: rating.Icon,
		Scores: contracts.ComponentScores{
			Sentiment:   Round1(sentimentScore),
			Technical:   Round1(technicalScore),
			Fundamental: Round1(fundamentalScore),
			Macro:       Round1(macroScore),
			Risk:        Round1(riskScore),
		},
		Signals: collectSignals(sentiment, technical, fundamental),
		Details: buildDetails(sentiment, technical, fundamental),
	}

	s.log.WithFields(map[string]interface{}{
		"ticker": ticker,
		"total":  total,
		"rating": rating.Label,
	}).Debug("Scored ticker")

	return result, nil
}

// collectSignals merges factor signals in a fixed order: technical,
// then fundamental, then the news volume summary.
func collectSignals(
	sentiment *contracts.SentimentSummary,
	technical *contracts.TechnicalResult,
	fundamental *contracts.FundamentalResult,
) []string {
	signals := []string{}
	if technical != nil {
		signals = append(signals, technical.Signals...)
	}
	if fundamental != nil {
		signals = append(signals, fundamental.Signals...)
	}
	if sentiment != nil && sentiment.ArticleCount > 0 {
		signals = append(signals, fmt.Sprintf(
			"📰 ニュース%d件 (ポジティブ:%d / ネガティブ:%d)",
			sentiment.ArticleCount, sentiment.PositiveCount, sentiment.NegativeCount))
	}
	return signals
}

func buildDetails(
	sentiment *contracts.SentimentSummary,
	technical *contracts.TechnicalResult,
	fundamental *contracts.FundamentalResult,
) contracts.ScoreDetails {
	details := contracts.ScoreDetails{Sentiment: sentiment}
	if technical != nil {
		details.TechnicalIndicators = technical.Indicators
	}
	if fundamental != nil {
		details.FundamentalMetrics = fundamental.Metrics
	}
	return details
}
