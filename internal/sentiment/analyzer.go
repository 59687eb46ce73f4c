package sentiment

import (
	"context"
	"math"
	"strings"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/pkg/logger"
)

// Result is one text's sentiment classification
type Result struct {
	Score      float64 `json:"score"`      // -1.0 ~ 1.0
	Label      string  `json:"label"`      // "positive" / "neutral" / "negative"
	Confidence float64 `json:"confidence"` // 0.0 ~ 1.0
	Method     string  `json:"method"`     // strategy that produced the result
}

// Strategy classifies one text's sentiment. Implementations must be
// safe for concurrent use.
type Strategy interface {
	AnalyzeText(ctx context.Context, text string) Result
	Method() string
}

// Classifier is an external sentiment model (e.g. a FinBERT inference
// endpoint). It returns class probabilities over positive/negative/neutral.
type Classifier interface {
	Classify(ctx context.Context, text string) (positive, negative, neutral float64, err error)
}

// --- keyword strategy ---

// KeywordStrategy is the dictionary-based analyzer. It needs no
// external service and is the fallback for the model-backed strategy.
type KeywordStrategy struct {
	positive []string
	negative []string
}

// NewKeywordStrategy builds a keyword analyzer for a market
func NewKeywordStrategy(market string) *KeywordStrategy {
	pos, neg := keywordsForMarket(market)
	return &KeywordStrategy{positive: pos, negative: neg}
}

func (s *KeywordStrategy) Method() string { return "keyword" }

// AnalyzeText scores a text by counting dictionary hits.
// score = (pos - neg) / (pos + neg), confidence = min(0.8, hits * 0.1).
func (s *KeywordStrategy) AnalyzeText(_ context.Context, text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Label: "neutral", Method: "none"}
	}

	var pos, neg int
	for _, kw := range s.positive {
		if strings.Contains(text, kw) {
			pos++
		}
	}
	for _, kw := range s.negative {
		if strings.Contains(text, kw) {
			neg++
		}
	}

	total := pos + neg
	if total == 0 {
		return Result{Label: "neutral", Confidence: 0.3, Method: "keyword"}
	}

	score := float64(pos-neg) / float64(total)
	confidence := math.Min(0.8, float64(total)*0.1)

	return Result{
		Score:      round4(score),
		Label:      labelFor(score),
		Confidence: round4(confidence),
		Method:     "keyword",
	}
}

// --- model strategy ---

// ModelStrategy classifies via an injected model and falls back to the
// keyword strategy when the model errors.
type ModelStrategy struct {
	classifier Classifier
	fallback   *KeywordStrategy
	log        *logger.Logger
}

// NewModelStrategy builds a model-backed analyzer with keyword fallback
func NewModelStrategy(classifier Classifier, market string, log *logger.Logger) *ModelStrategy {
	return &ModelStrategy{
		classifier: classifier,
		fallback:   NewKeywordStrategy(market),
		log:        log,
	}
}

func (s *ModelStrategy) Method() string { return "model" }

// AnalyzeText scores a text via the model: score = P(pos) - P(neg),
// confidence = max class probability.
func (s *ModelStrategy) AnalyzeText(ctx context.Context, text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Label: "neutral", Method: "none"}
	}

	pos, neg, neu, err := s.classifier.Classify(ctx, text)
	if err != nil {
		s.log.WithError(err).Warn("Model classification failed, falling back to keywords")
		return s.fallback.AnalyzeText(ctx, text)
	}

	score := pos - neg
	confidence := math.Max(pos, math.Max(neg, neu))

	label := "neutral"
	switch {
	case pos > neg && pos > neu:
		label = "positive"
	case neg > pos && neg > neu:
		label = "negative"
	}

	return Result{
		Score:      round4(score),
		Label:      label,
		Confidence: round4(confidence),
		Method:     "model",
	}
}

// --- analyzer ---

// Analyzer scores unscored articles and writes the results back
type Analyzer struct {
	strategy Strategy
	news     contracts.NewsRepository
	log      *logger.Logger
}

// NewAnalyzer creates an article analyzer
func NewAnalyzer(strategy Strategy, news contracts.NewsRepository, log *logger.Logger) *Analyzer {
	return &Analyzer{strategy: strategy, news: news, log: log}
}

// AnalyzeUnscored fetches up to limit unscored articles, classifies
// title+content, and persists the scores. Returns the scored count.
func (a *Analyzer) AnalyzeUnscored(ctx context.Context, limit int) (int, error) {
	articles, err := a.news.GetUnscored(ctx, limit)
	if err != nil {
		return 0, err
	}

	scored := 0
	for _, article := range articles {
		text := article.Title
		if article.Content != "" {
			text += " " + article.Content
		}

		result := a.strategy.AnalyzeText(ctx, text)
		if err := a.news.UpdateSentiment(ctx, article.ID, result.Score, result.Confidence, result.Method); err != nil {
			a.log.WithError(err).WithField("article_id", article.ID).Warn("Failed to save sentiment")
			continue
		}
		scored++
	}

	a.log.WithFields(map[string]interface{}{
		"scored": scored,
		"total":  len(articles),
	}).Info("🧠 センチメント分析完了")

	return scored, nil
}

func labelFor(score float64) string {
	switch {
	case score > 0.1:
		return "positive"
	case score < -0.1:
		return "negative"
	default:
		return "neutral"
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
