package contracts

import "time"

// SentimentObservation is one scored news article for a ticker.
// ⭐ SSOT: センチメント集計への入力はこの型だけ
type SentimentObservation struct {
	Score       float64    `json:"score"`        // -1.0 ~ 1.0
	Confidence  float64    `json:"confidence"`   // 0.0 ~ 1.0, 0 = unknown
	PublishedAt *time.Time `json:"published_at"` // nil = publish time unknown
}

// ArticleRef is a compact reference to a scored article, kept for audit
type ArticleRef struct {
	Title       string     `json:"title"`
	Sentiment   float64    `json:"sentiment"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// SentimentSummary is the decayed aggregate over one ticker's observations.
// ArticleCount == 0 means "no data", which is distinct from an all-neutral
// set of articles.
type SentimentSummary struct {
	Ticker         string       `json:"ticker"`
	Score          float64      `json:"sentiment_score"` // -1.0 ~ 1.0, rounded to 4dp
	ArticleCount   int          `json:"article_count"`
	PositiveCount  int          `json:"positive_count"`
	NegativeCount  int          `json:"negative_count"`
	NeutralCount   int          `json:"neutral_count"`
	LatestArticles []ArticleRef `json:"latest_articles,omitempty"`
}

// HasData reports whether any observation backed this summary
func (s SentimentSummary) HasData() bool {
	return s.ArticleCount > 0
}

// TechnicalResult is the technical analyzer output for one ticker
type TechnicalResult struct {
	Ticker string `json:"ticker"`

	// サブ軸スコア
	TrendScore     float64 `json:"trend_score"`      // -1.0 ~ 1.0
	MomentumScore  float64 `json:"momentum_score"`   // -1.0 ~ 1.0
	StabilityScore float64 `json:"volatility_score"` // 0.0 ~ 1.0 (高い = 安定)
	VolumeScore    float64 `json:"volume_score"`     // -1.0 ~ 1.0

	CompositeScore float64            `json:"composite_score"` // 0 ~ 100
	Signals        []string           `json:"signals"`
	Indicators     map[string]float64 `json:"indicators"`
}

// FundamentalResult is the fundamental analyzer output for one ticker
type FundamentalResult struct {
	Ticker string `json:"ticker"`

	ValuationScore     float64 `json:"valuation_score"`     // 0 ~ 100
	ProfitabilityScore float64 `json:"profitability_score"` // 0 ~ 100
	GrowthScore        float64 `json:"growth_score"`        // 0 ~ 100
	DividendScore      float64 `json:"dividend_score"`      // 0 ~ 100

	CompositeScore float64            `json:"composite_score"` // 0 ~ 100
	Metrics        map[string]float64 `json:"metrics"`
	Signals        []string           `json:"signals"`
}

// MacroIndicators holds the daily macro snapshot. Every field is nullable
// because any individual fetch may fail; the macro scorer works with
// whatever is present.
type MacroIndicators struct {
	USDJPY          *float64 `json:"usdjpy"`
	USDJPYChange    *float64 `json:"usdjpy_change"`
	Nikkei225       *float64 `json:"nikkei225"`
	Nikkei225Change *float64 `json:"nikkei225_change"`
	Topix           *float64 `json:"topix"`
	TopixChange     *float64 `json:"topix_change"`
	SP500           *float64 `json:"sp500"`
	SP500Change     *float64 `json:"sp500_change"`
	VIX             *float64 `json:"vix"`
	VIXChange       *float64 `json:"vix_change"`
	US10Y           *float64 `json:"us10y_yield"`
	US10YChange     *float64 `json:"us10y_change"`
	Oil             *float64 `json:"oil"`
	OilChange       *float64 `json:"oil_change"`
	Gold            *float64 `json:"gold"`
	GoldChange      *float64 `json:"gold_change"`

	CollectedAt time.Time `json:"collected_at"`
}

// ComponentScores holds the five factor scores, each on 0~100
type ComponentScores struct {
	Sentiment   float64 `json:"sentiment"`
	Technical   float64 `json:"technical"`
	Fundamental float64 `json:"fundamental"`
	Macro       float64 `json:"macro"`
	Risk        float64 `json:"risk"`
}

// ScoreDetails retains the raw sub-results for audit and debugging
type ScoreDetails struct {
	Sentiment           *SentimentSummary  `json:"sentiment,omitempty"`
	TechnicalIndicators map[string]float64 `json:"technical_indicators,omitempty"`
	FundamentalMetrics  map[string]float64 `json:"fundamental_metrics,omitempty"`
}

// ScoreResult is the final per-ticker record produced by the multi-factor
// scorer. Created once per ticker per run, never mutated afterwards.
type ScoreResult struct {
	Ticker     string          `json:"ticker"`
	Name       string          `json:"name,omitempty"`
	Sector     string          `json:"sector,omitempty"`
	TotalScore float64         `json:"total_score"` // 0 ~ 100, 1dp
	Rating     string          `json:"rating"`
	RatingIcon string          `json:"rating_icon"`
	Scores     ComponentScores `json:"scores"`
	Signals    []string        `json:"signals"`
	Details    ScoreDetails    `json:"details"`
}
