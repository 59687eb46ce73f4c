package contracts

import "time"

// Stock is one instrument in the analysis universe
type Stock struct {
	Ticker string `json:"ticker"` // e.g. "6758.T"
	Name   string `json:"name"`
	Sector string `json:"sector"`
	Market string `json:"market"` // "JP" or "US"
}

// DailyPrice is one OHLCV bar
type DailyPrice struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// NewsArticle is one collected article, optionally sentiment-scored
type NewsArticle struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content,omitempty"`
	URL         string     `json:"url"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	// Set after sentiment analysis
	SentimentScore *float64 `json:"sentiment_score,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty"`
	Method         string   `json:"method,omitempty"` // "model" or "keyword"

	// Tickers this article was linked to
	Tickers []string `json:"tickers,omitempty"`
}

// Observation converts a scored article into a sentiment observation.
// 未スコア記事はゼロ値 (score 0, confidence 0) になる。
func (a NewsArticle) Observation() SentimentObservation {
	obs := SentimentObservation{PublishedAt: a.PublishedAt}
	if a.SentimentScore != nil {
		obs.Score = *a.SentimentScore
	}
	if a.Confidence != nil {
		obs.Confidence = *a.Confidence
	}
	return obs
}
