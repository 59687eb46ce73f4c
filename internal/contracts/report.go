package contracts

import "time"

// MarketSummary describes the overall market environment for a report
type MarketSummary struct {
	MacroIndicators MacroIndicators `json:"macro_indicators"`
	MacroScore      float64         `json:"macro_score"`
	MarketSentiment string          `json:"market_sentiment"` // 強気/中立/弱気 など
}

// SectorAnalysis aggregates total scores per sector
type SectorAnalysis struct {
	SectorScores   map[string]float64 `json:"sector_scores"`
	BullishSectors []string           `json:"bullish_sectors"`
	BearishSectors []string           `json:"bearish_sectors"`
}

// DailyReport is the full output of one pipeline run
type DailyReport struct {
	ReportDate      time.Time      `json:"report_date"`
	ReportType      string         `json:"report_type"` // "daily"
	MarketSummary   MarketSummary  `json:"market_summary"`
	Recommendations []ScoreResult  `json:"recommendations"` // top-N, score descending
	AllResults      []ScoreResult  `json:"all_results"`
	SectorAnalysis  SectorAnalysis `json:"sector_analysis"`
	RiskWarnings    []string       `json:"risk_warnings"`
}

// TopTicker returns the highest scored ticker, or "" when empty
func (r *DailyReport) TopTicker() string {
	if len(r.Recommendations) == 0 {
		return ""
	}
	return r.Recommendations[0].Ticker
}
