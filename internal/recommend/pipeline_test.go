package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/internal/fundamental"
	"github.com/wonny/ichiba/internal/scoring"
	"github.com/wonny/ichiba/pkg/config"
	"github.com/wonny/ichiba/pkg/logger"
)

func fp(v float64) *float64 { return &v }

func TestAnalyzeSectors(t *testing.T) {
	results := []contracts.ScoreResult{
		{Ticker: "8035.T", Sector: "Technology", TotalScore: 72.0},
		{Ticker: "6758.T", Sector: "Technology", TotalScore: 58.0},
		{Ticker: "8306.T", Sector: "Financial Services", TotalScore: 40.0},
		{Ticker: "9531.T", Sector: "Utilities", TotalScore: 35.0},
		{Ticker: "7203.T", Sector: "Consumer Cyclical", TotalScore: 50.0},
	}

	sa := analyzeSectors(results)

	if got := sa.SectorScores["Technology"]; got != 65.0 {
		t.Errorf("Technology avg = %v, want 65.0", got)
	}
	if len(sa.BullishSectors) != 1 || sa.BullishSectors[0] != "Technology" {
		t.Errorf("bullish = %v, want [Technology]", sa.BullishSectors)
	}
	// bottom 3 are Consumer Cyclical (50), Financial Services (40), Utilities (35);
	// only the latter two clear the <= 45 bar
	if len(sa.BearishSectors) != 2 {
		t.Fatalf("bearish = %v, want 2 sectors", sa.BearishSectors)
	}
	if sa.BearishSectors[0] != "Financial Services" || sa.BearishSectors[1] != "Utilities" {
		t.Errorf("bearish = %v, want [Financial Services Utilities]", sa.BearishSectors)
	}
}

func TestAnalyzeSectorsMissingSector(t *testing.T) {
	sa := analyzeSectors([]contracts.ScoreResult{{Ticker: "X", TotalScore: 60.0}})
	if _, ok := sa.SectorScores["Unknown"]; !ok {
		t.Errorf("missing sector should fall into Unknown, got %v", sa.SectorScores)
	}
}

func TestRiskWarnings(t *testing.T) {
	macro := contracts.MacroIndicators{
		VIX:          fp(28.5),
		USDJPYChange: fp(-1.5),
		US10YChange:  fp(3.5),
		OilChange:    fp(6.0),
	}
	results := []contracts.ScoreResult{{TotalScore: 35.0}, {TotalScore: 38.0}}

	warnings := riskWarnings(macro, results)
	if len(warnings) != 5 {
		t.Fatalf("got %d warnings, want 5: %v", len(warnings), warnings)
	}
	if warnings[0] != "[!] VIX=28.5 - ボラティリティが高く、市場全体にリスクあり" {
		t.Errorf("vix warning = %q", warnings[0])
	}
	if warnings[1] != "[!] 急激な円高 (-1.50%) - 輸出企業に注意" {
		t.Errorf("usdjpy warning = %q", warnings[1])
	}
	if warnings[2] != "[!] 米国10年債利回り急上昇 (+3.50%) - グロース株に注意" {
		t.Errorf("us10y warning = %q", warnings[2])
	}
	if warnings[3] != "[!] 原油価格急騰 (+6.00%) - コスト増の影響に注意" {
		t.Errorf("oil warning = %q", warnings[3])
	}
	if warnings[4] != "[!] 全体的にスコアが低い - 市場環境の悪化に注意" {
		t.Errorf("low score warning = %q", warnings[4])
	}
}

func TestRiskWarningsCalm(t *testing.T) {
	macro := contracts.MacroIndicators{VIX: fp(15.0), USDJPYChange: fp(0.2)}
	results := []contracts.ScoreResult{{TotalScore: 55.0}}
	if w := riskWarnings(macro, results); len(w) != 0 {
		t.Errorf("expected no warnings, got %v", w)
	}
}

func TestMarketSentimentLadder(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{75, "強気"},
		{70, "強気"},
		{60, "やや強気"},
		{50, "中立"},
		{35, "やや弱気"},
		{20, "弱気"},
	}
	for _, c := range cases {
		if got := marketSentiment(c.score, nil); got != c.want {
			t.Errorf("marketSentiment(%v) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestMarketSentimentDowngrade(t *testing.T) {
	warnings := []string{"[!] VIX=30.0 - ボラティリティが高く、市場全体にリスクあり"}

	if got := marketSentiment(75, warnings); got != "強気 (要警戒)" {
		t.Errorf("bullish downgrade = %q", got)
	}
	if got := marketSentiment(60, warnings); got != "やや強気 (要警戒)" {
		t.Errorf("mildly bullish downgrade = %q", got)
	}
	if got := marketSentiment(50, warnings); got != "中立 (弱気バイアス)" {
		t.Errorf("neutral downgrade = %q", got)
	}
	if got := marketSentiment(20, warnings); got != "中立 (弱気バイアス)" {
		t.Errorf("bearish downgrade = %q", got)
	}

	// non-critical warning leaves the label alone
	calm := []string{"[!] 全体的にスコアが低い - 市場環境の悪化に注意"}
	if got := marketSentiment(75, calm); got != "強気" {
		t.Errorf("non-critical warning should not downgrade, got %q", got)
	}
}

// --- pipeline end-to-end with fakes ---

type stubMacro struct{ ind contracts.MacroIndicators }

func (s stubMacro) Collect(ctx context.Context) contracts.MacroIndicators { return s.ind }

type stubSentiment struct {
	summaries map[string]*contracts.SentimentSummary
}

func (s stubSentiment) TickerSentiment(ctx context.Context, ticker string) (*contracts.SentimentSummary, error) {
	if sum, ok := s.summaries[ticker]; ok {
		return sum, nil
	}
	return nil, errors.New("no articles")
}

type stubTechnical struct {
	results map[string]*contracts.TechnicalResult
}

func (s stubTechnical) Analyze(ctx context.Context, ticker string) (*contracts.TechnicalResult, error) {
	if r, ok := s.results[ticker]; ok {
		return r, nil
	}
	return nil, errors.New("no bars")
}

type stubFundamentals struct {
	data map[string]fundamental.Fundamentals
}

func (s stubFundamentals) GetFundamentals(ctx context.Context, symbol string) (fundamental.Fundamentals, error) {
	if f, ok := s.data[symbol]; ok {
		return f, nil
	}
	return fundamental.Fundamentals{}, errors.New("fetch failed")
}

type memStocks struct{ stocks []contracts.Stock }

func (m *memStocks) Upsert(ctx context.Context, stock contracts.Stock) error { return nil }
func (m *memStocks) GetByTicker(ctx context.Context, ticker string) (*contracts.Stock, error) {
	return nil, nil
}
func (m *memStocks) List(ctx context.Context) ([]contracts.Stock, error) { return m.stocks, nil }

type memResults struct {
	saved map[string]contracts.ScoreResult
}

func (m *memResults) Upsert(ctx context.Context, date time.Time, result contracts.ScoreResult) error {
	if m.saved == nil {
		m.saved = map[string]contracts.ScoreResult{}
	}
	m.saved[result.Ticker] = result
	return nil
}
func (m *memResults) GetByDate(ctx context.Context, date time.Time) ([]contracts.ScoreResult, error) {
	return nil, nil
}

type memReports struct{ saved *contracts.DailyReport }

func (m *memReports) Save(ctx context.Context, report *contracts.DailyReport) error {
	m.saved = report
	return nil
}
func (m *memReports) GetLatest(ctx context.Context) (*contracts.DailyReport, error) {
	return m.saved, nil
}
func (m *memReports) GetByDate(ctx context.Context, date time.Time) (*contracts.DailyReport, error) {
	return m.saved, nil
}

type recordingNotifier struct{ sent *contracts.DailyReport }

func (n *recordingNotifier) Send(ctx context.Context, report *contracts.DailyReport) error {
	n.sent = report
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Universe:        []string{"7203.T", "8035.T", "9432.T"},
		TopN:            2,
		AnalysisWorkers: 2,
		Weights:         config.DefaultWeights(),
	}
}

func TestPipelineRun(t *testing.T) {
	log := logger.NewNop()
	cfg := testConfig()

	reports := &memReports{}
	results := &memResults{}
	notifier := &recordingNotifier{}

	deps := Deps{
		Macro: stubMacro{ind: contracts.MacroIndicators{VIX: fp(18.0), Nikkei225Change: fp(1.0)}},
		Sentiment: stubSentiment{summaries: map[string]*contracts.SentimentSummary{
			"8035.T": {Ticker: "8035.T", Score: 0.4, ArticleCount: 6, PositiveCount: 4, NegativeCount: 1},
		}},
		Technical: stubTechnical{results: map[string]*contracts.TechnicalResult{
			"8035.T": {Ticker: "8035.T", CompositeScore: 70.0, StabilityScore: 0.6},
			"7203.T": {Ticker: "7203.T", CompositeScore: 45.0, StabilityScore: 0.5},
		}},
		Fundamentals: stubFundamentals{data: map[string]fundamental.Fundamentals{
			"8035.T": {Ticker: "8035.T", Sector: "Technology", ROE: fp(0.22), PER: fp(18.0)},
		}},
		Analyzer: fundamental.NewAnalyzer(nil, log),
		Scorer:   scoring.NewScorer(cfg.Weights, log),
		Stocks: &memStocks{stocks: []contracts.Stock{
			{Ticker: "8035.T", Name: "東京エレクトロン", Sector: "Technology"},
			{Ticker: "7203.T", Name: "トヨタ自動車", Sector: "Consumer Cyclical"},
		}},
		Results:  results,
		Reports:  reports,
		Notifier: notifier,
	}

	report, err := NewPipeline(cfg, deps, log).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(report.AllResults) != 3 {
		t.Fatalf("analyzed %d tickers, want 3", len(report.AllResults))
	}
	if len(report.Recommendations) != 2 {
		t.Fatalf("recommendations = %d, want top 2", len(report.Recommendations))
	}
	if report.Recommendations[0].Ticker != "8035.T" {
		t.Errorf("top pick = %s, want 8035.T", report.Recommendations[0].Ticker)
	}
	for i := 1; i < len(report.AllResults); i++ {
		if report.AllResults[i-1].TotalScore < report.AllResults[i].TotalScore {
			t.Errorf("results not sorted descending at %d", i)
		}
	}

	if report.AllResults[0].Name != "東京エレクトロン" {
		t.Errorf("stock name not resolved: %q", report.AllResults[0].Name)
	}
	if report.MarketSummary.MarketSentiment == "" {
		t.Error("market sentiment missing")
	}

	if reports.saved != report {
		t.Error("report not persisted")
	}
	if notifier.sent != report {
		t.Error("report not sent")
	}
	if len(results.saved) != 3 {
		t.Errorf("persisted %d score results, want 3", len(results.saved))
	}
}

func TestPipelineRunDowngradesOnVIX(t *testing.T) {
	log := logger.NewNop()
	cfg := testConfig()

	deps := Deps{
		Macro:        stubMacro{ind: contracts.MacroIndicators{VIX: fp(32.0), Nikkei225Change: fp(2.5)}},
		Sentiment:    stubSentiment{},
		Technical:    stubTechnical{},
		Fundamentals: stubFundamentals{},
		Analyzer:     fundamental.NewAnalyzer(nil, log),
		Scorer:       scoring.NewScorer(cfg.Weights, log),
	}

	report, err := NewPipeline(cfg, deps, log).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	found := false
	for _, w := range report.RiskWarnings {
		if strings.Contains(w, "VIX=32.0") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing VIX warning: %v", report.RiskWarnings)
	}
	if !strings.Contains(report.MarketSummary.MarketSentiment, "弱気バイアス") &&
		!strings.Contains(report.MarketSummary.MarketSentiment, "要警戒") {
		t.Errorf("sentiment not downgraded: %q", report.MarketSummary.MarketSentiment)
	}
}
