package recommend

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/internal/fundamental"
	"github.com/wonny/ichiba/internal/macro"
	"github.com/wonny/ichiba/internal/scoring"
	"github.com/wonny/ichiba/pkg/config"
	"github.com/wonny/ichiba/pkg/logger"
)

// unscoredBatchSize caps one sentiment pass over fresh articles
const unscoredBatchSize = 200

// DataIngester refreshes the universe and daily bars before analysis
type DataIngester interface {
	SyncUniverse(ctx context.Context, tickers []string) error
	IngestPrices(ctx context.Context, tickers []string) error
}

// NewsIngester pulls fresh articles into storage
type NewsIngester interface {
	CollectAll(ctx context.Context) (int, error)
}

// ArticleScorer classifies unscored articles
type ArticleScorer interface {
	AnalyzeUnscored(ctx context.Context, limit int) (int, error)
}

// MacroProvider returns the daily macro snapshot
type MacroProvider interface {
	Collect(ctx context.Context) contracts.MacroIndicators
}

// SentimentProvider aggregates per-ticker news sentiment
type SentimentProvider interface {
	TickerSentiment(ctx context.Context, ticker string) (*contracts.SentimentSummary, error)
}

// TechnicalProvider scores per-ticker price action
type TechnicalProvider interface {
	Analyze(ctx context.Context, ticker string) (*contracts.TechnicalResult, error)
}

// FundamentalsProvider fetches raw fundamental metrics
type FundamentalsProvider interface {
	GetFundamentals(ctx context.Context, symbol string) (fundamental.Fundamentals, error)
}

// Notifier delivers the finished report
type Notifier interface {
	Send(ctx context.Context, report *contracts.DailyReport) error
}

// Deps wires the pipeline's collaborators. Data, News, Articles and
// Notifier may be nil; those steps are then skipped.
type Deps struct {
	Data         DataIngester
	News         NewsIngester
	Articles     ArticleScorer
	Macro        MacroProvider
	Sentiment    SentimentProvider
	Technical    TechnicalProvider
	Fundamentals FundamentalsProvider
	Analyzer     *fundamental.Analyzer
	Scorer       *scoring.Scorer
	Stocks       contracts.StockRepository
	Results      contracts.ResultRepository
	Reports      contracts.ReportRepository
	Notifier     Notifier
}

// Pipeline runs the full daily analysis: ingest → sentiment → per-ticker
// scoring → ranking → report.
// ⭐ SSOT: 日次分析の実行順序はここだけで決める
type Pipeline struct {
	cfg  *config.Config
	log  *logger.Logger
	deps Deps
}

// NewPipeline creates the daily analysis pipeline
func NewPipeline(cfg *config.Config, deps Deps, log *logger.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, deps: deps, log: log}
}

// SkipCollection disables data and news ingestion for subsequent runs
func (p *Pipeline) SkipCollection() {
	p.deps.Data = nil
	p.deps.News = nil
	p.deps.Articles = nil
}

// SkipNotification disables the report mail for subsequent runs
func (p *Pipeline) SkipNotification() {
	p.deps.Notifier = nil
}

// Run executes the whole pipeline and returns the daily report.
// Collection and per-ticker failures degrade the result instead of
// aborting it; only storage failures for the report itself are fatal.
func (p *Pipeline) Run(ctx context.Context) (*contracts.DailyReport, error) {
	p.log.Info("🚀 分析パイプライン開始")

	// Step 1: データ収集
	if p.deps.Data != nil {
		if err := p.deps.Data.SyncUniverse(ctx, p.cfg.Universe); err != nil {
			p.log.WithError(err).Warn("⚠️ 銘柄マスタ更新失敗")
		}
		if err := p.deps.Data.IngestPrices(ctx, p.cfg.Universe); err != nil {
			p.log.WithError(err).Warn("⚠️ 株価収集失敗")
		}
	}
	if p.deps.News != nil {
		if _, err := p.deps.News.CollectAll(ctx); err != nil {
			p.log.WithError(err).Warn("⚠️ ニュース収集失敗")
		}
	}

	// Step 2: センチメント分析
	if p.deps.Articles != nil {
		if _, err := p.deps.Articles.AnalyzeUnscored(ctx, unscoredBatchSize); err != nil {
			p.log.WithError(err).Warn("⚠️ センチメント分析失敗")
		}
	}

	// Step 3: マクロ環境
	macroInd := p.deps.Macro.Collect(ctx)
	macroScore := macro.Score(macroInd)

	// Step 4: 銘柄ごとの分析 & スコアリング
	allResults := p.analyzeUniverse(ctx, macroScore)

	// スコア降順、同点はティッカー昇順で安定化
	sort.Slice(allResults, func(i, j int) bool {
		if allResults[i].TotalScore != allResults[j].TotalScore {
			return allResults[i].TotalScore > allResults[j].TotalScore
		}
		return allResults[i].Ticker < allResults[j].Ticker
	})

	topN := p.cfg.TopN
	if topN > len(allResults) {
		topN = len(allResults)
	}

	warnings := riskWarnings(macroInd, allResults)

	report := &contracts.DailyReport{
		ReportDate: time.Now().UTC().Truncate(24 * time.Hour),
		ReportType: "daily",
		MarketSummary: contracts.MarketSummary{
			MacroIndicators: macroInd,
			MacroScore:      macroScore,
			MarketSentiment: marketSentiment(macroScore, warnings),
		},
		Recommendations: allResults[:topN],
		AllResults:      allResults,
		SectorAnalysis:  analyzeSectors(allResults),
		RiskWarnings:    warnings,
	}

	if p.deps.Reports != nil {
		if err := p.deps.Reports.Save(ctx, report); err != nil {
			return nil, err
		}
	}

	// Step 5: メール送信
	if p.deps.Notifier != nil {
		if err := p.deps.Notifier.Send(ctx, report); err != nil {
			p.log.WithError(err).Warn("⚠️ メール送信失敗")
		}
	}

	p.log.WithFields(map[string]interface{}{
		"analyzed": len(allResults),
		"top":      report.TopTicker(),
	}).Info("✅ 分析パイプライン完了")

	return report, nil
}

// analyzeUniverse scores every ticker with a bounded worker pool.
// 一銘柄の失敗は他の銘柄に影響しない。
func (p *Pipeline) analyzeUniverse(ctx context.Context, macroScore float64) []contracts.ScoreResult {
	names := p.loadStockNames(ctx)

	workers := p.cfg.AnalysisWorkers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string)
	var mu sync.Mutex
	var results []contracts.ScoreResult
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobs {
				result, err := p.analyzeTicker(ctx, ticker, macroScore, names)
				if err != nil {
					p.log.WithError(err).WithField("ticker", ticker).Warn("⚠️ 分析失敗")
					continue
				}
				mu.Lock()
				results = append(results, *result)
				mu.Unlock()
			}
		}()
	}

	for _, ticker := range p.cfg.Universe {
		jobs <- ticker
	}
	close(jobs)
	wg.Wait()

	return results
}

func (p *Pipeline) analyzeTicker(ctx context.Context, ticker string, macroScore float64, names map[string]contracts.Stock) (*contracts.ScoreResult, error) {
	sentimentSummary, err := p.deps.Sentiment.TickerSentiment(ctx, ticker)
	if err != nil {
		p.log.WithError(err).WithField("ticker", ticker).Warn("⚠️ センチメント取得失敗")
		sentimentSummary = nil
	}

	technicalResult, err := p.deps.Technical.Analyze(ctx, ticker)
	if err != nil {
		p.log.WithError(err).WithField("ticker", ticker).Warn("⚠️ テクニカル分析失敗")
		technicalResult = nil
	}

	raw, err := p.deps.Fundamentals.GetFundamentals(ctx, ticker)
	if err != nil {
		p.log.WithError(err).WithField("ticker", ticker).Warn("⚠️ ファンダメンタル取得失敗")
		raw = fundamental.Fundamentals{Ticker: ticker}
	}
	fundamentalResult := p.deps.Analyzer.Analyze(raw)

	result, err := p.deps.Scorer.Score(ticker, sentimentSummary, technicalResult, fundamentalResult, macroScore)
	if err != nil {
		return nil, err
	}

	if stock, ok := names[ticker]; ok {
		result.Name = stock.Name
		result.Sector = stock.Sector
	}

	if p.deps.Results != nil {
		if err := p.deps.Results.Upsert(ctx, time.Now().UTC().Truncate(24*time.Hour), *result); err != nil {
			p.log.WithError(err).WithField("ticker", ticker).Warn("⚠️ スコア保存失敗")
		}
	}

	p.log.Infof("%s %s: スコア=%.1f (%s)", result.RatingIcon, ticker, result.TotalScore, result.Rating)
	return result, nil
}

func (p *Pipeline) loadStockNames(ctx context.Context) map[string]contracts.Stock {
	names := map[string]contracts.Stock{}
	if p.deps.Stocks == nil {
		return names
	}

	stocks, err := p.deps.Stocks.List(ctx)
	if err != nil {
		p.log.WithError(err).Warn("⚠️ 銘柄マスタ取得失敗")
		return names
	}
	for _, s := range stocks {
		names[s.Ticker] = s
	}
	return names
}
