package commands

import (
	"github.com/wonny/ichiba/internal/data"
	"github.com/wonny/ichiba/internal/data/repos"
	"github.com/wonny/ichiba/internal/external/yahoo"
	"github.com/wonny/ichiba/internal/fundamental"
	"github.com/wonny/ichiba/internal/macro"
	"github.com/wonny/ichiba/internal/news"
	"github.com/wonny/ichiba/internal/recommend"
	"github.com/wonny/ichiba/internal/report"
	"github.com/wonny/ichiba/internal/scoring"
	"github.com/wonny/ichiba/internal/sentiment"
	"github.com/wonny/ichiba/internal/technical"
	"github.com/wonny/ichiba/pkg/config"
	"github.com/wonny/ichiba/pkg/database"
	"github.com/wonny/ichiba/pkg/httputil"
	"github.com/wonny/ichiba/pkg/logger"
	"github.com/wonny/ichiba/pkg/redis"
)

// app bundles the wired application components shared by CLI commands
// ⭐ SSOT: 依存関係の組み立てはこのファイルだけ
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	cache *redis.Cache

	stocks  *repos.StockRepository
	prices  *repos.PriceRepository
	news    *news.Repository
	results *scoring.Repository
	reports *report.Repository

	dataCollector *data.Collector
	newsCollector *news.Collector
	articles      *sentiment.Analyzer
	pipeline      *recommend.Pipeline
}

// newApp loads config and wires every component
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}
	limiter := redis.NewRateLimiter(rdb, "ichiba", redis.YahooRateLimit, redis.NewsRateLimit)
	cache := redis.NewCache(rdb, "ichiba")

	httpClient := httputil.New(log).WithRateLimiter(limiter, redis.YahooRateLimit)
	yahooClient := yahoo.NewClient(httpClient, log)

	// Repositories
	stockRepo := repos.NewStockRepository(db.Pool)
	priceRepo := repos.NewPriceRepository(db.Pool)
	newsRepo := news.NewRepository(db.Pool)
	resultRepo := scoring.NewRepository(db.Pool)
	reportRepo := report.NewRepository(db.Pool)

	// Collection
	dataCollector := data.NewCollector(yahooClient, stockRepo, priceRepo, cfg.Market, log)
	newsCollector := news.NewCollector(newsSources(cfg, limiter, log), newsRepo, stockRepo, log)

	// Analysis
	articleAnalyzer := sentiment.NewAnalyzer(sentiment.NewKeywordStrategy(cfg.Market), newsRepo, log)
	sentimentService := sentiment.NewService(newsRepo, cfg.Sentiment, log)
	technicalAnalyzer := technical.NewAnalyzer(priceRepo, log)
	fundamentalAnalyzer := fundamental.NewAnalyzer(cfg.HoldingTickers, log)
	macroCollector := macro.NewCollector(yahooClient, log)
	scorer := scoring.NewScorer(cfg.Weights, log)

	pipeline := recommend.NewPipeline(cfg, recommend.Deps{
		Data:         dataCollector,
		News:         newsCollector,
		Articles:     articleAnalyzer,
		Macro:        macroCollector,
		Sentiment:    sentimentService,
		Technical:    technicalAnalyzer,
		Fundamentals: yahooClient,
		Analyzer:     fundamentalAnalyzer,
		Scorer:       scorer,
		Stocks:       stockRepo,
		Results:      resultRepo,
		Reports:      reportRepo,
		Notifier:     report.NewEmailNotifier(cfg.SMTP, log),
	}, log)

	return &app{
		cfg:           cfg,
		log:           log,
		db:            db,
		cache:         cache,
		stocks:        stockRepo,
		prices:        priceRepo,
		news:          newsRepo,
		results:       resultRepo,
		reports:       reportRepo,
		dataCollector: dataCollector,
		newsCollector: newsCollector,
		articles:      articleAnalyzer,
		pipeline:      pipeline,
	}, nil
}

// Close releases held connections
func (a *app) Close() {
	a.db.Close()
}

// newsSources builds the configured news sources. キー未設定のソースは外す。
func newsSources(cfg *config.Config, limiter *redis.RateLimiter, log *logger.Logger) []news.Source {
	client := httputil.New(log).WithRateLimiter(limiter, redis.NewsRateLimit)

	var sources []news.Source
	if cfg.News.NewsAPIKey != "" {
		sources = append(sources, news.NewNewsAPISource(client, cfg.News.NewsAPIKey, cfg.Market, cfg.News.Keywords))
	}
	if cfg.News.NewsDataKey != "" {
		sources = append(sources, news.NewNewsDataSource(client, cfg.News.NewsDataKey, cfg.Market, cfg.News.Keywords))
	}
	if cfg.News.MarketauxKey != "" {
		sources = append(sources, news.NewMarketauxSource(client, cfg.News.MarketauxKey, cfg.Market))
	}
	if cfg.Market == "JP" {
		sources = append(sources, news.NewYahooNewsSource(client))
	}
	return sources
}
