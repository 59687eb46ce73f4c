package news

import (
	"context"
	"crypto/md5"
	"encoding/hex"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/pkg/logger"
)

// Source is one news provider. Implementations fetch recent articles;
// failures of a single source never fail the whole collection.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]contracts.NewsArticle, error)
}

// Collector pulls articles from all configured sources, dedupes them by
// title, links them to tickers and persists the survivors.
// ⭐ SSOT: ニュース収集の入口はここだけ
type Collector struct {
	sources []Source
	news    contracts.NewsRepository
	stocks  contracts.StockRepository // nil = no ticker linking
	log     *logger.Logger
}

// NewCollector creates a news collector
func NewCollector(sources []Source, news contracts.NewsRepository, stocks contracts.StockRepository, log *logger.Logger) *Collector {
	return &Collector{sources: sources, news: news, stocks: stocks, log: log}
}

// CollectAll runs every source and saves the deduplicated articles.
// Returns the number of newly saved rows.
func (c *Collector) CollectAll(ctx context.Context) (int, error) {
	var all []contracts.NewsArticle

	for _, src := range c.sources {
		articles, err := src.Fetch(ctx)
		if err != nil {
			c.log.WithError(err).WithField("source", src.Name()).Warn("⚠️ ニュースソース取得失敗")
			continue
		}
		c.log.WithFields(map[string]interface{}{
			"source": src.Name(),
			"count":  len(articles),
		}).Info("📰 ニュース取得")
		all = append(all, articles...)
	}

	unique := deduplicate(all)
	c.log.WithField("count", len(unique)).Info("📰 ニュース収集完了 (重複排除後)")

	if c.stocks != nil {
		stocks, err := c.stocks.List(ctx)
		if err != nil {
			c.log.WithError(err).Warn("⚠️ 銘柄マスタ取得失敗、ティッカー紐付けをスキップ")
		} else {
			NewLinker(stocks).Apply(unique)
		}
	}

	saved, err := c.news.SaveArticles(ctx, unique)
	if err != nil {
		return 0, err
	}
	c.log.WithField("saved", saved).Info("💾 DB保存")

	return saved, nil
}

// deduplicate drops articles with duplicate or empty titles, keeping
// the first occurrence
func deduplicate(articles []contracts.NewsArticle) []contracts.NewsArticle {
	seen := make(map[string]bool, len(articles))
	unique := make([]contracts.NewsArticle, 0, len(articles))

	for _, a := range articles {
		if a.Title == "" {
			continue
		}
		sum := md5.Sum([]byte(a.Title))
		key := hex.EncodeToString(sum[:])
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, a)
	}

	return unique
}
