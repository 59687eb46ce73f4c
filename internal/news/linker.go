package news

import (
	"strings"

	"github.com/wonny/ichiba/internal/contracts"
)

// Linker ties articles to universe tickers by matching company names
// (and raw ticker codes) against title and body text.
type Linker struct {
	stocks []contracts.Stock
}

// NewLinker creates a linker over the current universe
func NewLinker(stocks []contracts.Stock) *Linker {
	return &Linker{stocks: stocks}
}

// Apply fills in Tickers on every article that mentions a known stock
func (l *Linker) Apply(articles []contracts.NewsArticle) {
	for i := range articles {
		articles[i].Tickers = l.match(articles[i])
	}
}

func (l *Linker) match(article contracts.NewsArticle) []string {
	text := article.Title + " " + article.Content

	var tickers []string
	for _, s := range l.stocks {
		if s.Name != "" && strings.Contains(text, s.Name) {
			tickers = append(tickers, s.Ticker)
			continue
		}
		// 米国株はティッカーそのものが記事に出る (AAPL など)
		if !strings.Contains(s.Ticker, ".") && strings.Contains(text, s.Ticker) {
			tickers = append(tickers, s.Ticker)
		}
	}

	return tickers
}
