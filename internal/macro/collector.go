package macro

import (
	"context"
	"time"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/pkg/logger"
)

// QuoteFetcher returns the latest value and day-over-day change percent
// for a market symbol.
type QuoteFetcher interface {
	GetQuote(ctx context.Context, symbol string) (*float64, *float64, error)
}

// Collector gathers the daily macro snapshot. Individual symbol
// failures are logged and leave the field nil.
type Collector struct {
	quotes QuoteFetcher
	log    *logger.Logger
}

// NewCollector creates a macro collector
func NewCollector(quotes QuoteFetcher, log *logger.Logger) *Collector {
	return &Collector{quotes: quotes, log: log}
}

// symbolTargets maps market symbols onto snapshot fields
var symbolTargets = []struct {
	symbol string
	assign func(*contracts.MacroIndicators, *float64, *float64)
}{
	{"USDJPY=X", func(m *contracts.MacroIndicators, v, c *float64) { m.USDJPY, m.USDJPYChange = v, c }},
	{"^N225", func(m *contracts.MacroIndicators, v, c *float64) { m.Nikkei225, m.Nikkei225Change = v, c }},
	{"^TPX", func(m *contracts.MacroIndicators, v, c *float64) { m.Topix, m.TopixChange = v, c }},
	{"^GSPC", func(m *contracts.MacroIndicators, v, c *float64) { m.SP500, m.SP500Change = v, c }},
	{"^VIX", func(m *contracts.MacroIndicators, v, c *float64) { m.VIX, m.VIXChange = v, c }},
	{"^TNX", func(m *contracts.MacroIndicators, v, c *float64) { m.US10Y, m.US10YChange = v, c }},
	{"CL=F", func(m *contracts.MacroIndicators, v, c *float64) { m.Oil, m.OilChange = v, c }},
	{"GC=F", func(m *contracts.MacroIndicators, v, c *float64) { m.Gold, m.GoldChange = v, c }},
}

// Collect fetches all macro symbols and returns whatever succeeded
func (c *Collector) Collect(ctx context.Context) contracts.MacroIndicators {
	ind := contracts.MacroIndicators{CollectedAt: time.Now().UTC()}

	for _, target := range symbolTargets {
		value, change, err := c.quotes.GetQuote(ctx, target.symbol)
		if err != nil {
			c.log.WithError(err).WithField("symbol", target.symbol).Warn("⚠️ マクロ指標取得失敗")
			continue
		}
		target.assign(&ind, value, change)
	}

	c.log.Info("🌐 マクロ経済指標取得完了")
	return ind
}
