package yahoo

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/wonny/ichiba/internal/contracts"
)

// chartResponse mirrors the v8 chart API payload
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetDailyPrices fetches daily OHLCV bars for a symbol. Bars with any
// missing field (halts, partial sessions) are skipped.
func (c *Client) GetDailyPrices(ctx context.Context, symbol string, days int) ([]contracts.DailyPrice, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("range", rangeForDays(days))

	var resp chartResponse
	path := fmt.Sprintf("/v8/finance/chart/%s", url.PathEscape(symbol))
	if err := c.fetchJSON(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error for %s: %s", symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}

	result := resp.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	// 配列長が揃わないペイロードがある。全配列に存在する分だけ読む。
	n := len(result.Timestamp)
	for _, l := range []int{len(quote.Open), len(quote.High), len(quote.Low), len(quote.Close), len(quote.Volume)} {
		if l < n {
			n = l
		}
	}

	prices := make([]contracts.DailyPrice, 0, n)
	for i := 0; i < n; i++ {
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil ||
			quote.Close[i] == nil || quote.Volume[i] == nil {
			continue
		}

		prices = append(prices, contracts.DailyPrice{
			Ticker: symbol,
			Date:   time.Unix(result.Timestamp[i], 0).UTC().Truncate(24 * time.Hour),
			Open:   *quote.Open[i],
			High:   *quote.High[i],
			Low:    *quote.Low[i],
			Close:  *quote.Close[i],
			Volume: *quote.Volume[i],
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(prices),
	}).Debug("Fetched daily prices")

	return prices, nil
}

// GetQuote returns the latest close and the day-over-day change percent
// for a symbol. The change is nil when only one session is available.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*float64, *float64, error) {
	prices, err := c.GetDailyPrices(ctx, symbol, 5)
	if err != nil {
		return nil, nil, err
	}
	if len(prices) == 0 {
		return nil, nil, fmt.Errorf("no quote data for %s", symbol)
	}

	latest := round2(prices[len(prices)-1].Close)

	var changePct *float64
	if len(prices) > 1 {
		prev := prices[len(prices)-2].Close
		if prev > 0 {
			chg := round2((prices[len(prices)-1].Close - prev) / prev * 100)
			changePct = &chg
		}
	}

	return &latest, changePct, nil
}

func rangeForDays(days int) string {
	switch {
	case days <= 5:
		return "5d"
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	default:
		return "1y"
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
