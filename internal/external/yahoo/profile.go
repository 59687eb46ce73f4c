package yahoo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wonny/ichiba/internal/contracts"
)

// GetProfile fetches one symbol's name and sector
func (c *Client) GetProfile(ctx context.Context, symbol string) (contracts.Stock, error) {
	stock := contracts.Stock{Ticker: symbol}

	params := url.Values{}
	params.Set("modules", "price,summaryProfile")

	var resp quoteSummaryResponse
	path := fmt.Sprintf("/v10/finance/quoteSummary/%s", url.PathEscape(symbol))
	if err := c.fetchJSON(ctx, path, params, &resp); err != nil {
		return stock, err
	}

	if resp.QuoteSummary.Error != nil {
		return stock, fmt.Errorf("quoteSummary error for %s: %s", symbol, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return stock, fmt.Errorf("no profile for %s", symbol)
	}

	r := resp.QuoteSummary.Result[0]
	if r.Price != nil {
		stock.Name = r.Price.LongName
		if stock.Name == "" {
			stock.Name = r.Price.ShortName
		}
	}
	if r.SummaryProfile != nil {
		stock.Sector = r.SummaryProfile.Sector
	}

	return stock, nil
}
