package yahoo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wonny/ichiba/internal/fundamental"
)

// rawValue is Yahoo's {"raw": 1.23, "fmt": "1.23"} number wrapper
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				ShortName string `json:"shortName"`
				LongName  string `json:"longName"`
			} `json:"price"`
			SummaryProfile *struct {
				Sector string `json:"sector"`
			} `json:"summaryProfile"`
			SummaryDetail *struct {
				TrailingPE    rawValue `json:"trailingPE"`
				DividendYield rawValue `json:"dividendYield"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics *struct {
				PriceToBook        rawValue `json:"priceToBook"`
				EnterpriseToEbitda rawValue `json:"enterpriseToEbitda"`
			} `json:"defaultKeyStatistics"`
			FinancialData *struct {
				ReturnOnEquity   rawValue `json:"returnOnEquity"`
				OperatingMargins rawValue `json:"operatingMargins"`
				ProfitMargins    rawValue `json:"profitMargins"`
				RevenueGrowth    rawValue `json:"revenueGrowth"`
				EarningsGrowth   rawValue `json:"earningsGrowth"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// GetFundamentals fetches the fundamental metric snapshot for a symbol.
// Missing modules leave their fields nil; the analyzer copes.
func (c *Client) GetFundamentals(ctx context.Context, symbol string) (fundamental.Fundamentals, error) {
	f := fundamental.Fundamentals{Ticker: symbol}

	params := url.Values{}
	params.Set("modules", "summaryProfile,summaryDetail,defaultKeyStatistics,financialData")

	var resp quoteSummaryResponse
	path := fmt.Sprintf("/v10/finance/quoteSummary/%s", url.PathEscape(symbol))
	if err := c.fetchJSON(ctx, path, params, &resp); err != nil {
		return f, err
	}

	if resp.QuoteSummary.Error != nil {
		return f, fmt.Errorf("quoteSummary error for %s: %s", symbol, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return f, fmt.Errorf("no fundamentals for %s", symbol)
	}

	r := resp.QuoteSummary.Result[0]
	if r.SummaryProfile != nil {
		f.Sector = r.SummaryProfile.Sector
	}
	if r.SummaryDetail != nil {
		f.PER = r.SummaryDetail.TrailingPE.Raw
		// Yahooの配当利回りは小数 (0.0345) なのでパーセントに直す
		if y := r.SummaryDetail.DividendYield.Raw; y != nil {
			pct := *y * 100
			f.DividendYield = &pct
		}
	}
	if r.DefaultKeyStatistics != nil {
		f.PBR = r.DefaultKeyStatistics.PriceToBook.Raw
		f.EVEBITDA = r.DefaultKeyStatistics.EnterpriseToEbitda.Raw
	}
	if r.FinancialData != nil {
		f.ROE = r.FinancialData.ReturnOnEquity.Raw
		f.OperatingMargin = r.FinancialData.OperatingMargins.Raw
		f.NetMargin = r.FinancialData.ProfitMargins.Raw
		f.RevenueGrowth = r.FinancialData.RevenueGrowth.Raw
		f.EarningsGrowth = r.FinancialData.EarningsGrowth.Raw
	}

	return f, nil
}
