package news

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/pkg/httputil"
)

// YahooNewsSource scrapes the Yahoo!ニュース business topics page.
// Needs no API key, so it is always on for the JP market.
type YahooNewsSource struct {
	httpClient *httputil.Client
	baseURL    string
}

// NewYahooNewsSource creates a Yahoo news scraper
func NewYahooNewsSource(httpClient *httputil.Client) *YahooNewsSource {
	return &YahooNewsSource{
		httpClient: httpClient,
		baseURL:    "https://news.yahoo.co.jp",
	}
}

func (s *YahooNewsSource) Name() string { return "yahoo" }

// Fetch scrapes the business topics listing
func (s *YahooNewsSource) Fetch(ctx context.Context) ([]contracts.NewsArticle, error) {
	resp, err := s.httpClient.Get(ctx, s.baseURL+"/topics/business")
	if err != nil {
		return nil, fmt.Errorf("yahoo news request failed: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse yahoo news HTML: %w", err)
	}

	var articles []contracts.NewsArticle
	doc.Find("a[href*='/pickup/']").Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Text())
		if title == "" {
			return
		}

		href, _ := sel.Attr("href")
		if strings.HasPrefix(href, "/") {
			href = s.baseURL + href
		}

		articles = append(articles, contracts.NewsArticle{
			Title:  title,
			URL:    href,
			Source: "yahoo:news",
		})
	})

	return articles, nil
}
