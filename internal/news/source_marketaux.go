package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/pkg/httputil"
)

// MarketauxSource fetches articles from marketaux.com. Marketaux ships
// entity-level sentiment, so its articles may arrive pre-scored.
type MarketauxSource struct {
	httpClient *httputil.Client
	apiKey     string
	country    string
}

// NewMarketauxSource creates a marketaux source for a market
func NewMarketauxSource(httpClient *httputil.Client, apiKey, market string) *MarketauxSource {
	country := "jp"
	if market == "US" {
		country = "us"
	}
	return &MarketauxSource{httpClient: httpClient, apiKey: apiKey, country: country}
}

func (s *MarketauxSource) Name() string { return "marketaux" }

type marketauxResponse struct {
	Data []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Snippet     string `json:"snippet"`
		URL         string `json:"url"`
		Source      string `json:"source"`
		PublishedAt string `json:"published_at"`
		Entities    []struct {
			SentimentScore *float64 `json:"sentiment_score"`
		} `json:"entities"`
	} `json:"data"`
}

// Fetch pulls the latest articles with entity sentiment
func (s *MarketauxSource) Fetch(ctx context.Context) ([]contracts.NewsArticle, error) {
	params := url.Values{}
	params.Set("api_token", s.apiKey)
	params.Set("countries", s.country)
	params.Set("filter_entities", "true")
	params.Set("limit", "50")

	body, err := s.httpClient.GetBody(ctx, "https://api.marketaux.com/v1/news/all?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("marketaux request failed: %w", err)
	}

	var resp marketauxResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode marketaux response: %w", err)
	}

	articles := make([]contracts.NewsArticle, 0, len(resp.Data))
	for _, item := range resp.Data {
		content := item.Description
		if content == "" {
			content = item.Snippet
		}
		source := item.Source
		if source == "" {
			source = "unknown"
		}

		article := contracts.NewsArticle{
			Title:       item.Title,
			Content:     content,
			URL:         item.URL,
			Source:      fmt.Sprintf("marketaux:%s", source),
			PublishedAt: parseTime(item.PublishedAt),
		}

		// エンティティ平均をそのまま記事スコアとして使う
		var sum float64
		var n int
		for _, e := range item.Entities {
			if e.SentimentScore != nil {
				sum += *e.SentimentScore
				n++
			}
		}
		if n > 0 {
			avg := sum / float64(n)
			conf := 0.7
			article.SentimentScore = &avg
			article.Confidence = &conf
			article.Method = "marketaux"
		}

		articles = append(articles, article)
	}

	return articles, nil
}
