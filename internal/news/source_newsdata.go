package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/pkg/httputil"
)

// NewsDataSource fetches articles from newsdata.io
type NewsDataSource struct {
	httpClient *httputil.Client
	apiKey     string
	keywords   []string
	country    string
	language   string
}

// NewNewsDataSource creates a NewsData source for a market
func NewNewsDataSource(httpClient *httputil.Client, apiKey, market string, keywords []string) *NewsDataSource {
	country, language := "jp", "ja"
	if market == "US" {
		country, language = "us", "en"
	}
	return &NewsDataSource{
		httpClient: httpClient,
		apiKey:     apiKey,
		keywords:   keywords,
		country:    country,
		language:   language,
	}
}

func (s *NewsDataSource) Name() string { return "newsdata" }

type newsDataResponse struct {
	Results []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		Link        string `json:"link"`
		SourceID    string `json:"source_id"`
		PubDate     string `json:"pubDate"`
	} `json:"results"`
}

// Fetch pulls the latest business articles matching the keywords
func (s *NewsDataSource) Fetch(ctx context.Context) ([]contracts.NewsArticle, error) {
	kw := s.keywords
	if len(kw) > 3 {
		kw = kw[:3]
	}

	params := url.Values{}
	params.Set("apikey", s.apiKey)
	params.Set("q", strings.Join(kw, " OR "))
	params.Set("country", s.country)
	params.Set("language", s.language)
	params.Set("category", "business")

	body, err := s.httpClient.GetBody(ctx, "https://newsdata.io/api/1/latest?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("newsdata request failed: %w", err)
	}

	var resp newsDataResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode newsdata response: %w", err)
	}

	articles := make([]contracts.NewsArticle, 0, len(resp.Results))
	for _, item := range resp.Results {
		content := item.Description
		if content == "" {
			content = item.Content
		}
		source := item.SourceID
		if source == "" {
			source = "unknown"
		}
		articles = append(articles, contracts.NewsArticle{
			Title:       item.Title,
			Content:     content,
			URL:         item.Link,
			Source:      fmt.Sprintf("newsdata:%s", source),
			PublishedAt: parseTime(item.PubDate),
		})
	}

	return articles, nil
}
