package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/pkg/httputil"
)

// NewsAPISource fetches articles from newsapi.org
type NewsAPISource struct {
	httpClient *httputil.Client
	apiKey     string
	keywords   []string
	language   string
}

// NewNewsAPISource creates a NewsAPI source for a market
func NewNewsAPISource(httpClient *httputil.Client, apiKey, market string, keywords []string) *NewsAPISource {
	language := "ja"
	if market == "US" {
		language = "en"
	}
	return &NewsAPISource{
		httpClient: httpClient,
		apiKey:     apiKey,
		keywords:   keywords,
		language:   language,
	}
}

func (s *NewsAPISource) Name() string { return "newsapi" }

type newsAPIResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Fetch searches recent articles matching the configured keywords
func (s *NewsAPISource) Fetch(ctx context.Context) ([]contracts.NewsArticle, error) {
	kw := s.keywords
	if len(kw) > 5 {
		kw = kw[:5] // クエリ長制限
	}

	params := url.Values{}
	params.Set("q", strings.Join(kw, " OR "))
	params.Set("language", s.language)
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", "20")
	params.Set("apiKey", s.apiKey)

	body, err := s.httpClient.GetBody(ctx, "https://newsapi.org/v2/everything?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("newsapi request failed: %w", err)
	}

	var resp newsAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode newsapi response: %w", err)
	}

	articles := make([]contracts.NewsArticle, 0, len(resp.Articles))
	for _, item := range resp.Articles {
		content := item.Description
		if content == "" {
			content = item.Content
		}
		articles = append(articles, contracts.NewsArticle{
			Title:       item.Title,
			Content:     content,
			URL:         item.URL,
			Source:      fmt.Sprintf("newsapi:%s", item.Source.Name),
			PublishedAt: parseTime(item.PublishedAt),
		})
	}

	return articles, nil
}

// parseTime handles the timestamp formats seen across news providers
func parseTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
