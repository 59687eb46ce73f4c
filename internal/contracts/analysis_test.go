package contracts

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSentimentSummary_HasData(t *testing.T) {
	empty := SentimentSummary{Ticker: "6758.T"}
	if empty.HasData() {
		t.Error("Expected empty summary to have no data")
	}

	// All-neutral summary still counts as data
	neutral := SentimentSummary{Ticker: "6758.T", ArticleCount: 3, NeutralCount: 3}
	if !neutral.HasData() {
		t.Error("Expected all-neutral summary to have data")
	}
}

func TestNewsArticle_Observation(t *testing.T) {
	published := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	score := 0.42
	conf := 0.8

	article := NewsArticle{
		Title:          "ソニー、業績上方修正",
		SentimentScore: &score,
		Confidence:     &conf,
		PublishedAt:    &published,
	}

	obs := article.Observation()
	if obs.Score != 0.42 {
		t.Errorf("Score = %f, want 0.42", obs.Score)
	}
	if obs.Confidence != 0.8 {
		t.Errorf("Confidence = %f, want 0.8", obs.Confidence)
	}
	if obs.PublishedAt == nil || !obs.PublishedAt.Equal(published) {
		t.Error("PublishedAt not carried over")
	}

	// Unscored article yields zero values
	blank := NewsArticle{Title: "untitled"}.Observation()
	if blank.Score != 0 || blank.Confidence != 0 {
		t.Errorf("Unscored article observation = %+v, want zeros", blank)
	}
}

func TestScoreResult_JSON(t *testing.T) {
	original := ScoreResult{
		Ticker:     "7203.T",
		TotalScore: 63.3,
		Rating:     "Buy",
		RatingIcon: "🔵",
		Scores: ComponentScores{
			Sentiment:   65.0,
			Technical:   65.0,
			Fundamental: 70.0,
			Macro:       60.0,
			Risk:        60.0,
		},
		Signals: []string{"🟢 パーフェクトオーダー (上昇トレンド)"},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded ScoreResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if decoded.TotalScore != original.TotalScore {
		t.Errorf("TotalScore mismatch: got %f, want %f", decoded.TotalScore, original.TotalScore)
	}
	if decoded.Rating != "Buy" {
		t.Errorf("Rating mismatch: got %s", decoded.Rating)
	}
	if len(decoded.Signals) != 1 {
		t.Errorf("Signals count mismatch: got %d", len(decoded.Signals))
	}
}
