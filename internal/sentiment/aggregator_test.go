package sentiment

import (
	"math"
	"testing"
	"time"

	"github.com/wonny/ichiba/internal/contracts"
)

func ts(t time.Time) *time.Time { return &t }

func TestAggregate_Empty(t *testing.T) {
	got := Aggregate("6758.T", nil, 7, 0.9, time.Now())
	if got.HasData() {
		t.Error("Empty observations must produce a no-data summary")
	}
	if got.Score != 0 || got.ArticleCount != 0 {
		t.Errorf("Empty summary = %+v, want zeros", got)
	}
	if got.Ticker != "6758.T" {
		t.Errorf("Ticker = %q", got.Ticker)
	}
}

func TestAggregate_AllNeutralDistinctFromEmpty(t *testing.T) {
	now := time.Now().UTC()
	obs := []contracts.SentimentObservation{
		{Score: 0.0, Confidence: 0.6, PublishedAt: ts(now.Add(-24 * time.Hour))},
		{Score: 0.05, Confidence: 0.6, PublishedAt: ts(now.Add(-48 * time.Hour))},
	}

	got := Aggregate("7203.T", obs, 7, 0.9, now)
	if !got.HasData() {
		t.Error("All-neutral observations must still count as data")
	}
	if got.NeutralCount != 2 || got.PositiveCount != 0 || got.NegativeCount != 0 {
		t.Errorf("Counts = +%d/-%d/=%d, want 0/0/2",
			got.PositiveCount, got.NegativeCount, got.NeutralCount)
	}
}

func TestAggregate_SingleObservation(t *testing.T) {
	now := time.Now().UTC()
	obs := []contracts.SentimentObservation{
		{Score: 0.72, Confidence: 0.9, PublishedAt: ts(now)},
	}

	got := Aggregate("9984.T", obs, 7, 0.9, now)
	// 重みは打ち消し合うので単一観測ではスコアそのまま
	if got.Score != 0.72 {
		t.Errorf("Score = %v, want 0.72", got.Score)
	}
	if got.PositiveCount != 1 {
		t.Errorf("PositiveCount = %d, want 1", got.PositiveCount)
	}
}

func TestAggregate_NewerArticlesDominate(t *testing.T) {
	now := time.Now().UTC()
	obs := []contracts.SentimentObservation{
		{Score: 0.8, Confidence: 0.7, PublishedAt: ts(now.Add(-6 * time.Hour))},
		{Score: -0.8, Confidence: 0.7, PublishedAt: ts(now.Add(-6 * 24 * time.Hour))},
	}

	got := Aggregate("6758.T", obs, 7, 0.9, now)
	if got.Score <= 0 {
		t.Errorf("Score = %v, want > 0: the fresh positive article must outweigh the stale negative one", got.Score)
	}

	// Flip the ages and the sign must flip with them
	obs[0].PublishedAt, obs[1].PublishedAt = obs[1].PublishedAt, obs[0].PublishedAt
	flipped := Aggregate("6758.T", obs, 7, 0.9, now)
	if flipped.Score >= 0 {
		t.Errorf("Score = %v, want < 0 after flipping ages", flipped.Score)
	}
}

func TestAggregate_ConfidenceWeighting(t *testing.T) {
	now := time.Now().UTC()
	sameTime := ts(now.Add(-12 * time.Hour))
	obs := []contracts.SentimentObservation{
		{Score: 0.6, Confidence: 0.9, PublishedAt: sameTime},
		{Score: -0.6, Confidence: 0.2, PublishedAt: sameTime},
	}

	got := Aggregate("7974.T", obs, 7, 0.9, now)
	if got.Score <= 0 {
		t.Errorf("Score = %v, want > 0: high-confidence positive must dominate", got.Score)
	}
}

func TestAggregate_MissingTimestampMidWindow(t *testing.T) {
	now := time.Now().UTC()
	windowDays := 7
	decay := 0.9

	undated := Aggregate("X", []contracts.SentimentObservation{
		{Score: 0.5, Confidence: 0.5},
	}, windowDays, decay, now)

	midWindow := Aggregate("X", []contracts.SentimentObservation{
		{Score: 0.5, Confidence: 0.5, PublishedAt: ts(now.Add(-time.Duration(windowDays) * 12 * time.Hour))},
	}, windowDays, decay, now)

	// Single observation: weights cancel, both yield the raw score
	if undated.Score != midWindow.Score {
		t.Errorf("Undated score %v != mid-window score %v", undated.Score, midWindow.Score)
	}
}

func TestAggregate_ZeroConfidenceDefaults(t *testing.T) {
	now := time.Now().UTC()
	sameTime := ts(now.Add(-24 * time.Hour))

	// Zero confidence is treated as 0.5, so it must not zero the weight
	obs := []contracts.SentimentObservation{
		{Score: 0.4, Confidence: 0, PublishedAt: sameTime},
	}
	got := Aggregate("X", obs, 7, 0.9, now)
	if got.Score != 0.4 {
		t.Errorf("Score = %v, want 0.4", got.Score)
	}
}

func TestAggregate_RoundedTo4dp(t *testing.T) {
	now := time.Now().UTC()
	obs := []contracts.SentimentObservation{
		{Score: 1.0 / 3.0, Confidence: 0.5, PublishedAt: ts(now)},
	}

	got := Aggregate("X", obs, 7, 0.9, now)
	if got.Score != 0.3333 {
		t.Errorf("Score = %v, want 0.3333", got.Score)
	}
	if math.Abs(got.Score*10000-math.Round(got.Score*10000)) > 1e-9 {
		t.Errorf("Score %v not rounded to 4dp", got.Score)
	}
}
