package scoring

import (
	"testing"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/pkg/config"
	"github.com/wonny/ichiba/pkg/logger"
)

func newTestScorer() *Scorer {
	return NewScorer(config.DefaultWeights(), logger.NewNop())
}

func TestNormalizeSentiment(t *testing.T) {
	tests := []struct {
		input float64
		want  float64
	}{
		{-1.0, 0},
		{0.0, 50},
		{1.0, 100},
		{0.3, 65},
		{-0.5, 25},
	}

	for _, tt := range tests {
		if got := NormalizeSentiment(tt.input); got != tt.want {
			t.Errorf("NormalizeSentiment(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRiskScore(t *testing.T) {
	// Higher stability must mean lower risk
	if got := RiskScore(1.0); got != 0 {
		t.Errorf("RiskScore(1.0) = %v, want 0", got)
	}
	if got := RiskScore(0.0); got != 100 {
		t.Errorf("RiskScore(0.0) = %v, want 100", got)
	}
	if got := RiskScore(0.4); got != 60.00000000000001 && got != 60 {
		t.Errorf("RiskScore(0.4) = %v, want ~60", got)
	}
}

func TestRatingBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  string
		icon  string
	}{
		{100, "Strong Buy", "🟢"},
		{80, "Strong Buy", "🟢"},
		{79.9, "Buy", "🔵"},
		{60, "Buy", "🔵"},
		{59.9, "Hold", "⚪"},
		{40, "Hold", "⚪"},
		{39.9, "Sell", "🟠"},
		{20, "Sell", "🟠"},
		{19.9, "Strong Sell", "🔴"},
		{0, "Strong Sell", "🔴"},
	}

	for _, tt := range tests {
		r := RatingFor(tt.score)
		if r.Label != tt.want {
			t.Errorf("RatingFor(%v) = %q, want %q", tt.score, r.Label, tt.want)
		}
		if r.Icon != tt.icon {
			t.Errorf("RatingFor(%v) icon = %q, want %q", tt.score, r.Icon, tt.icon)
		}
	}
}

func TestRatingMonotonic(t *testing.T) {
	prev := RatingFor(0)
	for score := 0.5; score <= 100; score += 0.5 {
		cur := RatingFor(score)
		if cur.Rank < prev.Rank {
			t.Fatalf("Rating rank decreased at score %v: %q after %q", score, cur.Label, prev.Label)
		}
		prev = cur
	}
}

func TestLadderAscending(t *testing.T) {
	// 上限判定: input < Bound で最初にマッチした段を返す
	ladder := Ladder[float64]{
		Ascending: true,
		Rungs: []Rung[float64]{
			{Bound: 0.7, Value: 100},
			{Bound: 1.0, Value: 80},
			{Bound: 1.3, Value: 60},
		},
		Fallback: 20,
	}

	if got := ladder.Lookup(0.5); got != 100 {
		t.Errorf("Lookup(0.5) = %v, want 100", got)
	}
	if got := ladder.Lookup(0.7); got != 80 {
		t.Errorf("Lookup(0.7) = %v, want 80 (boundary is exclusive)", got)
	}
	if got := ladder.Lookup(2.0); got != 20 {
		t.Errorf("Lookup(2.0) = %v, want fallback 20", got)
	}
}

func TestScore_EndToEnd(t *testing.T) {
	scorer := newTestScorer()

	sentiment := &contracts.SentimentSummary{
		Ticker:        "7203.T",
		Score:         0.3,
		ArticleCount:  5,
		PositiveCount: 3,
		NegativeCount: 1,
		NeutralCount:  1,
	}
	technical := &contracts.TechnicalResult{
		Ticker:         "7203.T",
		CompositeScore: 65.0,
		StabilityScore: 0.4,
		Signals:        []string{"🟢 パーフェクトオーダー (上昇トレンド)"},
	}
	fundamental := &contracts.FundamentalResult{
		Ticker:         "7203.T",
		CompositeScore: 70.0,
	}

	result, err := scorer.Score("7203.T", sentiment, technical, fundamental, 60.0)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	// 65*0.25 + 65*0.30 + 70*0.25 + 60*0.10 + (100-60)*0.10 = 63.25 → 63.3
	if result.TotalScore != 63.3 {
		t.Errorf("TotalScore = %v, want 63.3", result.TotalScore)
	}
	if result.Rating != "Buy" || result.RatingIcon != "🔵" {
		t.Errorf("Rating = %q %q, want Buy 🔵", result.Rating, result.RatingIcon)
	}
	if result.Scores.Sentiment != 65.0 {
		t.Errorf("Sentiment component = %v, want 65.0", result.Scores.Sentiment)
	}
	if result.Scores.Risk != 60.0 {
		t.Errorf("Risk component = %v, want 60.0", result.Scores.Risk)
	}

	// Signal order: technical first, news summary last
	if len(result.Signals) != 2 {
		t.Fatalf("Signals = %v, want 2 entries", result.Signals)
	}
	if result.Signals[0] != "🟢 パーフェクトオーダー (上昇トレンド)" {
		t.Errorf("First signal = %q", result.Signals[0])
	}
	if result.Signals[1] != "📰 ニュース5件 (ポジティブ:3 / ネガティブ:1)" {
		t.Errorf("News signal = %q", result.Signals[1])
	}
}

func TestScore_MissingInputsNeutral(t *testing.T) {
	scorer := newTestScorer()

	result, err := scorer.Score("6758.T", nil, nil, nil, 50.0)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	// All factors neutral → exactly 50, Hold
	if result.TotalScore != 50.0 {
		t.Errorf("TotalScore = %v, want 50.0", result.TotalScore)
	}
	if result.Rating != "Hold" {
		t.Errorf("Rating = %q, want Hold", result.Rating)
	}
	if len(result.Signals) != 0 {
		t.Errorf("Signals = %v, want none", result.Signals)
	}
}

func TestScore_EmptyTicker(t *testing.T) {
	scorer := newTestScorer()

	if _, err := scorer.Score("", nil, nil, nil, 50.0); err != ErrMissingTicker {
		t.Errorf("Expected ErrMissingTicker, got %v", err)
	}
}

func TestScore_Clamped(t *testing.T) {
	scorer := newTestScorer()

	sentiment := &contracts.SentimentSummary{Ticker: "X", Score: 1.0, ArticleCount: 1, PositiveCount: 1}
	technical := &contracts.TechnicalResult{Ticker: "X", CompositeScore: 100, StabilityScore: 1.0}
	fundamental := &contracts.FundamentalResult{Ticker: "X", CompositeScore: 100}

	result, err := scorer.Score("X", sentiment, technical, fundamental, 100)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if result.TotalScore < 0 || result.TotalScore > 100 {
		t.Errorf("TotalScore = %v, out of [0, 100]", result.TotalScore)
	}
	if result.TotalScore != 100.0 {
		t.Errorf("TotalScore = %v, want 100.0 at all-max inputs", result.TotalScore)
	}
}

func TestRound1HalfUp(t *testing.T) {
	if got := Round1(63.25); got != 63.3 {
		t.Errorf("Round1(63.25) = %v, want 63.3", got)
	}
	if got := Round1(63.24); got != 63.2 {
		t.Errorf("Round1(63.24) = %v, want 63.2", got)
	}
}
