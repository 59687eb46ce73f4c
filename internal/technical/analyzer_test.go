package technical

import (
	"testing"
	"time"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/pkg/logger"
)

func makeBars(ticker string, n int, priceAt func(i int) float64) []contracts.DailyPrice {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	bars := make([]contracts.DailyPrice, n)
	for i := 0; i < n; i++ {
		p := priceAt(i)
		bars[i] = contracts.DailyPrice{
			Ticker: ticker,
			Date:   start.AddDate(0, 0, i),
			Open:   p,
			High:   p + 1,
			Low:    p - 1,
			Close:  p,
			Volume: 1_000_000,
		}
	}
	return bars
}

func hasSignal(signals []string, want string) bool {
	for _, s := range signals {
		if s == want {
			return true
		}
	}
	return false
}

func TestAnalyzeBars_InsufficientData(t *testing.T) {
	a := NewAnalyzer(nil, logger.NewNop())

	bars := makeBars("6758.T", 10, func(i int) float64 { return 100 })
	got := a.AnalyzeBars("6758.T", bars)

	if got.CompositeScore != 50.0 {
		t.Errorf("CompositeScore = %v, want neutral 50.0", got.CompositeScore)
	}
	if got.StabilityScore != 0.5 {
		t.Errorf("StabilityScore = %v, want 0.5", got.StabilityScore)
	}
	if !hasSignal(got.Signals, "⚠️ データ不足のため分析不可") {
		t.Errorf("Signals = %v, want data-unavailable marker", got.Signals)
	}
}

func TestAnalyzeBars_Uptrend(t *testing.T) {
	a := NewAnalyzer(nil, logger.NewNop())

	bars := makeBars("7203.T", 90, func(i int) float64 { return 100 + float64(i)*0.5 })
	got := a.AnalyzeBars("7203.T", bars)

	if got.TrendScore <= 0 {
		t.Errorf("TrendScore = %v, want positive for a steady uptrend", got.TrendScore)
	}
	if !hasSignal(got.Signals, "🟢 パーフェクトオーダー (上昇トレンド)") {
		t.Errorf("Signals = %v, want perfect order", got.Signals)
	}
	if got.CompositeScore < 0 || got.CompositeScore > 100 {
		t.Errorf("CompositeScore = %v, out of [0, 100]", got.CompositeScore)
	}
	if _, ok := got.Indicators["sma_75"]; !ok {
		t.Errorf("Indicators missing sma_75: %v", got.Indicators)
	}
}

func TestAnalyzeBars_Downtrend(t *testing.T) {
	a := NewAnalyzer(nil, logger.NewNop())

	bars := makeBars("9984.T", 90, func(i int) float64 { return 150 - float64(i)*0.5 })
	got := a.AnalyzeBars("9984.T", bars)

	if got.TrendScore >= 0 {
		t.Errorf("TrendScore = %v, want negative for a steady downtrend", got.TrendScore)
	}
	if !hasSignal(got.Signals, "🔴 逆パーフェクトオーダー (下降トレンド)") {
		t.Errorf("Signals = %v, want reverse perfect order", got.Signals)
	}
}

func TestAnalyzeBars_MomentumOverheated(t *testing.T) {
	a := NewAnalyzer(nil, logger.NewNop())

	// Relentless rise → RSI pinned high → momentum must punish it
	bars := makeBars("6861.T", 90, func(i int) float64 { return 100 + float64(i) })
	got := a.AnalyzeBars("6861.T", bars)

	if got.MomentumScore >= 0 {
		t.Errorf("MomentumScore = %v, want negative when RSI is overheated", got.MomentumScore)
	}
	rsi, ok := got.Indicators["rsi"]
	if !ok || rsi <= 70 {
		t.Errorf("Indicators rsi = %v, want > 70", rsi)
	}
}

func TestAnalyzeBars_VolumeSurge(t *testing.T) {
	a := NewAnalyzer(nil, logger.NewNop())

	// 上昇トレンド + 直近の出来高急増
	bars := makeBars("6501.T", 90, func(i int) float64 { return 100 + float64(i)*0.3 })
	bars[len(bars)-1].Volume = 5_000_000

	got := a.AnalyzeBars("6501.T", bars)

	ratio, ok := got.Indicators["volume_ratio"]
	if !ok || ratio <= 1.5 {
		t.Fatalf("Indicators volume_ratio = %v, want > 1.5", ratio)
	}
	if got.VolumeScore <= 0 {
		t.Errorf("VolumeScore = %v, want positive for a surge on a rising price", got.VolumeScore)
	}
	if !hasSignal(got.Signals, "🟢 出来高急増 (4.2倍) + 株価上昇") {
		t.Errorf("Signals = %v, want volume surge signal", got.Signals)
	}
}

func TestAnalyzeBars_StabilityBounds(t *testing.T) {
	a := NewAnalyzer(nil, logger.NewNop())

	// Flat series: no volatility at all → maximum stability
	flat := makeBars("8306.T", 90, func(i int) float64 { return 100 })
	got := a.AnalyzeBars("8306.T", flat)
	if got.StabilityScore < 0 || got.StabilityScore > 1 {
		t.Errorf("StabilityScore = %v, out of [0, 1]", got.StabilityScore)
	}

	// Wildly oscillating series must be less stable than the flat one
	wild := makeBars("8306.T", 90, func(i int) float64 {
		if i%2 == 0 {
			return 80
		}
		return 120
	})
	wildGot := a.AnalyzeBars("8306.T", wild)
	if wildGot.StabilityScore >= got.StabilityScore {
		t.Errorf("Oscillating stability %v >= flat stability %v", wildGot.StabilityScore, got.StabilityScore)
	}
}
