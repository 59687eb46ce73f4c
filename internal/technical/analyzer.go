package technical

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cinar/indicator"
	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/pkg/logger"
)

const (
	// minBars is the minimum history required for a real analysis
	minBars = 30
	// lookbackDays is how much history Analyze loads
	lookbackDays = 120

	smaShort = 5
	smaMid   = 25
	smaLong  = 75

	atrPeriod    = 14
	volumePeriod = 20
)

// Axis weights for the composite score
const (
	trendWeight      = 0.35
	momentumWeight   = 0.30
	volatilityWeight = 0.15
	volumeWeight     = 0.20
)

// Analyzer computes technical indicator scores from daily bars
type Analyzer struct {
	prices contracts.PriceRepository
	log    *logger.Logger
}

// NewAnalyzer creates a technical analyzer
func NewAnalyzer(prices contracts.PriceRepository, log *logger.Logger) *Analyzer {
	return &Analyzer{prices: prices, log: log}
}

// Analyze loads recent bars for a ticker and scores them
func (a *Analyzer) Analyze(ctx context.Context, ticker string) (*contracts.TechnicalResult, error) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -lookbackDays)

	bars, err := a.prices.GetByTickerAndDateRange(ctx, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices for %s: %w", ticker, err)
	}

	return a.AnalyzeBars(ticker, bars), nil
}

// AnalyzeBars scores one ticker's bars (oldest first). Fewer than 30
// bars yields the neutral fallback instead of an error.
func (a *Analyzer) AnalyzeBars(ticker string, bars []contracts.DailyPrice) *contracts.TechnicalResult {
	if len(bars) < minBars {
		a.log.WithField("ticker", ticker).Warn("⚠️ データ不足 (30日以上必要)")
		return neutralResult(ticker)
	}

	closes := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	volumes := make([]int64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
		volumes[i] = b.Volume
	}

	indicators := map[string]float64{}
	signals := []string{}

	trend := calcTrendScore(closes, indicators, &signals)
	momentum := calcMomentumScore(highs, lows, closes, indicators, &signals)
	stability := calcStabilityScore(highs, lows, closes, indicators, &signals)
	volume := calcVolumeScore(closes, volumes, indicators, &signals)

	// 各軸を 0~100 にマッピングして加重平均
	composite := (trend+1)/2*100*trendWeight +
		(momentum+1)/2*100*momentumWeight +
		stability*100*volatilityWeight +
		(volume+1)/2*100*volumeWeight
	composite = math.Max(0, math.Min(100, round1(composite)))

	return &contracts.TechnicalResult{
		Ticker:         ticker,
		TrendScore:     round4(trend),
		MomentumScore:  round4(momentum),
		StabilityScore: round4(stability),
		VolumeScore:    round4(volume),
		CompositeScore: composite,
		Signals:        signals,
		Indicators:     indicators,
	}
}

// calcTrendScore scores moving-average alignment and MACD (-1.0 ~ 1.0)
func calcTrendScore(closes []float64, indicators map[string]float64, signals *[]string) float64 {
	var scores []float64

	// SMA 5/25/75 の並び
	if len(closes) >= smaLong {
		short := last(indicator.Sma(smaShort, closes))
		mid := last(indicator.Sma(smaMid, closes))
		long := last(indicator.Sma(smaLong, closes))
		price := closes[len(closes)-1]

		indicators["sma_5"] = round2(short)
		indicators["sma_25"] = round2(mid)
		indicators["sma_75"] = round2(long)

		aboveCount := 0
		for _, above := range []bool{
			price > short, price > mid, price > long,
			short > mid, mid > long,
		} {
			if above {
				aboveCount++
			}
		}
		scores = append(scores, float64(aboveCount)/5*2-1)

		if short > mid && mid > long {
			*signals = append(*signals, "🟢 パーフェクトオーダー (上昇トレンド)")
		} else if short < mid && mid < long {
			*signals = append(*signals, "🔴 逆パーフェクトオーダー (下降トレンド)")
		}
	}

	// MACD (12/26/9)
	macd, signalLine := indicator.Macd(closes)
	if n := len(macd); n > 0 && !math.IsNaN(macd[n-1]) && !math.IsNaN(signalLine[n-1]) {
		macdVal := macd[n-1]
		macdSignal := signalLine[n-1]
		hist := macdVal - macdSignal

		indicators["macd"] = round4(macdVal)
		indicators["macd_signal"] = round4(macdSignal)
		indicators["macd_hist"] = round4(hist)

		if hist > 0 {
			scores = append(scores, math.Min(1.0, hist/math.Abs(macdVal+0.001)))
			if macdVal > macdSignal && n > 1 && macd[n-2] <= signalLine[n-2] {
				*signals = append(*signals, "🟢 MACDゴールデンクロス")
			}
		} else {
			scores = append(scores, math.Max(-1.0, hist/math.Abs(macdVal+0.001)))
		}
	}

	return mean(scores, 0.0)
}

// calcMomentumScore scores RSI and stochastics (-1.0 ~ 1.0)
func calcMomentumScore(highs, lows, closes []float64, indicators map[string]float64, signals *[]string) float64 {
	var scores []float64

	// RSI (14日)
	_, rsi := indicator.Rsi(closes)
	if n := len(rsi); n > 0 && !math.IsNaN(rsi[n-1]) {
		rsiVal := rsi[n-1]
		indicators["rsi"] = round2(rsiVal)

		// RSI=50 が中立。30以下は反発期待、70以上は過熱。
		switch {
		case rsiVal < 30:
			scores = append(scores, 0.8)
			*signals = append(*signals, fmt.Sprintf("🟢 RSI=%.0f (売られすぎ圏)", rsiVal))
		case rsiVal > 70:
			scores = append(scores, -0.8)
			*signals = append(*signals, fmt.Sprintf("🔴 RSI=%.0f (過熱圏)", rsiVal))
		default:
			scores = append(scores, (50-rsiVal)/50*-1)
		}
	}

	// ストキャスティクス
	k, d := indicator.StochasticOscillator(highs, lows, closes)
	if n := len(k); n > 0 && !math.IsNaN(k[n-1]) && !math.IsNaN(d[n-1]) {
		kVal := k[n-1]
		indicators["stoch_k"] = round2(kVal)
		indicators["stoch_d"] = round2(d[n-1])

		switch {
		case kVal < 20:
			scores = append(scores, 0.6)
		case kVal > 80:
			scores = append(scores, -0.6)
		default:
			scores = append(scores, (50-kVal)/50*-0.5)
		}
	}

	return mean(scores, 0.0)
}

// calcStabilityScore scores volatility (0.0 ~ 1.0, higher = calmer)
func calcStabilityScore(highs, lows, closes []float64, indicators map[string]float64, signals *[]string) float64 {
	var scores []float64
	price := closes[len(closes)-1]

	// ボリンジャーバンド (20日, 2σ)
	middle, upper, lower := indicator.BollingerBands(closes)
	if n := len(middle); n > 0 {
		bbMid := middle[n-1]
		bbUpper := upper[n-1]
		bbLower := lower[n-1]

		indicators["bb_lower"] = round2(bbLower)
		indicators["bb_mid"] = round2(bbMid)
		indicators["bb_upper"] = round2(bbUpper)

		if width := bbUpper - bbLower; width > 0 {
			bbPct := 0.0
			if bbMid > 0 {
				bbPct = width / bbMid
			}
			// バンド幅10%以上で安定度0
			scores = append(scores, math.Max(0, 1-bbPct*10))

			if price <= bbLower {
				*signals = append(*signals, "🟢 ボリンジャーバンド下限タッチ (買いシグナル)")
			} else if price >= bbUpper {
				*signals = append(*signals, "🔴 ボリンジャーバンド上限タッチ (売りシグナル)")
			}
		}
	}

	// ATR%
	_, atr := indicator.Atr(atrPeriod, highs, lows, closes)
	if n := len(atr); n > 0 && price > 0 {
		atrVal := atr[n-1]
		atrPct := atrVal / price
		indicators["atr"] = round2(atrVal)
		indicators["atr_pct"] = round2(atrPct * 100)

		// ATR% 5%以上で安定度0
		scores = append(scores, math.Max(0, 1-atrPct*20))
	}

	return mean(scores, 0.5)
}

// calcVolumeScore scores volume expansion and OBV trend (-1.0 ~ 1.0)
func calcVolumeScore(closes []float64, volumes []int64, indicators map[string]float64, signals *[]string) float64 {
	var scores []float64

	if len(volumes) > volumePeriod {
		var sum float64
		for _, v := range volumes[len(volumes)-volumePeriod:] {
			sum += float64(v)
		}
		avg := sum / volumePeriod

		if avg > 0 {
			ratio := float64(volumes[len(volumes)-1]) / avg
			indicators["volume_ratio"] = round2(ratio)

			priceChange := closes[len(closes)-1]/closes[len(closes)-2] - 1

			// 出来高増加 + 株価上昇 = 強気
			switch {
			case ratio > 1.5 && priceChange > 0:
				scores = append(scores, 0.8)
				*signals = append(*signals, fmt.Sprintf("🟢 出来高急増 (%.1f倍) + 株価上昇", ratio))
			case ratio > 1.5 && priceChange < 0:
				scores = append(scores, -0.8)
				*signals = append(*signals, fmt.Sprintf("🔴 出来高急増 (%.1f倍) + 株価下落", ratio))
			case ratio > 1.0:
				if priceChange > 0 {
					scores = append(scores, 0.2)
				} else {
					scores = append(scores, -0.2)
				}
			default:
				scores = append(scores, 0.0)
			}
		}

		// OBVと5日平均の位置
		volFloat := make([]float64, len(volumes))
		for i, v := range volumes {
			volFloat[i] = float64(v)
		}
		obv := indicator.Obv(closes, volFloat)
		if len(obv) > 5 {
			obvSma := indicator.Sma(5, obv)
			if last(obv) > last(obvSma) {
				scores = append(scores, 0.3)
			} else {
				scores = append(scores, -0.3)
			}
		}
	}

	return mean(scores, 0.0)
}

func neutralResult(ticker string) *contracts.TechnicalResult {
	return &contracts.TechnicalResult{
		Ticker:         ticker,
		StabilityScore: 0.5,
		CompositeScore: 50.0,
		Signals:        []string{"⚠️ データ不足のため分析不可"},
		Indicators:     map[string]float64{},
	}
}

func mean(values []float64, fallback float64) float64 {
	if len(values) == 0 {
		return fallback
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func last(values []float64) float64 {
	return values[len(values)-1]
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
