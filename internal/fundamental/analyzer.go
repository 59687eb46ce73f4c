package fundamental

import (
	"fmt"
	"math"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/internal/scoring"
	"github.com/wonny/ichiba/pkg/logger"
)

// Axis weights for the composite score
const (
	valuationWeight     = 0.30
	profitabilityWeight = 0.30
	growthWeight        = 0.25
	dividendWeight      = 0.15
)

// sectorAvgPER holds per-sector P/E averages used as valuation anchors
var sectorAvgPER = map[string]float64{
	"Technology":             25.0,
	"Healthcare":             22.0,
	"Consumer Cyclical":      18.0,
	"Financial Services":     12.0,
	"Industrials":            16.0,
	"Consumer Defensive":     20.0,
	"Basic Materials":        14.0,
	"Communication Services": 20.0,
	"Energy":                 10.0,
	"Utilities":              15.0,
	"Real Estate":            30.0,
}

const defaultAvgPER = 18.0

// Fundamentals is one ticker's raw metric snapshot. Every field is
// nullable: the analyzer scores whatever is present.
type Fundamentals struct {
	Ticker string
	Sector string

	PER      *float64 // 実績PER
	PBR      *float64
	EVEBITDA *float64

	ROE             *float64 // 比率 (0.15 = 15%)
	OperatingMargin *float64 // 比率
	NetMargin       *float64 // 比率

	RevenueGrowth  *float64 // 比率
	EarningsGrowth *float64 // 比率

	DividendYield *float64 // パーセント (3.45 = 3.45%)
}

func (f Fundamentals) hasData() bool {
	return f.PER != nil || f.PBR != nil || f.EVEBITDA != nil ||
		f.ROE != nil || f.OperatingMargin != nil || f.NetMargin != nil ||
		f.RevenueGrowth != nil || f.EarningsGrowth != nil || f.DividendYield != nil
}

// Analyzer scores fundamentals along valuation, profitability, growth
// and dividend axes.
type Analyzer struct {
	holdingTickers map[string]bool
	log            *logger.Logger
}

// NewAnalyzer creates a fundamental analyzer. Tickers in holdingTickers
// are investment/holding companies whose P/E signal text is suppressed
// (the numeric score still applies).
func NewAnalyzer(holdingTickers []string, log *logger.Logger) *Analyzer {
	held := make(map[string]bool, len(holdingTickers))
	for _, t := range holdingTickers {
		held[t] = true
	}
	return &Analyzer{holdingTickers: held, log: log}
}

// Analyze scores one ticker's fundamentals. A snapshot with no metrics
// at all gets the neutral fallback (all axes 50) and a warning signal.
func (a *Analyzer) Analyze(f Fundamentals) *contracts.FundamentalResult {
	if !f.hasData() {
		a.log.WithField("ticker", f.Ticker).Warn("⚠️ ファンダメンタルデータ取得不可")
		return neutralResult(f.Ticker)
	}

	metrics := map[string]float64{}
	signals := []string{}

	valuation := a.calcValuationScore(f, metrics, &signals)
	profitability := calcProfitabilityScore(f, metrics, &signals)
	growth := calcGrowthScore(f, metrics, &signals)
	dividend := calcDividendScore(f, metrics, &signals)

	composite := valuation*valuationWeight +
		profitability*profitabilityWeight +
		growth*growthWeight +
		dividend*dividendWeight

	return &contracts.FundamentalResult{
		Ticker:             f.Ticker,
		ValuationScore:     round1(valuation),
		ProfitabilityScore: round1(profitability),
		GrowthScore:        round1(growth),
		DividendScore:      round1(dividend),
		CompositeScore:     round1(composite),
		Metrics:            metrics,
		Signals:            signals,
	}
}

func (a *Analyzer) calcValuationScore(f Fundamentals, metrics map[string]float64, signals *[]string) float64 {
	var scores []float64

	if f.PER != nil && *f.PER > 0 {
		per := *f.PER
		metrics["per"] = round2(per)

		avgPER := defaultAvgPER
		if avg, ok := sectorAvgPER[f.Sector]; ok {
			avgPER = avg
		}

		// 同業種平均比: 低いほど割安
		perLadder := scoring.Ladder[scoring.ScoreSignal]{
			Ascending: true,
			Rungs: []scoring.Rung[scoring.ScoreSignal]{
				{Bound: 0.5, Value: scoring.ScoreSignal{Score: 95, Signal: fmt.Sprintf("🟢 PER=%.1f は同業種平均 %.0f 比で大幅割安", per, avgPER)}},
				{Bound: 0.8, Value: scoring.ScoreSignal{Score: 80, Signal: fmt.Sprintf("🟢 PER=%.1f は割安圏", per)}},
				{Bound: 1.2, Value: scoring.ScoreSignal{Score: 55}},
				{Bound: 1.5, Value: scoring.ScoreSignal{Score: 35}},
			},
			Fallback: scoring.ScoreSignal{Score: 15, Signal: fmt.Sprintf("🔴 PER=%.1f は割高圏", per)},
		}

		band := perLadder.Lookup(per / avgPER)
		scores = append(scores, band.Score)
		// 投資会社・持株会社はPERの解釈が歪むのでシグナルを出さない
		if band.Signal != "" && !a.holdingTickers[f.Ticker] {
			*signals = append(*signals, band.Signal)
		}
	}

	if f.PBR != nil && *f.PBR > 0 {
		pbr := *f.PBR
		metrics["pbr"] = round2(pbr)

		pbrLadder := scoring.Ladder[scoring.ScoreSignal]{
			Ascending: true,
			Rungs: []scoring.Rung[scoring.ScoreSignal]{
				{Bound: 1.0, Value: scoring.ScoreSignal{Score: 85, Signal: fmt.Sprintf("🟢 PBR=%.2f (1倍割れ — 資産価値以下)", pbr)}},
				{Bound: 1.5, Value: scoring.ScoreSignal{Score: 65}},
				{Bound: 3.0, Value: scoring.ScoreSignal{Score: 45}},
			},
			Fallback: scoring.ScoreSignal{Score: 20},
		}

		band := pbrLadder.Lookup(pbr)
		scores = append(scores, band.Score)
		if band.Signal != "" {
			*signals = append(*signals, band.Signal)
		}
	}

	if f.EVEBITDA != nil && *f.EVEBITDA > 0 {
		metrics["ev_ebitda"] = round2(*f.EVEBITDA)
		scores = append(scores, evEbitdaLadder.Lookup(*f.EVEBITDA))
	}

	return mean(scores)
}

var evEbitdaLadder = scoring.Ladder[float64]{
	Ascending: true,
	Rungs: []scoring.Rung[float64]{
		{Bound: 8, Value: 80},
		{Bound: 12, Value: 60},
		{Bound: 18, Value: 40},
	},
	Fallback: 20,
}

var operatingMarginLadder = scoring.Ladder[float64]{
	Exclusive: true,
	Rungs: []scoring.Rung[float64]{
		{Bound: 20, Value: 90},
		{Bound: 10, Value: 70},
		{Bound: 5, Value: 50},
		{Bound: 0, Value: 30},
	},
	Fallback: 10,
}

var netMarginLadder = scoring.Ladder[float64]{
	Exclusive: true,
	Rungs: []scoring.Rung[float64]{
		{Bound: 15, Value: 85},
		{Bound: 8, Value: 65},
		{Bound: 3, Value: 45},
		{Bound: 0, Value: 25},
	},
	Fallback: 10,
}

var earningsGrowthLadder = scoring.Ladder[float64]{
	Exclusive: true,
	Rungs: []scoring.Rung[float64]{
		{Bound: 30, Value: 90},
		{Bound: 15, Value: 70},
		{Bound: 5, Value: 55},
		{Bound: 0, Value: 40},
	},
	Fallback: 15,
}

func calcProfitabilityScore(f Fundamentals, metrics map[string]float64, signals *[]string) float64 {
	var scores []float64

	if f.ROE != nil {
		roePct := *f.ROE * 100
		metrics["roe"] = round2(roePct)

		roeLadder := scoring.Ladder[scoring.ScoreSignal]{
			Exclusive: true,
			Rungs: []scoring.Rung[scoring.ScoreSignal]{
				{Bound: 30, Value: scoring.ScoreSignal{Score: 95, Signal: fmt.Sprintf("🟢 ROE=%.1f%% (極めて高い - 特殊要因の可能性あり)", roePct)}},
				{Bound: 20, Value: scoring.ScoreSignal{Score: 95, Signal: fmt.Sprintf("🟢 ROE=%.1f%% (高収益)", roePct)}},
				{Bound: 15, Value: scoring.ScoreSignal{Score: 80}},
				{Bound: 10, Value: scoring.ScoreSignal{Score: 65}},
				{Bound: 5, Value: scoring.ScoreSignal{Score: 45}},
				{Bound: 0, Value: scoring.ScoreSignal{Score: 25}},
			},
			Fallback: scoring.ScoreSignal{Score: 10, Signal: fmt.Sprintf("🔴 ROE=%.1f%% (マイナス)", roePct)},
		}

		band := roeLadder.Lookup(roePct)
		scores = append(scores, band.Score)
		if band.Signal != "" {
			*signals = append(*signals, band.Signal)
		}
	}

	if f.OperatingMargin != nil {
		opPct := *f.OperatingMargin * 100
		metrics["operating_margin"] = round2(opPct)
		scores = append(scores, operatingMarginLadder.Lookup(opPct))
	}

	if f.NetMargin != nil {
		netPct := *f.NetMargin * 100
		metrics["net_margin"] = round2(netPct)
		scores = append(scores, netMarginLadder.Lookup(netPct))
	}

	return mean(scores)
}

func calcGrowthScore(f Fundamentals, metrics map[string]float64, signals *[]string) float64 {
	var scores []float64

	if f.RevenueGrowth != nil {
		revPct := *f.RevenueGrowth * 100
		metrics["revenue_growth"] = round2(revPct)

		revLadder := scoring.Ladder[scoring.ScoreSignal]{
			Exclusive: true,
			Rungs: []scoring.Rung[scoring.ScoreSignal]{
				{Bound: 20, Value: scoring.ScoreSignal{Score: 95, Signal: fmt.Sprintf("🟢 売上成長率=%.1f%% (高成長)", revPct)}},
				{Bound: 10, Value: scoring.ScoreSignal{Score: 75}},
				{Bound: 5, Value: scoring.ScoreSignal{Score: 60}},
				{Bound: 0, Value: scoring.ScoreSignal{Score: 45}},
				{Bound: -5, Value: scoring.ScoreSignal{Score: 30}},
			},
			Fallback: scoring.ScoreSignal{Score: 10, Signal: fmt.Sprintf("🔴 売上成長率=%.1f%% (減収)", revPct)},
		}

		band := revLadder.Lookup(revPct)
		scores = append(scores, band.Score)
		if band.Signal != "" {
			*signals = append(*signals, band.Signal)
		}
	}

	if f.EarningsGrowth != nil {
		earnPct := *f.EarningsGrowth * 100
		metrics["earnings_growth"] = round2(earnPct)
		scores = append(scores, earningsGrowthLadder.Lookup(earnPct))
	}

	return mean(scores)
}

func calcDividendScore(f Fundamentals, metrics map[string]float64, signals *[]string) float64 {
	if f.DividendYield == nil {
		metrics["dividend_yield"] = 0.0
		return 20.0 // 無配
	}

	yield := *f.DividendYield
	metrics["dividend_yield"] = round2(yield)

	dividendLadder := scoring.Ladder[scoring.ScoreSignal]{
		Exclusive: true,
		Rungs: []scoring.Rung[scoring.ScoreSignal]{
			{Bound: 4.0, Value: scoring.ScoreSignal{Score: 90, Signal: fmt.Sprintf("🟢 配当利回り=%.2f%% (高配当)", yield)}},
			{Bound: 3.0, Value: scoring.ScoreSignal{Score: 75}},
			{Bound: 2.0, Value: scoring.ScoreSignal{Score: 60}},
			{Bound: 1.0, Value: scoring.ScoreSignal{Score: 45}},
		},
		Fallback: scoring.ScoreSignal{Score: 30},
	}

	band := dividendLadder.Lookup(yield)
	if band.Signal != "" {
		*signals = append(*signals, band.Signal)
	}
	return band.Score
}

func neutralResult(ticker string) *contracts.FundamentalResult {
	return &contracts.FundamentalResult{
		Ticker:             ticker,
		ValuationScore:     50.0,
		ProfitabilityScore: 50.0,
		GrowthScore:        50.0,
		DividendScore:      50.0,
		CompositeScore:     50.0,
		Metrics:            map[string]float64{},
		Signals:            []string{"⚠️ ファンダメンタルデータ取得不可"},
	}
}

// mean averages axis sub-scores, falling back to neutral when a whole
// axis has no data
func mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 50.0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
