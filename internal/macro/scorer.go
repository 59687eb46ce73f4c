package macro

import (
	"math"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/internal/scoring"
)

// vixLadder maps the VIX level to a market stability score: 低いほど安定
var vixLadder = scoring.Ladder[float64]{
	Ascending: true,
	Rungs: []scoring.Rung[float64]{
		{Bound: 15, Value: 90},
		{Bound: 20, Value: 70},
		{Bound: 25, Value: 50},
		{Bound: 30, Value: 30},
	},
	Fallback: 10,
}

// Score rates the macro environment on 0~100. High = supportive for
// equities. Each present indicator contributes with its own weight and
// the weights are renormalized over what is available; a fully empty
// snapshot is neutral 50.0.
func Score(ind contracts.MacroIndicators) float64 {
	var scores, weights []float64

	add := func(score, weight float64) {
		scores = append(scores, score)
		weights = append(weights, weight)
	}

	if ind.VIX != nil {
		add(vixLadder.Lookup(*ind.VIX), 0.20)
	}

	// 株価指数の前日比: プラスなら高スコア
	if ind.Nikkei225Change != nil {
		add(clamp100(50+*ind.Nikkei225Change*10), 0.20)
	}
	if ind.SP500Change != nil {
		add(clamp100(50+*ind.SP500Change*10), 0.15)
	}

	// 円安は輸出企業にプラス
	if ind.USDJPYChange != nil {
		add(clamp100(50+*ind.USDJPYChange*5), 0.15)
	}

	// 金利急上昇・原油急騰は株にマイナス
	if ind.US10YChange != nil {
		add(clamp100(50-*ind.US10YChange*15), 0.15)
	}
	if ind.OilChange != nil {
		add(clamp100(50-*ind.OilChange*5), 0.15)
	}

	if len(scores) == 0 {
		return 50.0
	}

	var weightedSum, totalWeight float64
	for i, s := range scores {
		weightedSum += s * weights[i]
		totalWeight += weights[i]
	}

	return round1(weightedSum / totalWeight)
}

func clamp100(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
