package macro

import (
	"testing"

	"github.com/wonny/ichiba/internal/contracts"
)

func fp(v float64) *float64 { return &v }

func TestScore_EmptySnapshotNeutral(t *testing.T) {
	if got := Score(contracts.MacroIndicators{}); got != 50.0 {
		t.Errorf("Score(empty) = %v, want 50.0", got)
	}
}

func TestScore_VIXLadder(t *testing.T) {
	tests := []struct {
		vix  float64
		want float64
	}{
		{12.0, 90},
		{15.0, 70},
		{19.9, 70},
		{22.0, 50},
		{27.5, 30},
		{35.0, 10},
	}

	for _, tt := range tests {
		got := Score(contracts.MacroIndicators{VIX: fp(tt.vix)})
		if got != tt.want {
			t.Errorf("Score(VIX=%v) = %v, want %v", tt.vix, got, tt.want)
		}
	}
}

func TestScore_IndexChangeClamped(t *testing.T) {
	// +2% 日経 → 50 + 20 = 70
	got := Score(contracts.MacroIndicators{Nikkei225Change: fp(2.0)})
	if got != 70.0 {
		t.Errorf("Score(N225 +2%%) = %v, want 70.0", got)
	}

	// 暴騰しても100で頭打ち
	got = Score(contracts.MacroIndicators{Nikkei225Change: fp(8.0)})
	if got != 100.0 {
		t.Errorf("Score(N225 +8%%) = %v, want clamped 100.0", got)
	}

	// 暴落は0で下限
	got = Score(contracts.MacroIndicators{Nikkei225Change: fp(-9.0)})
	if got != 0.0 {
		t.Errorf("Score(N225 -9%%) = %v, want clamped 0.0", got)
	}
}

func TestScore_InvertedIndicators(t *testing.T) {
	// 金利上昇は株にマイナス: 50 - 1.0*15 = 35
	got := Score(contracts.MacroIndicators{US10YChange: fp(1.0)})
	if got != 35.0 {
		t.Errorf("Score(US10Y +1.0) = %v, want 35.0", got)
	}

	// 原油急落はプラス: 50 - (-4)*5 = 70
	got = Score(contracts.MacroIndicators{OilChange: fp(-4.0)})
	if got != 70.0 {
		t.Errorf("Score(oil -4%%) = %v, want 70.0", got)
	}
}

func TestScore_WeightsRenormalized(t *testing.T) {
	// VIX 12 → 90 (w 0.20), 日経 +1% → 60 (w 0.20)
	// (90*0.2 + 60*0.2) / 0.4 = 75
	got := Score(contracts.MacroIndicators{
		VIX:             fp(12.0),
		Nikkei225Change: fp(1.0),
	})
	if got != 75.0 {
		t.Errorf("Score = %v, want 75.0", got)
	}
}

func TestScore_FullSnapshot(t *testing.T) {
	got := Score(contracts.MacroIndicators{
		VIX:             fp(14.0), // 90, w .20
		Nikkei225Change: fp(1.5),  // 65, w .20
		SP500Change:     fp(0.5),  // 55, w .15
		USDJPYChange:    fp(1.0),  // 55, w .15
		US10YChange:     fp(0.2),  // 47, w .15
		OilChange:       fp(3.0),  // 35, w .15
	})

	// (90*.2 + 65*.2 + 55*.15 + 55*.15 + 47*.15 + 35*.15) / 1.0
	// = 18 + 13 + 8.25 + 8.25 + 7.05 + 5.25 = 59.8
	if got != 59.8 {
		t.Errorf("Score = %v, want 59.8", got)
	}
}
