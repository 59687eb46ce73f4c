package macro

import (
	"context"
	"errors"
	"testing"

	"github.com/wonny/ichiba/pkg/logger"
)

type stubQuotes struct {
	values map[string][2]float64
}

func (s stubQuotes) GetQuote(_ context.Context, symbol string) (*float64, *float64, error) {
	q, ok := s.values[symbol]
	if !ok {
		return nil, nil, errors.New("symbol unavailable")
	}
	v, c := q[0], q[1]
	return &v, &c, nil
}

func TestCollect_PartialFailure(t *testing.T) {
	c := NewCollector(stubQuotes{values: map[string][2]float64{
		"^VIX":  {18.5, -2.1},
		"^N225": {39500.0, 1.2},
	}}, logger.NewNop())

	got := c.Collect(context.Background())

	if got.VIX == nil || *got.VIX != 18.5 {
		t.Errorf("VIX = %v, want 18.5", got.VIX)
	}
	if got.Nikkei225Change == nil || *got.Nikkei225Change != 1.2 {
		t.Errorf("Nikkei225Change = %v, want 1.2", got.Nikkei225Change)
	}

	// 失敗したシンボルはnilのまま
	if got.SP500 != nil || got.Oil != nil || got.Gold != nil {
		t.Errorf("Failed symbols must stay nil: %+v", got)
	}
	if got.CollectedAt.IsZero() {
		t.Error("CollectedAt not set")
	}

	// 部分的なスナップショットでもスコアは出る
	score := Score(got)
	if score <= 0 || score > 100 {
		t.Errorf("Score = %v, out of range", score)
	}
}
