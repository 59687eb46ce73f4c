package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wonny/ichiba/pkg/httputil"
	"github.com/wonny/ichiba/pkg/logger"
)

func newTestClient(t *testing.T, payload string) *Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	t.Cleanup(server.Close)

	c := NewClient(httputil.New(logger.NewNop()), logger.NewNop())
	c.baseURL = server.URL
	return c
}

func TestGetDailyPrices_RaggedArrays(t *testing.T) {
	// open が1本だけ短く、volume に null が混じるペイロード
	payload := `{"chart":{"result":[{
		"timestamp":[1700000000,1700086400,1700172800],
		"indicators":{"quote":[{
			"open":[100.0,101.0],
			"high":[102.0,103.0,104.0],
			"low":[99.0,100.0,101.0],
			"close":[101.0,102.0,103.0],
			"volume":[1000000,null,1200000]
		}]}}],"error":null}}`

	c := newTestClient(t, payload)

	prices, err := c.GetDailyPrices(context.Background(), "7203.T", 5)
	if err != nil {
		t.Fatalf("GetDailyPrices failed: %v", err)
	}

	// 2本目は volume null で落ち、3本目は open が無いので範囲外
	if len(prices) != 1 {
		t.Fatalf("bars = %d, want 1", len(prices))
	}
	if prices[0].Open != 100.0 || prices[0].Close != 101.0 || prices[0].Volume != 1000000 {
		t.Errorf("bar = %+v", prices[0])
	}
}

func TestGetDailyPrices_APIError(t *testing.T) {
	payload := `{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`

	c := newTestClient(t, payload)

	if _, err := c.GetDailyPrices(context.Background(), "0000.T", 5); err == nil {
		t.Error("expected error for chart API error payload")
	}
}

func TestGetQuote_ChangePercent(t *testing.T) {
	payload := `{"chart":{"result":[{
		"timestamp":[1700000000,1700086400],
		"indicators":{"quote":[{
			"open":[100.0,101.0],
			"high":[102.0,103.0],
			"low":[99.0,100.0],
			"close":[100.0,102.0],
			"volume":[1000000,1100000]
		}]}}],"error":null}}`

	c := newTestClient(t, payload)

	latest, change, err := c.GetQuote(context.Background(), "7203.T")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}
	if latest == nil || *latest != 102.0 {
		t.Fatalf("latest = %v, want 102.0", latest)
	}
	if change == nil || *change != 2.0 {
		t.Errorf("change = %v, want 2.0", change)
	}
}
