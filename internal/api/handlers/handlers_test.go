package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/pkg/logger"
)

type fakeReports struct {
	latest *contracts.DailyReport
	err    error
}

func (f *fakeReports) Save(ctx context.Context, report *contracts.DailyReport) error { return nil }
func (f *fakeReports) GetLatest(ctx context.Context) (*contracts.DailyReport, error) {
	return f.latest, f.err
}
func (f *fakeReports) GetByDate(ctx context.Context, date time.Time) (*contracts.DailyReport, error) {
	return f.latest, f.err
}

type fakeResults struct {
	results []contracts.ScoreResult
}

func (f *fakeResults) Upsert(ctx context.Context, date time.Time, result contracts.ScoreResult) error {
	return nil
}
func (f *fakeResults) GetByDate(ctx context.Context, date time.Time) ([]contracts.ScoreResult, error) {
	return f.results, nil
}

type fakePipeline struct {
	mu      sync.Mutex
	runs    int
	started chan struct{}
	release chan struct{}
}

func (f *fakePipeline) Run(ctx context.Context) (*contracts.DailyReport, error) {
	f.mu.Lock()
	f.runs++
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return &contracts.DailyReport{}, nil
}

func TestGetLatestReport(t *testing.T) {
	h := NewReportHandler(&fakeReports{latest: &contracts.DailyReport{ReportType: "daily"}}, nil, logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetLatest(rec, httptest.NewRequest("GET", "/api/report/latest", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var report contracts.DailyReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.ReportType != "daily" {
		t.Errorf("report_type = %q", report.ReportType)
	}
}

func TestGetLatestReportMissing(t *testing.T) {
	h := NewReportHandler(&fakeReports{}, nil, logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetLatest(rec, httptest.NewRequest("GET", "/api/report/latest", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetLatestReportError(t *testing.T) {
	h := NewReportHandler(&fakeReports{err: errors.New("db down")}, nil, logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetLatest(rec, httptest.NewRequest("GET", "/api/report/latest", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestGetReportByDateInvalid(t *testing.T) {
	h := NewReportHandler(&fakeReports{}, nil, logger.NewNop())

	req := mux.SetURLVars(httptest.NewRequest("GET", "/api/report/yesterday", nil),
		map[string]string{"date": "yesterday"})
	rec := httptest.NewRecorder()
	h.GetByDate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetResults(t *testing.T) {
	results := &fakeResults{results: []contracts.ScoreResult{
		{Ticker: "8035.T", TotalScore: 78.4},
		{Ticker: "7203.T", TotalScore: 55.0},
	}}
	h := NewAnalysisHandler(results, &fakePipeline{}, nil, logger.NewNop())

	req := mux.SetURLVars(httptest.NewRequest("GET", "/api/results/2025-04-01", nil),
		map[string]string{"date": "2025-04-01"})
	rec := httptest.NewRecorder()
	h.GetResults(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Count   int                     `json:"count"`
		Results []contracts.ScoreResult `json:"results"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 2 || len(body.Results) != 2 {
		t.Errorf("count = %d, results = %d", body.Count, len(body.Results))
	}
}

func TestTriggerRejectsConcurrentRuns(t *testing.T) {
	pipeline := &fakePipeline{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	h := NewAnalysisHandler(&fakeResults{}, pipeline, nil, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Trigger(rec, httptest.NewRequest("POST", "/api/analyze", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("first trigger status = %d, want 202", rec.Code)
	}
	<-pipeline.started

	rec2 := httptest.NewRecorder()
	h.Trigger(rec2, httptest.NewRequest("POST", "/api/analyze", nil))
	if rec2.Code != http.StatusConflict {
		t.Errorf("second trigger status = %d, want 409", rec2.Code)
	}

	close(pipeline.release)
}

func TestGetJobsWithoutScheduler(t *testing.T) {
	h := NewAnalysisHandler(&fakeResults{}, &fakePipeline{}, nil, logger.NewNop())

	rec := httptest.NewRecorder()
	h.GetJobs(rec, httptest.NewRequest("GET", "/api/jobs", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
