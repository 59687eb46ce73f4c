package handlers

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/internal/scheduler"
	"github.com/wonny/ichiba/pkg/logger"
)

// analysisTimeout caps a manually triggered pipeline run
const analysisTimeout = 30 * time.Minute

// PipelineRunner runs the full daily analysis
type PipelineRunner interface {
	Run(ctx context.Context) (*contracts.DailyReport, error)
}

// JobControl exposes scheduler state to the API
type JobControl interface {
	Stats() map[string]scheduler.JobStats
}

// AnalysisHandler serves score results and manual analysis triggers
type AnalysisHandler struct {
	results  contracts.ResultRepository
	pipeline PipelineRunner
	sched    JobControl
	log      *logger.Logger

	running atomic.Bool
}

// NewAnalysisHandler creates an analysis handler. sched may be nil when
// the server runs without the scheduler.
func NewAnalysisHandler(results contracts.ResultRepository, pipeline PipelineRunner, sched JobControl, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{results: results, pipeline: pipeline, sched: sched, log: log}
}

// GetResults returns all score results for one date, score descending
// GET /api/results/{date}  (date = YYYY-MM-DD)
func (h *AnalysisHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(dateParamLayout, mux.Vars(r)["date"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	results, err := h.results.GetByDate(r.Context(), date)
	if err != nil {
		h.log.WithError(err).Error("スコア取得失敗")
		respondError(w, http.StatusInternalServerError, "Failed to load results")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":    date.Format(dateParamLayout),
		"count":   len(results),
		"results": results,
	})
}

// Trigger starts a full analysis run in the background.
// 多重起動は409で弾く。
// POST /api/analyze
func (h *AnalysisHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if !h.running.CompareAndSwap(false, true) {
		respondError(w, http.StatusConflict, "Analysis already running")
		return
	}

	go func() {
		defer h.running.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
		defer cancel()

		if _, err := h.pipeline.Run(ctx); err != nil {
			h.log.WithError(err).Error("手動分析失敗")
		}
	}()

	respondJSON(w, http.StatusAccepted, map[string]string{
		"status":  "accepted",
		"message": "Analysis started",
	})
}

// GetJobs returns scheduler job statistics
// GET /api/jobs
func (h *AnalysisHandler) GetJobs(w http.ResponseWriter, r *http.Request) {
	if h.sched == nil {
		respondError(w, http.StatusNotFound, "Scheduler not running")
		return
	}

	respondJSON(w, http.StatusOK, h.sched.Stats())
}
