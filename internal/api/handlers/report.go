package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/pkg/logger"
	"github.com/wonny/ichiba/pkg/redis"
)

const (
	dateParamLayout = "2006-01-02"

	latestReportKey = "report:latest"
	latestReportTTL = 5 * time.Minute
)

// ReportHandler serves stored daily reports
// ⭐ SSOT: レポートAPIハンドラはこの構造体だけ
type ReportHandler struct {
	reports contracts.ReportRepository
	cache   *redis.Cache // nil = no caching
	log     *logger.Logger
}

// NewReportHandler creates a report handler
func NewReportHandler(reports contracts.ReportRepository, cache *redis.Cache, log *logger.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, cache: cache, log: log}
}

// GetLatest returns the most recent daily report
// GET /api/report/latest
func (h *ReportHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		var cached contracts.DailyReport
		if hit, err := h.cache.Get(ctx, latestReportKey, &cached); err == nil && hit {
			respondJSON(w, http.StatusOK, &cached)
			return
		}
	}

	report, err := h.reports.GetLatest(ctx)
	if err != nil {
		h.log.WithError(err).Error("レポート取得失敗")
		respondError(w, http.StatusInternalServerError, "Failed to load report")
		return
	}
	if report == nil {
		respondError(w, http.StatusNotFound, "No report available")
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, latestReportKey, report, latestReportTTL); err != nil {
			h.log.WithError(err).Warn("レポートキャッシュ保存失敗")
		}
	}

	respondJSON(w, http.StatusOK, report)
}

// GetByDate returns the daily report for one date
// GET /api/report/{date}  (date = YYYY-MM-DD)
func (h *ReportHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse(dateParamLayout, mux.Vars(r)["date"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	report, err := h.reports.GetByDate(r.Context(), date)
	if err != nil {
		h.log.WithError(err).Error("レポート取得失敗")
		respondError(w, http.StatusInternalServerError, "Failed to load report")
		return
	}
	if report == nil {
		respondError(w, http.StatusNotFound, "No report for that date")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
