package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/ichiba/internal/recommend"
	"github.com/wonny/ichiba/pkg/logger"
)

// DailyAnalysisJob runs the full recommendation pipeline after the
// market close
// ⭐ SSOT: 日次分析のスケジュールはこのJobだけ
type DailyAnalysisJob struct {
	pipeline *recommend.Pipeline
	log      *logger.Logger
}

// NewDailyAnalysisJob creates the daily analysis job
func NewDailyAnalysisJob(pipeline *recommend.Pipeline, log *logger.Logger) *DailyAnalysisJob {
	return &DailyAnalysisJob{pipeline: pipeline, log: log}
}

// Name returns the job name
func (j *DailyAnalysisJob) Name() string {
	return "daily_analysis"
}

// Schedule returns the cron schedule (weekdays at 6 PM)
func (j *DailyAnalysisJob) Schedule() string {
	return "0 0 18 * * 1-5"
}

// Run executes the full analysis and reports the top pick
func (j *DailyAnalysisJob) Run(ctx context.Context) error {
	report, err := j.pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("daily analysis: %w", err)
	}

	j.log.WithFields(map[string]interface{}{
		"analyzed": len(report.AllResults),
		"top":      report.TopTicker(),
	}).Info("📈 日次分析ジョブ完了")

	return nil
}
