package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/ichiba/internal/recommend"
	"github.com/wonny/ichiba/pkg/config"
	"github.com/wonny/ichiba/pkg/logger"
)

// DataCollectionJob refreshes the universe and daily bars after the
// close, ahead of the analysis run
type DataCollectionJob struct {
	data recommend.DataIngester
	cfg  *config.Config
	log  *logger.Logger
}

// NewDataCollectionJob creates the data collection job
func NewDataCollectionJob(data recommend.DataIngester, cfg *config.Config, log *logger.Logger) *DataCollectionJob {
	return &DataCollectionJob{data: data, cfg: cfg, log: log}
}

// Name returns the job name
func (j *DataCollectionJob) Name() string {
	return "data_collection"
}

// Schedule returns the cron schedule (weekdays at 5 PM, before analysis)
func (j *DataCollectionJob) Schedule() string {
	return "0 0 17 * * 1-5"
}

// Run syncs the instrument universe and ingests recent bars
func (j *DataCollectionJob) Run(ctx context.Context) error {
	if err := j.data.SyncUniverse(ctx, j.cfg.Universe); err != nil {
		return fmt.Errorf("sync universe: %w", err)
	}
	if err := j.data.IngestPrices(ctx, j.cfg.Universe); err != nil {
		return fmt.Errorf("ingest prices: %w", err)
	}

	j.log.WithField("tickers", len(j.cfg.Universe)).Info("📊 データ収集ジョブ完了")
	return nil
}
