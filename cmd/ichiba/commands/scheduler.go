package commands

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/ichiba/internal/scheduler"
	"github.com/wonny/ichiba/internal/scheduler/jobs"
)

// schedulerCmd manages the job scheduler daemon
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "スケジューラ管理",
	Long: `スケジューラデーモンを起動します。

登録されるジョブ:
- data_collection: 平日17時 (銘柄マスタ・日足収集)
- news_collection: 毎時 (ニュース収集 + センチメント)
- daily_analysis:  平日18時 (日次分析とレポート)

Example:
  go run ./cmd/ichiba scheduler start
  go run ./cmd/ichiba scheduler run daily_analysis`,
}

var schedulerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "スケジューラ起動",
	RunE:  runScheduler,
}

var schedulerRunCmd = &cobra.Command{
	Use:   "run [job_name]",
	Short: "ジョブを即時実行",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedulerJob,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func buildScheduler(a *app) (*scheduler.Scheduler, error) {
	s := scheduler.New(a.log)

	for _, job := range []scheduler.Job{
		jobs.NewDataCollectionJob(a.dataCollector, a.cfg, a.log),
		jobs.NewNewsCollectionJob(a.newsCollector, a.articles, a.log),
		jobs.NewDailyAnalysisJob(a.pipeline, a.log),
	} {
		if err := s.AddJob(job); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.Close()

	s, err := buildScheduler(a)
	if err != nil {
		return fmt.Errorf("build scheduler: %w", err)
	}

	s.Start()

	stats := s.Stats()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("✅ スケジューラ起動")
	for _, name := range names {
		fmt.Printf("  %-18s %s\n", name, stats[name].Schedule)
	}
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	s.Stop()
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.Close()

	s, err := buildScheduler(a)
	if err != nil {
		return fmt.Errorf("build scheduler: %w", err)
	}

	if err := s.RunJob(args[0]); err != nil {
		return err
	}

	fmt.Printf("✅ ジョブ %s を開始しました\n", args[0])

	// ジョブはバックグラウンド実行なので完了を待つ
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
