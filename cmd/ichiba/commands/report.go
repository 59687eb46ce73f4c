package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/internal/report"
)

var reportDate string

// reportCmd prints a stored daily report
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "保存済みレポートを表示",
	Long: `保存された日次レポートを表示します。

Example:
  go run ./cmd/ichiba report
  go run ./cmd/ichiba report --date 2025-04-01`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportDate, "date", "", "レポート日付 (YYYY-MM-DD、省略時は最新)")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stored, err := loadReport(ctx, a)
	if err != nil {
		return err
	}
	if stored == nil {
		fmt.Println("レポートがありません。先に analyze を実行してください。")
		return nil
	}

	fmt.Print(report.RenderText(stored))
	return nil
}

func loadReport(ctx context.Context, a *app) (*contracts.DailyReport, error) {
	if reportDate == "" {
		return a.reports.GetLatest(ctx)
	}

	date, err := time.Parse("2006-01-02", reportDate)
	if err != nil {
		return nil, fmt.Errorf("invalid --date, expected YYYY-MM-DD: %w", err)
	}
	return a.reports.GetByDate(ctx, date)
}
