package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd shows a snapshot of the system state
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "システム状態を表示",
	Long: `DB接続、銘柄数、未分析ニュース、最新レポートの状態を表示します。

Example:
  go run ./cmd/ichiba status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	health, err := a.db.HealthCheck(ctx)
	if err != nil {
		fmt.Printf("❌ DB: %s\n", health.Error)
		return err
	}
	fmt.Printf("✅ DB: ok (%s, conns %d/%d)\n",
		health.ResponseTime, health.Stats.TotalConns, health.Stats.MaxConns)

	stocks, err := a.stocks.List(ctx)
	if err != nil {
		return fmt.Errorf("list stocks: %w", err)
	}
	fmt.Printf("📊 銘柄マスタ: %d件 (ユニバース %d銘柄)\n", len(stocks), len(a.cfg.Universe))

	unscored, err := a.news.GetUnscored(ctx, 1000)
	if err != nil {
		return fmt.Errorf("count unscored: %w", err)
	}
	fmt.Printf("📰 未分析ニュース: %d件\n", len(unscored))

	latest, err := a.reports.GetLatest(ctx)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}
	if latest == nil {
		fmt.Println("📄 レポート: なし")
	} else {
		fmt.Printf("📄 最新レポート: %s (分析 %d銘柄, Top: %s)\n",
			latest.ReportDate.Format("2006-01-02"), len(latest.AllResults), latest.TopTicker())
	}

	return nil
}
