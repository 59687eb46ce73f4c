package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/ichiba/internal/report"
)

var (
	analyzeSkipCollect bool
	analyzeNoEmail     bool
)

// analyzeCmd runs the full daily analysis once
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "日次分析を実行",
	Long: `全銘柄の分析を実行し、おすすめ銘柄レポートを生成します。

実行内容:
- 株価・ニュース収集 (--skip-collect で省略可)
- センチメント / テクニカル / ファンダメンタル / マクロ分析
- マルチファクタースコアリングとレポート保存

Example:
  go run ./cmd/ichiba analyze
  go run ./cmd/ichiba analyze --skip-collect --no-email`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeSkipCollect, "skip-collect", false, "データ収集をスキップして分析のみ実行")
	analyzeCmd.Flags().BoolVar(&analyzeNoEmail, "no-email", false, "メール送信を行わない")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.Close()

	if analyzeSkipCollect {
		a.pipeline.SkipCollection()
	}
	if analyzeNoEmail {
		a.pipeline.SkipNotification()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	result, err := a.pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	fmt.Print(report.RenderText(result))
	return nil
}
