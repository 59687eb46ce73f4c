package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// collectCmd groups the manual collection commands
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "データ収集",
	Long: `株価・銘柄情報・ニュースを収集します。

Subcommands:
  data  - 銘柄マスタと日足データを収集
  news  - ニュースを収集してセンチメント分析
  all   - すべて収集

Example:
  go run ./cmd/ichiba collect data
  go run ./cmd/ichiba collect news`,
}

var collectDataCmd = &cobra.Command{
	Use:   "data",
	Short: "銘柄マスタと日足データを収集",
	RunE:  runCollectData,
}

var collectNewsCmd = &cobra.Command{
	Use:   "news",
	Short: "ニュースを収集してセンチメント分析",
	RunE:  runCollectNews,
}

var collectAllCmd = &cobra.Command{
	Use:   "all",
	Short: "すべて収集",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCollectData(cmd, args); err != nil {
			return err
		}
		return runCollectNews(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.AddCommand(collectDataCmd)
	collectCmd.AddCommand(collectNewsCmd)
	collectCmd.AddCommand(collectAllCmd)
}

func runCollectData(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	if err := a.dataCollector.SyncUniverse(ctx, a.cfg.Universe); err != nil {
		return fmt.Errorf("sync universe: %w", err)
	}
	if err := a.dataCollector.IngestPrices(ctx, a.cfg.Universe); err != nil {
		return fmt.Errorf("ingest prices: %w", err)
	}

	fmt.Printf("✅ %d銘柄のデータ収集完了\n", len(a.cfg.Universe))
	return nil
}

func runCollectNews(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	saved, err := a.newsCollector.CollectAll(ctx)
	if err != nil {
		return fmt.Errorf("collect news: %w", err)
	}

	scored, err := a.articles.AnalyzeUnscored(ctx, 200)
	if err != nil {
		return fmt.Errorf("analyze sentiment: %w", err)
	}

	fmt.Printf("✅ ニュース%d件保存、%d件スコアリング\n", saved, scored)
	return nil
}
