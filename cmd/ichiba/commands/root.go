package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ichiba",
	Short: "ichiba - マルチファクター銘柄推薦エンジン",
	Long: `ichiba CLI

ニュースセンチメント、テクニカル、ファンダメンタル、マクロ環境を
統合して日次のおすすめ銘柄レポートを生成するシステム。

Usage:
  go run ./cmd/ichiba [command]

Examples:
  go run ./cmd/ichiba analyze
  go run ./cmd/ichiba collect news
  go run ./cmd/ichiba report
  go run ./cmd/ichiba api
  go run ./cmd/ichiba scheduler start`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}
