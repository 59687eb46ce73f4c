package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/ichiba/internal/api"
	"github.com/wonny/ichiba/internal/api/handlers"
)

var apiPort string

// apiCmd starts the REST API server
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "APIサーバ起動",
	Long: `REST APIサーバを起動します。

Endpoints:
  GET  /health              - Health check
  GET  /api/report/latest   - 最新レポート
  GET  /api/report/{date}   - 日付指定レポート
  GET  /api/results/{date}  - 日付指定スコア一覧
  POST /api/analyze         - 分析の手動実行
  GET  /api/jobs            - スケジューラ統計

Example:
  go run ./cmd/ichiba api
  go run ./cmd/ichiba api --port 8091`,
	RunE: runAPIServer,
}

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "APIサーバポート (省略時は設定値)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	reportHandler := handlers.NewReportHandler(a.reports, a.cache, a.log)
	analysisHandler := handlers.NewAnalysisHandler(a.results, a.pipeline, nil, a.log)

	router := api.NewRouter(reportHandler, analysisHandler, a.log)
	server := api.New(a.cfg, a.log, router)

	go func() {
		if err := server.Start(); err != nil {
			a.log.WithError(err).Fatal("APIサーバ起動失敗")
		}
	}()

	fmt.Printf("✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
