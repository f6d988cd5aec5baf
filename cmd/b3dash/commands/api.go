package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/b3dash/internal/api"
	"github.com/wonny/b3dash/internal/api/handlers"
)

var apiPort string

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "대시보드 API 서버 시작",
	Long: `대시보드용 HTTP API 서버를 시작합니다.

Endpoints:
  GET  /health
  GET  /metrics
  GET  /api/tickers
  POST /api/tickers/refresh
  GET  /api/stocks/{symbol}/history?period=6m
  GET  /api/stocks/{symbol}/summary?period=6m
  GET  /api/stocks/{symbol}/fundamentals
  GET  /api/stocks/{symbol}/chart.png?period=6m

Example:
  go run ./cmd/b3dash api --port 8501`,
	RunE: runAPIServer,
}

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본 PORT 환경변수)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	h := api.Handlers{
		Tickers: handlers.NewTickerHandler(a.tickers, a.log),
		Stocks:  handlers.NewStockHandler(a.provider, a.log),
	}
	server := api.New(a.cfg, a.log, api.NewRouter(h, a.metrics, a.log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 첫 요청 전에 종목 목록 준비
	go a.tickers.Resolve(ctx)

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	return server.Run(ctx)
}
