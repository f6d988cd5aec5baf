package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wonny/b3dash/internal/tickers"
)

var tickersForce bool

// tickersCmd represents the tickers command
var tickersCmd = &cobra.Command{
	Use:   "tickers",
	Short: "종목 목록 관리",
	Long: `검증된 B3 종목 목록을 조회하거나 갱신합니다.

Subcommands:
  resolve - 캐시 확인 후 필요 시 재선택 (--force: 캐시 무시)
  show    - 캐시 파일 내용 출력 (원격 호출 없음)
  scan    - 전체 후보 수집 및 활성 종목 CSV 작성

Example:
  go run ./cmd/b3dash tickers resolve
  go run ./cmd/b3dash tickers resolve --force
  go run ./cmd/b3dash tickers scan`,
}

var (
	tickersResolveCmd = &cobra.Command{
		Use:   "resolve",
		Short: "활성 종목 목록 결정",
		RunE:  runTickersResolve,
	}

	tickersShowCmd = &cobra.Command{
		Use:   "show",
		Short: "캐시된 종목 목록 출력",
		RunE:  runTickersShow,
	}

	tickersScanCmd = &cobra.Command{
		Use:   "scan",
		Short: "전체/활성 종목 CSV 작성",
		RunE:  runTickersScan,
	}
)

func init() {
	rootCmd.AddCommand(tickersCmd)
	tickersCmd.AddCommand(tickersResolveCmd)
	tickersCmd.AddCommand(tickersShowCmd)
	tickersCmd.AddCommand(tickersScanCmd)

	tickersResolveCmd.Flags().BoolVar(&tickersForce, "force", false, "캐시를 무시하고 재선택")
}

func runTickersResolve(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	PrintHeader("Ticker Selection")

	var res *tickers.Resolution
	if tickersForce {
		res = a.tickers.Refresh(cmd.Context())
	} else {
		res = a.tickers.Resolve(cmd.Context())
	}

	PrintResolution(res)
	PrintKeyValue("Arquivo", a.cfg.TickerCachePath(), 10)
	return nil
}

func runTickersShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cache := tickers.NewCache(a.cfg.TickerCachePath(), a.cfg.Selector.FreshnessWindow, tickers.SystemClock{}, a.log, nil)
	set, ok := cache.Load()
	if !ok {
		PrintWarning(fmt.Sprintf("No fresh ticker cache at %s", cache.Path()))
		return nil
	}

	PrintHeader("Cached Tickers")
	PrintResolution(&tickers.Resolution{Set: set, FromCache: true})
	return nil
}

func runTickersScan(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	PrintHeader("Ticker Scan")

	scanner := tickers.NewScanner(a.yahoo, a.yahoo, a.lists, a.cfg.DataDir, a.log)
	res, err := scanner.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan tickers: %w", err)
	}

	PrintKeyValue("Total", fmt.Sprint(len(res.All)), 8)
	PrintKeyValue("Ativos", fmt.Sprint(len(res.Active)), 8)
	PrintKeyValue("Arquivo", filepath.Join(a.cfg.DataDir, tickers.ActiveTickersFile), 8)
	PrintSuccess("Scan complete")
	return nil
}
