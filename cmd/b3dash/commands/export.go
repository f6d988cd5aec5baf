package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/b3dash/internal/export"
)

var (
	exportWithDB bool
	exportYears  int
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [symbols...]",
	Short: "일봉 이력 CSV 내보내기",
	Long: `활성 종목(또는 지정 종목)의 일봉 이력과 펀더멘털을
'|' 구분 CSV (DATA_DIR/dados_historicos.csv)로 내보냅니다.

Example:
  go run ./cmd/b3dash export
  go run ./cmd/b3dash export VALE3 PETR4 --years 1
  go run ./cmd/b3dash export --db`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().BoolVar(&exportWithDB, "db", false, "PostgreSQL market.daily_prices 에도 저장")
	exportCmd.Flags().IntVar(&exportYears, "years", 3, "이력 기간 (년)")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()

	symbols := normalizeArgs(args)
	if len(symbols) == 0 {
		res := a.tickers.Resolve(ctx)
		if res.Degraded {
			PrintWarning(res.Warning)
		}
		symbols = res.Set.Symbols()
	}

	exporter, repo, cleanup, err := a.newExporter(ctx, exportWithDB, export.WithYears(exportYears))
	if err != nil {
		return err
	}
	defer cleanup()

	PrintHeader("History Export")
	PrintKeyValue("Tickers", strings.Join(symbols, ", "), 8)
	PrintKeyValue("Years", fmt.Sprint(exportYears), 8)
	PrintSeparator()

	result, err := exporter.Export(ctx, symbols)
	if err != nil {
		return fmt.Errorf("export history: %w", err)
	}

	PrintKeyValue("Rows", fmt.Sprint(result.Rows), 8)
	PrintKeyValue("File", result.Path, 8)
	if len(result.Failed) > 0 {
		PrintWarning("Skipped: " + strings.Join(result.Failed, ", "))
	}

	if repo != nil {
		counts, err := repo.CountBySymbol(ctx)
		if err != nil {
			return err
		}
		PrintSeparator()
		widths := []int{12, 8}
		PrintTableHeader([]string{"Ticker", "Bars(DB)"}, widths)
		for _, symbol := range result.Tickers {
			PrintTableRow([]string{symbol, fmt.Sprint(counts[symbol])}, widths)
		}
	}
	PrintSuccess("Export complete")
	return nil
}
