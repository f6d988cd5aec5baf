package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	dataDir string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "b3dash",
	Short: "b3dash - B3 종목 대시보드 백엔드",
	Long: `b3dash Unified CLI

Yahoo Finance 기반 B3(브라질) 종목 선택, 이력 내보내기, 대시보드 API.

Usage:
  go run ./cmd/b3dash [command]

Examples:
  go run ./cmd/b3dash tickers resolve
  go run ./cmd/b3dash export --db
  go run ./cmd/b3dash api --port 8501
  go run ./cmd/b3dash scheduler start`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default DATA_DIR or ./data)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
