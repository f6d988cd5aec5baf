package commands

import (
	"fmt"
	"strings"

	"github.com/wonny/b3dash/internal/tickers"
)

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintHeader prints a boxed command title
func PrintHeader(title string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	PrintSeparator()
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	total := 0
	for i, width := range widths {
		total += width
		if i < len(widths)-1 {
			total += 2
		}
	}
	fmt.Println(strings.Repeat("─", total))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// PrintResolution prints a ticker set as a table
func PrintResolution(res *tickers.Resolution) {
	widths := []int{4, 12, 12}
	PrintTableHeader([]string{"#", "Ticker", "Fonte"}, widths)
	for i, t := range res.Set.Tickers {
		PrintTableRow([]string{fmt.Sprint(i + 1), t.Symbol, string(t.Source)}, widths)
	}
	fmt.Println()

	PrintKeyValue("Total", fmt.Sprint(res.Set.Len()), 10)
	if !res.Set.ValidatedAt.IsZero() {
		PrintKeyValue("Validado", res.Set.ValidatedAt.Format(tickers.ValidatedAtLayout), 10)
	}
	PrintKeyValue("Cache", fmt.Sprint(res.FromCache), 10)

	if res.Degraded {
		PrintWarning(res.Warning)
	}
}
