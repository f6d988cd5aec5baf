package commands

import "github.com/wonny/b3dash/internal/contracts"

// normalizeArgs turns CLI symbols into B3 symbols, dropping blanks
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if s := contracts.NormalizeSymbol(a); s != "" {
			out = append(out, s)
		}
	}
	return out
}
