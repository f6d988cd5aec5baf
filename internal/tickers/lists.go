package tickers

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/b3dash/internal/contracts"
)

// Built-in tier 2 and tier 3 lists
var (
	defaultFallback = []string{
		"VALE3.SA", "PETR4.SA", "ITUB4.SA", "BBDC4.SA", "B3SA3.SA",
		"ABEV3.SA", "WEGE3.SA", "BBAS3.SA", "SUZB3.SA", "EQTL3.SA",
		"GGBR4.SA", "RENT3.SA", "LREN3.SA", "RAIL3.SA", "BPAC11.SA",
	}

	defaultAlternates = []string{
		"KLBN11.SA", "UGPA3.SA", "CCRO3.SA", "CYRE3.SA", "TOTS3.SA",
		"BRFS3.SA", "GOAU4.SA", "EMBR3.SA", "AZUL4.SA", "CSAN3.SA",
	}
)

// Lists holds the static symbol lists consulted when the primary source
// falls short
type Lists struct {
	Fallback   []string `yaml:"fallback"`
	Alternates []string `yaml:"alternates"`
}

// DefaultLists returns a copy of the built-in lists
func DefaultLists() Lists {
	return Lists{
		Fallback:   append([]string(nil), defaultFallback...),
		Alternates: append([]string(nil), defaultAlternates...),
	}
}

// LoadLists reads list overrides from a YAML file. An empty path returns the
// built-in lists; a key missing from the file keeps its built-in value.
// ⭐ SSOT: KnownFields(true)로 오타 필드 즉시 실패
func LoadLists(path string) (Lists, error) {
	lists := DefaultLists()
	if path == "" {
		return lists, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Lists{}, fmt.Errorf("read lists file: %w", err)
	}

	var override Lists
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&override); err != nil {
		return Lists{}, fmt.Errorf("parse lists file: %w", err)
	}

	if override.Fallback != nil {
		lists.Fallback = override.Fallback
	}
	if override.Alternates != nil {
		lists.Alternates = override.Alternates
	}

	lists.Fallback = normalizeAll(lists.Fallback)
	lists.Alternates = normalizeAll(lists.Alternates)

	if len(lists.Fallback) == 0 {
		return Lists{}, fmt.Errorf("lists file %s: fallback list is empty", path)
	}

	return lists, nil
}

// normalizeAll normalizes symbols, dropping blanks and duplicates
func normalizeAll(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for _, raw := range symbols {
		s := contracts.NormalizeSymbol(raw)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
