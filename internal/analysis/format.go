package analysis

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL renders a value as Brazilian currency, e.g. "R$ 1.234,56"
func FormatBRL(v float64) string {
	return "R$ " + formatDecimalBR(v, 2)
}

// FormatPercent renders a percentage with two decimals, e.g. "12.34%"
func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

// FormatNumberBR renders a number with "." thousands and "," decimals
func FormatNumberBR(v float64, places int32) string {
	return formatDecimalBR(v, places)
}

func formatDecimalBR(v float64, places int32) string {
	s := decimal.NewFromFloat(v).StringFixed(places)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, fracPart := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot+1:]
	}

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}
