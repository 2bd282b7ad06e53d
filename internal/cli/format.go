package cli

import (
	"strconv"
	"strings"

	"spese/internal/core"
)

// FormatMoney formats an amount with a currency symbol and thousands separators.
// e.g., 123456 cents -> "$1,234.56"
func FormatMoney(m core.Money) string {
	s := m.String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + "$" + s
	}
	return sign + "$" + FormatNumber(n) + "." + frac
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPercent renders part/total as a one-decimal percentage.
func FormatPercent(part, total core.Money) string {
	if total.Cents <= 0 {
		return "0.0%"
	}
	pct := float64(part.Cents) * 100 / float64(total.Cents)
	return strconv.FormatFloat(pct, 'f', 1, 64) + "%"
}
