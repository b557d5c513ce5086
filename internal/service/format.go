package service

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatUSD renders an amount as "$1,234.56".
func FormatUSD(d decimal.Decimal) string {
	return "$" + humanize.FormatFloat("#,###.##", d.Round(2).InexactFloat64())
}

// FormatLocal renders a whole-unit local currency amount, e.g. "Rp 1,411,764".
func FormatLocal(d decimal.Decimal, currency string) string {
	return CurrencySymbol(currency) + " " + humanize.Comma(d.Truncate(0).IntPart())
}

func CurrencySymbol(currency string) string {
	switch strings.ToUpper(currency) {
	case "IDR":
		return "Rp"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "USD":
		return "$"
	default:
		return strings.ToUpper(currency)
	}
}
