package services

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "CN¥",
	"AUD": "A$",
	"CAD": "CA$",
	"NZD": "NZ$",
	"HKD": "HK$",
	"ILS": "₪",
	"KRW": "₩",
	"VND": "₫",
	"PHP": "₱",
	"BRL": "R$",
	"MXN": "MX$",
	"TWD": "NT$",
}

// CurrencyScale returns the number of minor-unit digits for an ISO 4217
// code, or 2 when the code is unknown.
func CurrencyScale(code string) int {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

// RoundCurrency rounds amount to the currency's minor unit
func RoundCurrency(amount float64, code string) float64 {
	f, _ := decimal.NewFromFloat(amount).Round(int32(CurrencyScale(code))).Float64()
	return f
}

// FormatCurrency renders amount for display, e.g. "₹1,234.50" or "¥1,235".
// Codes without a known symbol are prefixed with the code itself.
func FormatCurrency(amount float64, code string, locale language.Tag) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	scale := CurrencyScale(code)

	rounded := RoundCurrency(amount, code)
	sign := ""
	if rounded < 0 {
		sign = "-"
	}

	p := message.NewPrinter(locale)
	digits := p.Sprint(number.Decimal(math.Abs(rounded),
		number.MinFractionDigits(scale),
		number.MaxFractionDigits(scale),
	))

	if sym, ok := currencySymbols[code]; ok {
		return sign + sym + digits
	}
	if code == "" {
		return sign + digits
	}
	return sign + code + " " + digits
}
