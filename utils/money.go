package utils

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "CA$",
	"AUD": "A$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
	"CNY": "CN¥",
	"KRW": "₩",
	"DKK": "DKK ",
	"SEK": "SEK ",
}

var moneyPrinter = message.NewPrinter(language.AmericanEnglish)

// ConvertToLocale formats amount in currencyCode for display, e.g. "$1,234.50".
// Fraction digits follow the currency's standard scale. Without a valid
// currency code the bare amount is returned.
func ConvertToLocale(amount decimal.Decimal, currencyCode string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if code == "" {
		return amount.String()
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return amount.String()
	}

	scale, _ := currency.Standard.Rounding(unit)
	rounded := amount.Round(int32(scale))

	sign := ""
	if rounded.Sign() < 0 {
		sign = "-"
		rounded = rounded.Abs()
	}

	return sign + CurrencySymbol(code) + groupFixed(rounded, int32(scale))
}

// groupFixed prints amount with scale fraction digits and grouped whole
// digits. Only the whole part goes through the number formatter, as an
// int64, so no digit is lost to float conversion.
func groupFixed(amount decimal.Decimal, scale int32) string {
	whole, frac, _ := strings.Cut(amount.StringFixed(scale), ".")
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		whole = moneyPrinter.Sprint(number.Decimal(n))
	}
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

func CurrencySymbol(code string) string {
	code = strings.ToUpper(code)
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return code + " "
}

// PercentageDiff is the discount of calculated relative to original, as a
// whole-number percent string ("25" for 100 -> 75).
func PercentageDiff(original, calculated decimal.Decimal) string {
	if original.Sign() <= 0 {
		return "0"
	}
	diff := original.Sub(calculated)
	return diff.Div(original).Mul(decimal.NewFromInt(100)).Round(0).String()
}

// FormattedCartTotals renders the cart totals for display.
func FormattedCartTotals(currencyCode string, totals map[string]decimal.Decimal) map[string]string {
	out := make(map[string]string, len(totals))
	for k, v := range totals {
		out[k] = ConvertToLocale(v, currencyCode)
	}
	return out
}
