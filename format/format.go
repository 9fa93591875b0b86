// Package format provides display formatting for flight times, durations,
// and prices coming back from the upstream search API.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// ErrInvalidInput is returned for numeric input outside the documented domain.
var ErrInvalidInput = errors.New("invalid input")

// NotAvailable is the sentinel rendered for missing time components.
const NotAvailable = "N/A"

// currencySymbols maps currency codes to their display symbols. Codes
// without an entry are rendered as a "CODE " prefix instead.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
	"CNY": "¥",
	"KRW": "₩",
	"RUB": "₽",
	"TRY": "₺",
	"THB": "฿",
	"VND": "₫",
	"AUD": "A$",
	"CAD": "C$",
	"SGD": "S$",
	"HKD": "HK$",
	"NZD": "NZ$",
	"BRL": "R$",
	"MXN": "MX$",
	"ZAR": "R",
	"CHF": "CHF ",
	"SEK": "kr ",
	"NOK": "kr ",
	"DKK": "kr ",
	"AED": "AED ",
	"SAR": "SAR ",
	"ILS": "₪",
	"PHP": "₱",
	"IDR": "Rp ",
	"MYR": "RM ",
	"PLN": "zł ",
}

// ClockTime renders zero-padded 24-hour "HH:MM". Components outside the
// valid clock range stand for missing data and render as "N/A".
func ClockTime(hour, minute int) string {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return NotAvailable
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// Duration renders a minute count as "<h>h <m>m" using floor division.
func Duration(totalMinutes int) (string, error) {
	if totalMinutes < 0 {
		return "", fmt.Errorf("%w: negative duration %d", ErrInvalidInput, totalMinutes)
	}
	return fmt.Sprintf("%dh %dm", totalMinutes/60, totalMinutes%60), nil
}

// Price renders an amount expressed in thousandths of the major currency
// unit with the currency's symbol and thousands separators, no decimals.
func Price(minorUnits int64, currencyCode string) (string, error) {
	if minorUnits < 0 {
		return "", fmt.Errorf("%w: negative price %d", ErrInvalidInput, minorUnits)
	}
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code + " "
	}
	return symbol + humanize.Comma(minorUnits/1000), nil
}

// CurrencyForCountry maps an ISO country code to its currency code.
// Unknown or absent countries fall back to USD.
func CurrencyForCountry(countryCode string) string {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if code == "" {
		return "USD"
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return "USD"
	}
	unit, ok := currency.FromRegion(region)
	if !ok {
		return "USD"
	}
	return unit.String()
}
