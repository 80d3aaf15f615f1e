// Package money handles minor-unit amounts: parsing user input into
// cents, rendering cents for display, and read-time currency conversion.
// Amounts are always stored as integer cents in the base currency to
// avoid floating point drift.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAmount indicates an amount string that cannot be parsed into
// a positive number of cents.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmountToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Both dot and comma are accepted as
// the decimal separator. The result must be strictly positive.
func ParseAmountToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafe = math.MaxInt64 / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}

	// First two fractional digits, half-up rounding on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// FormatDecimal renders cents as a plain fixed-2-decimal string with no
// currency symbol, e.g. 1599 -> "15.99". Used by the CSV codec.
func FormatDecimal(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Convert applies an exchange rate to a cent amount at read time,
// rounding half away from zero. Stored data is never converted.
func Convert(cents int64, rate float64) int64 {
	return int64(math.Round(float64(cents) * rate))
}

// symbols covers the currencies the formatter knows a glyph for; any
// other code falls back to "CODE 12.34".
var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
}

// Format renders cents as a display string in the given currency.
func Format(cents int64, currency string) string {
	if sym, ok := symbols[currency]; ok {
		return sym + FormatDecimal(cents)
	}
	return currency + " " + FormatDecimal(cents)
}
