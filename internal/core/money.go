// Package core holds the domain model shared by every layer: entities,
// enumerations, calendar dates and integer-cent money handling.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Both dot (12.34) and comma (12,34)
// decimal separators are accepted. Negative and zero amounts are rejected;
// transaction sign is carried by the semantic type, never by the amount.
func ParseDecimalToCents(s string) (int64, error) {
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
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
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

// Euros returns the euro value as a float64 for display purposes only.
// Calculations always use cents.
func (m Money) Euros() float64 {
	return float64(m.Cents) / 100.0
}

// Sub returns m minus other. Results may be negative.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// Add returns m plus other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// FormatAmount renders cents with a comma decimal separator, two fixed
// decimals and no thousands grouping, e.g. -6285 -> "-62,85€". This is the
// format used for transaction lines in the financial context document.
func FormatAmount(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "," + twoDigits(cents%100)
	if neg {
		s = "-" + s
	}
	return s + "€"
}

// FormatEuros renders cents in the locale style used by the summary
// sections: dot thousands separator, comma decimal separator,
// e.g. 123456789 -> "1.234.567,89€".
func FormatEuros(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	euros := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	lead := len(euros) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(euros[:lead])
	for i := lead; i < len(euros); i += 3 {
		b.WriteByte('.')
		b.WriteString(euros[i : i+3])
	}
	s := b.String() + "," + twoDigits(cents%100)
	if neg {
		s = "-" + s
	}
	return s + "€"
}

// FormatRate renders an annual percentage with a comma decimal separator
// and two decimals, e.g. 2.1 -> "2,10%".
func FormatRate(rate float64) string {
	s := strconv.FormatFloat(rate, 'f', 2, 64)
	return strings.Replace(s, ".", ",", 1) + "%"
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
