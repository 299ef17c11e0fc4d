// Package core holds the wallet domain: records, money parsing, sign
// normalization and transaction filtering. It has no storage or transport
// dependencies so the balance and reassignment rules stay unit-testable.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-supplied amount string to a decimal rounded
// half-up to two places. Both dot and comma decimal separators are accepted.
// The result is strictly positive; sign is decided by the category type or
// the transfer operation, never by the submitted string.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders a decimal with exactly two places for display and
// export rows.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
