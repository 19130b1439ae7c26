// Package core holds the domain model: users, transactions, expense
// summaries, the aggregation windows and the threshold decision.
//
// Money is represented with shopspring decimals throughout. Sums and limit
// comparisons never touch binary floating point.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount converts a decimal string to a money value.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Negative values are accepted: refunds carry a negative sign and reduce
// aggregated totals.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatCurrency renders a money value for notification bodies, e.g. "₺1500.00".
func FormatCurrency(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-₺" + d.Neg().StringFixed(2)
	}
	return "₺" + d.StringFixed(2)
}
