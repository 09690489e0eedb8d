// Package money holds the decimal conventions shared by every amount in
// groupledger: cent rounding, the 0.01 settlement tolerance and even splitting.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidParts is returned when an amount is split into fewer than one part.
var ErrInvalidParts = errors.New("parts must be at least 1")

// Cents is the number of decimal places of the minor currency unit.
const Cents = 2

var (
	// Tolerance is the reconciliation tolerance for sums and the settled threshold.
	Tolerance = decimal.New(1, -Cents)

	// Hundred is the total every PERCENTAGE split must reconcile to.
	Hundred = decimal.NewFromInt(100)
)

// RoundCents rounds d to the minor currency unit, half away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(Cents)
}

// WithinTolerance reports whether |a - b| <= Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// IsSettled reports whether a balance counts as zero (|d| < Tolerance).
func IsSettled(d decimal.Decimal) bool {
	return d.Abs().LessThan(Tolerance)
}

// Sum adds all values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// SplitEvenly divides total into n parts truncated to cents. The leftover cents
// are handed out one at a time starting from the last part, so the parts differ
// by at most one cent, are never negative for a positive total, and always add
// up to total exactly. Any sub-cent residue lands on the last part.
//
// Example:
//
//	parts, _ := money.SplitEvenly(decimal.NewFromInt(100), 3)
//	// 33.33, 33.33, 33.34
func SplitEvenly(total decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n < 1 {
		return nil, ErrInvalidParts
	}

	count := decimal.NewFromInt(int64(n))
	base := total.Div(count).Truncate(Cents)
	parts := make([]decimal.Decimal, n)
	for i := range parts {
		parts[i] = base
	}

	leftover := total.Sub(base.Mul(count))
	for i := n - 1; i >= 0 && leftover.GreaterThanOrEqual(Tolerance); i-- {
		parts[i] = parts[i].Add(Tolerance)
		leftover = leftover.Sub(Tolerance)
	}
	parts[n-1] = parts[n-1].Add(leftover)

	return parts, nil
}
