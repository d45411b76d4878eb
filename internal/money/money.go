// Package money provides a fixed-point monetary value type.
//
// All amounts are stored as an integer count of minor currency units
// (cents), so arithmetic is exact — no floating point is involved
// anywhere in balance calculations.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned when an amount is non-positive where a
// positive amount is required, fails to parse, or an operation would
// overflow the representable range.
var ErrInvalidAmount = errors.New("invalid amount")

// Money is a signed amount in minor currency units (e.g. cents).
// The zero value is a zero amount.
type Money int64

// FromUnits creates a Money value from a count of minor units.
func FromUnits(units int64) Money { return Money(units) }

// Units returns the amount as a count of minor units.
func (m Money) Units() int64 { return int64(m) }

// Parse converts a decimal string like "100.00", "0.5" or "-53.00" into
// a Money value. At most two fractional digits are accepted.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: %q has more than two decimal places", ErrInvalidAmount, s)
	}
	// Pad "5" -> "50" so "0.5" means 50 cents.
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}

	// Only digits may remain: ParseInt accepts its own leading sign, so
	// without this check "--5" would parse as +5.
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}

	units, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if neg {
		units = -units
	}
	return Money(units), nil
}

// String formats the amount as a decimal string with two fractional
// digits, e.g. 4600 -> "46.00", -5300 -> "-53.00".
func (m Money) String() string {
	units := int64(m)
	sign := ""
	if units < 0 {
		sign = "-"
		units = -units
	}
	return fmt.Sprintf("%s%d.%02d", sign, units/100, units%100)
}

// Add returns m + n, failing if the sum overflows.
func (m Money) Add(n Money) (Money, error) {
	sum := int64(m) + int64(n)
	if (n > 0 && sum < int64(m)) || (n < 0 && sum > int64(m)) {
		return 0, fmt.Errorf("%w: %s + %s overflows", ErrInvalidAmount, m, n)
	}
	return Money(sum), nil
}

// Sub returns m - n, failing if the difference overflows.
func (m Money) Sub(n Money) (Money, error) {
	if n == Money(math.MinInt64) {
		return 0, fmt.Errorf("%w: %s - %s overflows", ErrInvalidAmount, m, n)
	}
	return m.Add(-n)
}

// Neg returns -m.
func (m Money) Neg() Money { return -m }

// Abs returns the absolute value of m.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m == 0 }

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool { return m > 0 }

// IsNegative reports whether the amount is less than zero.
func (m Money) IsNegative() bool { return m < 0 }

// Split divides m into n equal portions using integer division.
// It returns the base portion and the remainder — the number of minor
// units left over that cannot be divided evenly. The caller decides
// which portions absorb the extra units; base*n + remainder == m.
func (m Money) Split(n int) (base Money, remainder int64, err error) {
	if n <= 0 {
		return 0, 0, fmt.Errorf("%w: cannot split into %d portions", ErrInvalidAmount, n)
	}
	if !m.IsPositive() {
		return 0, 0, fmt.Errorf("%w: %s is not positive", ErrInvalidAmount, m)
	}
	return m / Money(n), int64(m) % int64(n), nil
}
