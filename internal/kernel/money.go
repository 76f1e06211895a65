package kernel

import (
	"database/sql/driver"
	"fmt"
	"strconv"
)

// Money is an amount of money in integer minor units (cents). Every cost,
// price, and profit figure in this module passes through Money so that
// floating-point rounding never leaks into a costing or sale calculation.
type Money int64

// MoneyFromCents builds a Money from a count of minor units.
func MoneyFromCents(cents int64) Money { return Money(cents) }

// Cents returns the amount as a count of minor units.
func (m Money) Cents() int64 { return int64(m) }

// Add returns m + other. Overflow is not checked (costing totals in this
// domain never approach the int64 range).
func (m Money) Add(other Money) Money { return m + other }

// Sub returns m - other.
func (m Money) Sub(other Money) Money { return m - other }

// Mul scales m by a non-negative integer factor (e.g. quantity sold).
func (m Money) Mul(factor int64) Money { return m * Money(factor) }

// DivRound divides m by a positive divisor (e.g. recipe servings), rounding
// half away from zero rather than truncating, so cost-per-serving never
// silently loses a fraction of a cent to integer division.
func (m Money) DivRound(divisor int) Money {
	if divisor <= 0 {
		return 0
	}
	num := int64(m)
	d := int64(divisor)
	neg := num < 0
	if neg {
		num = -num
	}
	result := (num + d/2) / d
	if neg {
		result = -result
	}
	return Money(result)
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m < 0 }

// String renders the amount as a decimal string with two fraction digits,
// e.g. "1234" -> "12.34". Display-only; never parsed back for arithmetic.
func (m Money) String() string {
	neg := m < 0
	v := int64(m)
	if neg {
		v = -v
	}
	whole := v / 100
	frac := v % 100
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s%d.%02d", sign, whole, frac)
}

func (m Money) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = 0
		return nil
	case int64:
		*m = Money(v)
		return nil
	case int32:
		*m = Money(v)
		return nil
	default:
		return fmt.Errorf("kernel: cannot scan %T into Money", src)
	}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(m), 10)), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("kernel: invalid money value: %w", err)
	}
	*m = Money(v)
	return nil
}
