package kernel

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantity is an arbitrary-precision amount of a measurement unit (grams,
// milliliters, units...). Backed by shopspring/decimal rather than float64
// so that repeated batch consumption and recipe scaling never accumulate
// rounding error, the same discipline stock_service.go uses for batch
// value math.
type Quantity struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Quantity{d: decimal.Zero}

// QuantityFromString parses a decimal quantity from its canonical string
// form, e.g. "12.5".
func QuantityFromString(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("kernel: invalid quantity %q: %w", s, err)
	}
	return Quantity{d: d}, nil
}

// QuantityFromFloat builds a Quantity from a float64, such as an integer sale
// count; JSON request bodies go through QuantityFromString instead. The
// arithmetic on the result stays in decimal.
func QuantityFromFloat(f float64) Quantity {
	return Quantity{d: decimal.NewFromFloat(f)}
}

func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{d: q.d.Add(other.d)}
}

func (q Quantity) Sub(other Quantity) Quantity {
	return Quantity{d: q.d.Sub(other.d)}
}

func (q Quantity) Mul(other Quantity) Quantity {
	return Quantity{d: q.d.Mul(other.d)}
}

// Div divides q by other to 8 decimal places of precision. Callers in the
// costing path (per-unit cost = batch cost / batch quantity) round the
// final Money value, not this intermediate.
func (q Quantity) Div(other Quantity) Quantity {
	return Quantity{d: q.d.DivRound(other.d, 8)}
}

func (q Quantity) IsZero() bool { return q.d.IsZero() }

func (q Quantity) IsNegative() bool { return q.d.IsNegative() }

func (q Quantity) IsPositive() bool { return q.d.IsPositive() }

// LessThan reports whether q < other.
func (q Quantity) LessThan(other Quantity) bool { return q.d.LessThan(other.d) }

// GreaterThanOrEqual reports whether q >= other.
func (q Quantity) GreaterThanOrEqual(other Quantity) bool { return q.d.GreaterThanOrEqual(other.d) }

func (q Quantity) String() string { return q.d.String() }

// MulMoney scales a per-unit Money amount by this quantity, rounding the
// result to the nearest cent. Kept in kernel (not domain) so every costing
// computation — batch value, FIFO consumption cost, recipe line cost —
// shares the same rounding rule instead of each caller reimplementing it
// via float64 multiplication.
func (q Quantity) MulMoney(perUnit Money) Money {
	cents := decimal.NewFromInt(int64(perUnit))
	total := q.d.Mul(cents).Round(0)
	return Money(total.IntPart())
}

func (q Quantity) Float64() float64 {
	f, _ := q.d.Float64()
	return f
}

func (q Quantity) Value() (driver.Value, error) {
	return q.d.String(), nil
}

func (q *Quantity) Scan(src any) error {
	var d decimal.Decimal
	switch v := src.(type) {
	case nil:
		q.d = decimal.Zero
		return nil
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("kernel: cannot scan %q into Quantity: %w", v, err)
		}
		d = parsed
	case []byte:
		parsed, err := decimal.NewFromString(string(v))
		if err != nil {
			return fmt.Errorf("kernel: cannot scan %q into Quantity: %w", v, err)
		}
		d = parsed
	case float64:
		d = decimal.NewFromFloat(v)
	default:
		return fmt.Errorf("kernel: cannot scan %T into Quantity", src)
	}
	q.d = d
	return nil
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + q.d.String() + `"`), nil
}

func (q *Quantity) UnmarshalJSON(b []byte) error {
	parsed, err := decimal.NewFromString(string(trimQuotes(b)))
	if err != nil {
		return fmt.Errorf("kernel: invalid quantity: %w", err)
	}
	q.d = parsed
	return nil
}
