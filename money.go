package budget

import (
	"encoding/json"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a signed monetary value in a single currency.
// The engine never converts currencies; an empty currency is weak and takes
// the currency of the other operand in binary operations.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func newDecimal[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	}
	panic("unreachable")
}

// M builds a Money from any numeric value and a currency code.
func M[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// currency returns the money's full currency definition.
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the display representation of the money value.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) Currency() string                { return m.cur }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) LessThanOrEqual(n Money) bool    { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Abs() Money                      { return Money{value: m.value.Abs(), cur: m.cur} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// Scale multiplies the value by num/den and rounds to 2 decimal places.
// A zero denominator yields zero.
func (m Money) Scale(num, den int) Money {
	if den == 0 {
		return Money{cur: m.cur}
	}
	scaled := m.value.Mul(decimal.NewFromInt(int64(num))).Div(decimal.NewFromInt(int64(den)))
	return Money{value: scaled.Round(2), cur: m.cur}
}

// makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + "!=" + b.cur)
	}
	return a.cur
}

// InexactFloat64 returns the nearest float64 value; for display only.
func (m Money) InexactFloat64() float64 { return m.value.InexactFloat64() }

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as "-".
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// MarshalJSON writes the canonical form: {"amount":<number>,"currency":"GBP"}.
func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("amount", m.value.Round(int32(m.currency().Fraction)))
	w.Optional("currency", m.cur)
	return w.MarshalJSON()
}

// UnmarshalJSON reads the canonical object form, the legacy object form
// ({"value":...,"currencyCode":...}), or a bare number.
func (m *Money) UnmarshalJSON(data []byte) error {
	var obj struct {
		Amount       *decimal.Decimal `json:"amount"`
		Currency     string           `json:"currency"`
		Value        *decimal.Decimal `json:"value"`        // legacy
		CurrencyCode string           `json:"currencyCode"` // legacy
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		switch {
		case obj.Amount != nil:
			*m = Money{value: *obj.Amount, cur: obj.Currency}
			return nil
		case obj.Value != nil:
			*m = Money{value: *obj.Value, cur: obj.CurrencyCode}
			return nil
		}
	}
	var bare decimal.Decimal
	if err := json.Unmarshal(data, &bare); err != nil {
		return fmt.Errorf("invalid money value %s: %w", data, err)
	}
	*m = Money{value: bare}
	return nil
}
