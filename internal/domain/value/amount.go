package value

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountScale задаёт точность всех денежных сумм: 8 знаков после запятой.
const AmountScale = 8

// Amount — денежная сумма с фиксированной точкой. Любая операция заново
// усекает результат до AmountScale, чтобы хранимые значения не уплывали.
type Amount struct {
	value decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{value: d.Truncate(AmountScale)}
}

func ZeroAmount() Amount {
	return Amount{value: decimal.Zero}
}

func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("decimal.NewFromString: %w", err)
	}

	return NewAmount(d), nil
}

func AmountFromFloat(f float64) Amount {
	return NewAmount(decimal.NewFromFloat(f))
}

func (a Amount) Add(b Amount) Amount {
	return NewAmount(a.value.Add(b.value))
}

func (a Amount) Sub(b Amount) Amount {
	return NewAmount(a.value.Sub(b.value))
}

func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

func (a Amount) IsNegative() bool {
	return a.value.IsNegative()
}

func (a Amount) IsPositive() bool {
	return a.value.IsPositive()
}

func (a Amount) LessThan(b Amount) bool {
	return a.value.LessThan(b.value)
}

func (a Amount) Equal(b Amount) bool {
	return a.value.Equal(b.value)
}

func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

func (a Amount) String() string {
	return a.value.String()
}
