package value_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"tg_escrow/internal/domain/value"
)

func TestAmountTruncation(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "fits into scale",
			input:    "12.5",
			expected: "12.5",
		},
		{
			name:     "ninth digit is dropped, not rounded",
			input:    "0.123456789",
			expected: "0.12345678",
		},
		{
			name:     "ninth digit above half is still dropped",
			input:    "0.999999999",
			expected: "0.99999999",
		},
		{
			name:     "negative values truncate towards zero",
			input:    "-0.123456789",
			expected: "-0.12345678",
		},
		{
			name:     "integer stays intact",
			input:    "100",
			expected: "100",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			a, err := value.ParseAmount(tc.input)
			rq.NoError(err)
			rq.Equal(tc.expected, a.String())
		})
	}
}

func TestAmountArithmeticKeepsScale(t *testing.T) {
	rq := require.New(t)

	a := value.NewAmount(decimal.RequireFromString("0.00000001"))
	b := value.NewAmount(decimal.RequireFromString("0.000000005"))

	// b усечён до нуля, сумма не выходит за 8 знаков.
	rq.True(b.IsZero())
	rq.Equal("0.00000001", a.Add(b).String())
	rq.Equal("0", a.Sub(a).String())
	rq.True(a.Sub(a).IsZero())
}

func TestAmountComparisons(t *testing.T) {
	rq := require.New(t)

	small := value.AmountFromFloat(1.5)
	big := value.AmountFromFloat(2)

	rq.True(small.LessThan(big))
	rq.False(big.LessThan(small))
	rq.True(small.Equal(value.AmountFromFloat(1.5)))
	rq.True(big.IsPositive())
	rq.False(big.IsNegative())
	rq.True(value.ZeroAmount().Sub(big).IsNegative())
}

func TestParseAmountRejectsGarbage(t *testing.T) {
	rq := require.New(t)

	_, err := value.ParseAmount("not-a-number")
	rq.Error(err)

	_, err = value.ParseAmount("")
	rq.Error(err)
}
