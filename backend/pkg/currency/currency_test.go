package currency_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/shopspring/decimal"

	"pca-portal/backend/pkg/currency"
)

func TestNormalize(t *testing.T) {
	thousand := decimal.RequireFromString("1000.00")

	tests := []struct {
		name  string
		input string
		want  decimal.Decimal
	}{
		{name: "canonical", input: "1000.00", want: thousand},
		{name: "comma decimal", input: "1000,00", want: thousand},
		{name: "brazilian grouping", input: "1.000,00", want: thousand},
		{name: "symbol and grouping", input: "R$ 1.000,00", want: thousand},
		{name: "lowercase symbol no space", input: "r$1.000,00", want: thousand},
		{name: "surrounding spaces", input: "  1000  ", want: thousand},
		{name: "negative", input: "-1.234,56", want: decimal.RequireFromString("-1234.56")},
		{name: "many groups", input: "R$ 1.234.567,89", want: decimal.RequireFromString("1234567.89")},
		{name: "lone dot is decimal", input: "1.5", want: decimal.RequireFromString("1.5")},
		{name: "sign before symbol", input: "-R$ 5", want: decimal.RequireFromString("-5")},
		{name: "sign after symbol", input: "R$ -1.000,00", want: decimal.RequireFromString("-1000")},
		{name: "explicit plus", input: "+R$ 5,50", want: decimal.RequireFromString("5.5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			got, err := currency.Normalize(tt.input)
			c.Assert(err, qt.IsNil)
			c.Assert(got.Equal(tt.want), qt.IsTrue, qt.Commentf("got %s want %s", got, tt.want))
		})
	}
}

func TestNormalize_InvalidFormat(t *testing.T) {
	for _, input := range []string{"abc", "", "R$", "12a,00", "1e3", "1,2,3.4.5x", "12R$3", "100 R$", "R$ R$ 5", "--5", "-R$ -5"} {
		t.Run(input, func(t *testing.T) {
			c := qt.New(t)

			_, err := currency.Normalize(input)
			c.Assert(err, qt.ErrorIs, currency.ErrInvalidFormat)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, input := range []string{"1000.00", "1000,00", "1.000,00", "R$ 1.000,00", "0,5", "-42"} {
		t.Run(input, func(t *testing.T) {
			c := qt.New(t)

			first, err := currency.Normalize(input)
			c.Assert(err, qt.IsNil)

			second, err := currency.Normalize(first.String())
			c.Assert(err, qt.IsNil)
			c.Assert(second.Equal(first), qt.IsTrue)
		})
	}
}

func TestFormatBRL(t *testing.T) {
	c := qt.New(t)

	c.Assert(currency.FormatBRL(decimal.RequireFromString("1234.5")), qt.Equals, "1.234,50")
	c.Assert(currency.FormatBRL(decimal.Zero), qt.Equals, "0,00")
	c.Assert(currency.FormatBRLSymbol(decimal.RequireFromString("1000")), qt.Equals, "R$ 1.000,00")
}
