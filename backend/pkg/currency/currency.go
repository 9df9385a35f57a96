// Package currency turns user-typed money amounts into canonical decimals
// and formats them back the Brazilian way.
package currency

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidFormat the input does not describe a number
var ErrInvalidFormat = errors.New("currency: invalid format")

const symbol = "R$"

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// Normalize parses "R$ 1.000,00", "1000,00", "1.000,00" or "1000.00" into 1000.00.
//
// When both separators appear the dot groups thousands and the comma is the
// decimal mark; a lone comma is the decimal mark; otherwise the text is
// already canonical. The symbol is only accepted as a prefix, optionally
// after the sign ("-R$ 5").
func Normalize(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.ToUpper(raw))
	sign, s := cutSign(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, symbol))
	if sign == "" {
		sign, s = cutSign(s)
	}
	if strings.Contains(s, symbol) {
		return decimal.Zero, ErrInvalidFormat
	}

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	if s == "" || strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidFormat
	}

	d, err := decimal.NewFromString(sign + s)
	if err != nil {
		return decimal.Zero, ErrInvalidFormat
	}
	return d, nil
}

// cutSign splits a leading sign off s; "+" is dropped
func cutSign(s string) (string, string) {
	switch {
	case strings.HasPrefix(s, "-"):
		return "-", strings.TrimSpace(s[1:])
	case strings.HasPrefix(s, "+"):
		return "", strings.TrimSpace(s[1:])
	}
	return "", s
}

// FormatBRL renders 1234.5 as "1.234,50" (no symbol)
func FormatBRL(d decimal.Decimal) string {
	return brPrinter.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// FormatBRLSymbol renders 1234.5 as "R$ 1.234,50"
func FormatBRLSymbol(d decimal.Decimal) string {
	return symbol + " " + FormatBRL(d)
}
