package accounting

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxAmountLength bounds operator input. Amounts and rates never need more.
const maxAmountLength = 32

// ParseAmount parses operator input leniently. Both "." and "," are accepted
// as decimal separator and blanks are ignored. When both separators occur,
// the one written last is the decimal separator and the other groups
// thousands ("1.234,56" and "1,234.56" are both 1234.56). Only digits,
// separators and a leading sign are allowed, so exponent notation is
// rejected. Unparseable, oversized or empty text yields zero with ok=false.
func ParseAmount(raw string) (d decimal.Decimal, ok bool) {
	s := strings.Join(strings.Fields(raw), "")
	if s == "" || len(s) > maxAmountLength {
		return decimal.Zero, false
	}
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
		case (r == '-' || r == '+') && i == 0:
		default:
			return decimal.Zero, false
		}
	}

	s = strings.TrimPrefix(s, "+")
	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s[:comma], ".", "") + "." + s[comma+1:]
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// DeriveBaseAmount computes round(currencyAmount * exchangeRate, 2) and
// renders it with two decimals.
func DeriveBaseAmount(currencyAmount, exchangeRate string) string {
	ca, _ := ParseAmount(currencyAmount)
	rate, _ := ParseAmount(exchangeRate)
	return ca.Mul(rate).Round(2).StringFixed(2)
}
