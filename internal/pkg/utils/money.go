package utils

import (
	"github.com/shopspring/decimal"
)

// Amounts travel as integer minor units (cents) at the payment-gateway
// boundary and as decimals inside the business rules. Conversions round half
// away from zero, which is what decimal.Round does.

func EuroToCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func CentsToEuro(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

func FormatEuro(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
