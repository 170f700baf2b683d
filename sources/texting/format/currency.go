package format

import (
	"github.com/shopspring/decimal"
)

// Currencify renders an amount rounded to cents followed by its currency code.
func Currencify(value decimal.Decimal, code string) string {
	return en.Sprintf("%s %s", Decimalify(value), code)
}
