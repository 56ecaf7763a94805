package util

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	decimalValue  = 100
	thousandValue = 1000
)

// FormatMoney renders value rounded to cents, e.g. 12345.67 with "," and "."
// becomes "12,345.67".
func FormatMoney(value decimal.Decimal, thousand, decimalSep string) string {
	cents := value.Mul(decimal.NewFromInt(decimalValue)).Round(0).IntPart()

	var result string
	var isNegative bool

	if cents < 0 {
		cents *= -1
		isNegative = true
	}

	// apply the decimal separator
	result = fmt.Sprintf("%s%02d%s", decimalSep, cents%decimalValue, result)
	cents /= decimalValue

	// for each 3 digits put the thousand separator
	for cents >= thousandValue {
		result = fmt.Sprintf("%s%03d%s", thousand, cents%thousandValue, result)
		cents /= thousandValue
	}

	if isNegative {
		return fmt.Sprintf("-%d%s", cents, result)
	}

	return fmt.Sprintf("%d%s", cents, result)
}

// Dollars is the display format used across views, e.g. "$1,234.50".
func Dollars(value decimal.Decimal) string {
	if value.IsNegative() {
		return "-$" + FormatMoney(value.Neg(), ",", ".")
	}
	return "$" + FormatMoney(value, ",", ".")
}
