// Package format renders monetary metrics the way the holdings screen shows them.
package format

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	CurrencySymbol = "₹"
	NotAvailable   = "N/A"

	_fraction = 2
	// largest magnitude whose minor units still fit in int64
	_maxAmount = 9e16 / 100
)

var _rupee = money.NewFormatter(_fraction, ".", ",", CurrencySymbol, "$ 1")

// Currency formats v with two decimals and thousands separators:
// 1234.5 -> "₹ 1,234.50", -12 -> "-₹ 12.00".
func Currency(v float64) string {
	if !finite(v) || math.Abs(v) >= _maxAmount {
		return NotAvailable
	}
	minor := decimal.NewFromFloat(v).Shift(_fraction).Round(0)
	return _rupee.Format(minor.IntPart())
}

// CurrencyWithPercentage appends the absolute share of amount in investment:
// (250, 1750) -> "₹ 250.00 (14.29%)". A zero investment yields "N/A" in
// place of the percentage.
func CurrencyWithPercentage(amount, investment float64) string {
	return fmt.Sprintf("%s (%s)", Currency(amount), Percent(amount/investment*100))
}

// Percent formats the absolute value of p with two decimals.
func Percent(p float64) string {
	if !finite(p) {
		return NotAvailable
	}
	return decimal.NewFromFloat(math.Abs(p)).StringFixed(_fraction) + "%"
}

// Quantity prints q without trailing zeros.
func Quantity(q float64) string {
	if !finite(q) {
		return NotAvailable
	}
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
