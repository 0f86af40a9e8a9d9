package market

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Cash is an amount of INR held in paise. Ledger arithmetic stays in
// integers so that limit comparisons are exact.
type Cash int64

const paisePerRupee = 100

// Rupees converts whole rupees to Cash.
func Rupees(r int64) Cash {
	return Cash(r * paisePerRupee)
}

// FromDecimal rounds d (in rupees) to the nearest paisa.
func FromDecimal(d decimal.Decimal) Cash {
	return Cash(d.Shift(2).Round(0).IntPart())
}

// RupeesFloat converts a rupee amount from configuration to Cash.
func RupeesFloat(r float64) Cash {
	return FromDecimal(decimal.NewFromFloat(r))
}

// ParseCash parses a rupee amount such as "100000" or "2500.50".
func ParseCash(s string) (Cash, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimPrefix(s, "₹")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse cash %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

func (c Cash) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

func (c Cash) Float64() float64 {
	return c.Decimal().InexactFloat64()
}

func (c Cash) String() string {
	return c.Decimal().StringFixed(2)
}

// Percent returns pct percent of c, rounded to the nearest paisa.
func (c Cash) Percent(pct float64) Cash {
	return FromDecimal(c.Decimal().Mul(decimal.NewFromFloat(pct)).Div(decimal.NewFromInt(100)))
}

func (c Cash) Abs() Cash {
	if c < 0 {
		return -c
	}
	return c
}

// FormatINR renders c as whole rupees with Indian digit grouping,
// e.g. ₹1,00,000 or -₹4,500.
func FormatINR(c Cash) string {
	whole := c.Abs().Decimal().Round(0).IntPart()
	sign := ""
	if c < 0 && whole > 0 {
		sign = "-"
	}
	return sign + "₹" + groupIndian(fmt.Sprintf("%d", whole))
}

// groupIndian inserts separators after the last three digits and then
// every two digits.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

// Lakhs renders c as a count of lakhs (1L = 1,00,000), trimming zeros:
// 100000 -> "1", 250000 -> "2.5".
func Lakhs(c Cash) string {
	return c.Decimal().Div(decimal.NewFromInt(100000)).String()
}
