// Package money holds the decimal helpers shared by the ledger, costing and
// report engines. Nothing here touches float64.
package money

import "github.com/shopspring/decimal"

// Places is the precision money is posted and compared at.
const Places = 2

// CostPlaces is the precision unit costs are kept at.
const CostPlaces = 4

// Tolerance is the smallest difference treated as non-zero in reports.
var Tolerance = decimal.New(1, -Places)

var hundred = decimal.NewFromInt(100)

// Round rounds to 2 decimal places (half away from zero).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// RoundCost rounds a unit cost to 4 decimal places.
func RoundCost(d decimal.Decimal) decimal.Decimal {
	return d.Round(CostPlaces)
}

// HasAtMostPlaces reports whether d has no more than n fractional digits.
func HasAtMostPlaces(d decimal.Decimal, n int32) bool {
	return d.Equal(d.Truncate(n))
}

// IsNegligible reports whether |d| < 0.01.
func IsNegligible(d decimal.Decimal) bool {
	return d.Abs().LessThan(Tolerance)
}

// Equal2 compares two amounts after rounding both to 2 decimal places.
func Equal2(a, b decimal.Decimal) bool {
	return Round(a).Equal(Round(b))
}

// Sum adds up amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Percent returns part/whole*100 rounded to 2 places. whole must be non-zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	return Round(part.Div(whole).Mul(hundred))
}

// Parse parses a decimal string, treating "" as zero.
func Parse(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
