// Package schema defines the wire types exchanged with the Kalshi API.
package schema

import (
	"github.com/shopspring/decimal"
)

// Cents represents a monetary amount in integer cents, the unit Kalshi uses
// for every price and balance field on the wire.
type Cents int64

var centsPerDollar = decimal.NewFromInt(100)

// Decimal returns the amount as a dollar-denominated decimal.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Div(centsPerDollar)
}

// Dollars returns the amount as a float dollar value. Use Decimal for exact
// arithmetic.
func (c Cents) Dollars() float64 {
	f, _ := c.Decimal().Float64()
	return f
}

func (c Cents) String() string {
	return "$" + c.Decimal().StringFixed(2)
}
