// Package pricing computes derived retail prices from supplier cost and
// markup. Retail prices are quantized upward to the nearest $0.25 so the
// register never deals in odd cents.
package pricing

import "github.com/shopspring/decimal"

const (
	// DefaultMarkup is applied when a product row carries no markup.
	DefaultMarkup = 0.25
	// DefaultTaxRate is the sales tax applied on top of the pre-tax price.
	DefaultTaxRate = 0.055
)

var four = decimal.NewFromInt(4)

// RoundUpToQuarter rounds v up to the nearest multiple of 0.25. Ceiling
// semantics are a business rule, not a convenience: prices never round down.
func RoundUpToQuarter(v float64) float64 {
	return toFloat(quarterCeil(decimal.NewFromFloat(v)))
}

// PreTax derives the pre-tax retail price from cost and markup fraction.
// Negative or zero cost is passed through the same arithmetic; validation
// belongs to the caller.
func PreTax(cost, markup float64) float64 {
	c := decimal.NewFromFloat(cost)
	m := decimal.NewFromInt(1).Add(decimal.NewFromFloat(markup))
	return toFloat(quarterCeil(c.Mul(m)))
}

// WithTax applies the tax rate to a pre-tax price and re-quantizes.
func WithTax(preTax, taxRate float64) float64 {
	p := decimal.NewFromFloat(preTax)
	r := decimal.NewFromInt(1).Add(decimal.NewFromFloat(taxRate))
	return toFloat(quarterCeil(p.Mul(r)))
}

func quarterCeil(d decimal.Decimal) decimal.Decimal {
	return d.Mul(four).Ceil().Div(four)
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
