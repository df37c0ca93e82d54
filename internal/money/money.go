// Package money holds the rounding and quantity rules shared by every engine
// that turns quantities and prices into persisted amounts.
package money

import (
	"github.com/shopspring/decimal"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
)

var (
	cien   = decimal.NewFromInt(100)
	medio  = decimal.NewFromFloat(0.5)
	gramos = decimal.NewFromInt(1000)
)

// Round2 rounds half-up (toward +inf on ties) to two decimal places.
// Every persisted monetary amount goes through here after a multiply or a sum.
func Round2(x decimal.Decimal) decimal.Decimal {
	return x.Mul(cien).Add(medio).Floor().Div(cien)
}

// Factor converts a stored integer quantity into the multiplier applied to a
// per-unit price. GRAM variants are priced per kilogram.
func Factor(cantidad int, uom model.UnidadMedida) decimal.Decimal {
	q := decimal.NewFromInt(int64(cantidad))
	if uom == model.UnidadGramo {
		return q.Div(gramos)
	}
	return q
}

// Subtotal is Round2(Factor(cantidad, uom) * precio).
func Subtotal(cantidad int, uom model.UnidadMedida, precio decimal.Decimal) decimal.Decimal {
	return Round2(Factor(cantidad, uom).Mul(precio))
}
