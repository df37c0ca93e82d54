package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRound2(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"30.99", "30.99"},
		{"1.005", "1.01"},
		{"2.344", "2.34"},
		{"2.345", "2.35"},
		{"-1.005", "-1"},
		{"0", "0"},
	}
	for _, c := range cases {
		assert.True(t, Round2(dec(c.in)).Equal(dec(c.want)), "Round2(%s)", c.in)
	}
}

func TestRound2_SumaDeLineas(t *testing.T) {
	total := dec("10.33").Mul(decimal.NewFromInt(3))
	assert.Equal(t, "30.99", Round2(total).StringFixed(2))
}

func TestFactor(t *testing.T) {
	assert.True(t, Factor(3, model.UnidadUnidad).Equal(decimal.NewFromInt(3)))
	assert.True(t, Factor(250, model.UnidadGramo).Equal(dec("0.25")))
	assert.True(t, Factor(0, model.UnidadGramo).IsZero())
}

func TestSubtotal_Gramos(t *testing.T) {
	got := Subtotal(250, model.UnidadGramo, dec("10000"))
	assert.Equal(t, "2500.00", got.StringFixed(2))
}

func TestSubtotal_Unidades(t *testing.T) {
	got := Subtotal(3, model.UnidadUnidad, dec("10.33"))
	assert.Equal(t, "30.99", got.StringFixed(2))
}
