package billing

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zynvoice-backend/utils"
)

func TestComputeEmptyItems(t *testing.T) {
	got := Compute(nil, 0, Discount{Type: DiscountPercentage, Value: 0})
	assert.Equal(t, Totals{}, got)
}

func TestComputeTaxOnly(t *testing.T) {
	got := Compute([]LineItemInput{{Quantity: 2, Rate: 50}}, 10, Discount{Type: DiscountPercentage, Value: 0})
	assert.Equal(t, Totals{Subtotal: 100, DiscountAmount: 0, TaxAmount: 10, Total: 110}, got)
}

func TestComputeFixedDiscount(t *testing.T) {
	got := Compute([]LineItemInput{{Quantity: 3, Rate: 33.33}}, 0, Discount{Type: DiscountFixed, Value: 10})
	assert.Equal(t, Totals{Subtotal: 99.99, DiscountAmount: 10, TaxAmount: 0, Total: 89.99}, got)
}

func TestComputeDiscountBeforeTax(t *testing.T) {
	// Tax applies to the discounted base, never the raw subtotal.
	got := Compute([]LineItemInput{{Quantity: 1, Rate: 100}}, 20, Discount{Type: DiscountPercentage, Value: 50})
	assert.Equal(t, Totals{Subtotal: 100, DiscountAmount: 50, TaxAmount: 10, Total: 60}, got)
}

func TestComputeClampsOversizedFixedDiscount(t *testing.T) {
	// A fixed discount larger than the subtotal zeroes the taxable base
	// instead of producing a negative tax or total.
	got := Compute([]LineItemInput{{Quantity: 1, Rate: 40}}, 20, Discount{Type: DiscountFixed, Value: 100})
	assert.Equal(t, Totals{Subtotal: 40, DiscountAmount: 100, TaxAmount: 0, Total: 0}, got)
}

func TestComputeCoercesNonFiniteInputs(t *testing.T) {
	items := []LineItemInput{
		{Quantity: math.NaN(), Rate: 50},
		{Quantity: 2, Rate: math.Inf(1)},
		{Quantity: 1, Rate: 25},
	}
	got := Compute(items, math.NaN(), Discount{Type: DiscountFixed, Value: math.Inf(-1)})
	require.False(t, math.IsNaN(got.Subtotal) || math.IsNaN(got.Total))
	assert.Equal(t, Totals{Subtotal: 25, DiscountAmount: 0, TaxAmount: 0, Total: 25}, got)
}

func TestComputeIdempotent(t *testing.T) {
	items := []LineItemInput{{Quantity: 7, Rate: 19.95}, {Quantity: 0.5, Rate: 120}}
	first := Compute(items, 7.7, Discount{Type: DiscountPercentage, Value: 12.5})
	second := Compute(items, 7.7, Discount{Type: DiscountPercentage, Value: 12.5})
	assert.Equal(t, first, second)
}

func TestComputeSubtotalSumsUnroundedProducts(t *testing.T) {
	// Many rows whose display amounts round down must not compound rounding
	// error: the subtotal comes from exact products, rounded once.
	items := make([]LineItemInput, 100)
	for i := range items {
		items[i] = LineItemInput{Quantity: 1, Rate: 0.005}
	}
	got := Compute(items, 0, Discount{Type: DiscountFixed, Value: 0})
	assert.InDelta(t, 0.5, got.Subtotal, 1e-9)
}

func TestComputeAdditivityProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		n := rng.Intn(8)
		items := make([]LineItemInput, n)
		var subtotal float64
		for j := range items {
			q := rng.Float64() * 20
			r := rng.Float64() * 500
			items[j] = LineItemInput{Quantity: q, Rate: r}
			subtotal += q * r
		}
		taxRate := rng.Float64() * 100
		disc := Discount{Type: DiscountPercentage, Value: rng.Float64() * 100}
		if rng.Intn(2) == 0 {
			disc = Discount{Type: DiscountFixed, Value: rng.Float64() * subtotal}
		}

		got := Compute(items, taxRate, disc)

		discountAmount := disc.Value
		if disc.Type == DiscountPercentage {
			discountAmount = subtotal * disc.Value / 100
		}
		taxable := subtotal - discountAmount
		if taxable < 0 {
			taxable = 0
		}
		taxAmount := taxable * taxRate / 100

		require.InDelta(t, taxable+taxAmount, got.Total, 0.005+1e-9,
			"items=%v taxRate=%v discount=%+v", items, taxRate, disc)
		assert.Equal(t, utils.Round2(subtotal), got.Subtotal)
		assert.Equal(t, utils.Round2(discountAmount), got.DiscountAmount)
		assert.Equal(t, utils.Round2(taxAmount), got.TaxAmount)
		assert.Equal(t, utils.Round2(taxable+taxAmount), got.Total)
	}
}

func TestLineItemAmountRounded(t *testing.T) {
	assert.Equal(t, 99.99, LineItemInput{Quantity: 3, Rate: 33.33}.Amount())
	assert.Equal(t, 0.0, LineItemInput{Quantity: math.NaN(), Rate: 33.33}.Amount())
}
