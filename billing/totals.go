package billing

import (
	"math"

	"zynvoice-backend/utils"
)

// Discount kinds accepted on an invoice.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Discount reduces the subtotal either by a flat amount or by a percentage
// of the subtotal. The calculator does not clamp Value; callers validate it.
type Discount struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// LineItemInput is one billable row as fed into the calculator.
type LineItemInput struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
}

// Amount is the display amount of the line, rounded to 2 decimals. Display
// amounts never feed back into the subtotal sum.
func (li LineItemInput) Amount() float64 {
	return utils.Round2(finite(li.Quantity) * finite(li.Rate))
}

// Totals holds the four derived monetary figures shown on every invoice view,
// each rounded to 2 decimals. A Totals value is a snapshot: any input change
// produces a new value, never a mutation.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	Total          float64 `json:"total"`
}

// Compute derives invoice totals from line items, a tax rate (percent) and a
// discount: discount applies to the subtotal, tax applies to what remains.
// It is the single implementation of that pipeline; the preview endpoint, the
// persistence handlers and the tamper check all call it so rounding can never
// drift between views.
//
// The subtotal accumulates exact quantity*rate products; rounding is applied
// once, independently, to each of the four output fields. The taxable base is
// clamped at zero so a discount larger than the subtotal yields zero tax and
// a zero total rather than a negative credit. Non-finite inputs are coerced
// to zero, so the result is always well-formed and never NaN.
func Compute(items []LineItemInput, taxRate float64, discount Discount) Totals {
	var subtotal float64
	for _, li := range items {
		subtotal += finite(li.Quantity) * finite(li.Rate)
	}

	var discountAmount float64
	if discount.Type == DiscountPercentage {
		discountAmount = subtotal * finite(discount.Value) / 100
	} else {
		discountAmount = finite(discount.Value)
	}

	taxable := subtotal - discountAmount
	if taxable < 0 {
		taxable = 0
	}
	taxAmount := taxable * finite(taxRate) / 100
	total := taxable + taxAmount

	return Totals{
		Subtotal:       utils.Round2(subtotal),
		DiscountAmount: utils.Round2(discountAmount),
		TaxAmount:      utils.Round2(taxAmount),
		Total:          utils.Round2(total),
	}
}

// finite maps NaN and ±Inf to 0 so bad numeric input can never propagate
// into the output.
func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
