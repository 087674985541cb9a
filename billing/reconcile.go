package billing

import (
	"fmt"
	"math"
)

// ReconcileTolerance is the largest absolute difference allowed between a
// client-submitted figure and the server-side recomputation.
const ReconcileTolerance = 0.01

// Reconcile recomputes line amounts and totals for a draft and compares them
// against the client-submitted figures. A mismatch beyond the tolerance means
// the client is stale or the payload was tampered with; it is rejected, never
// silently corrected. Persisted figures always come from the server-side
// recomputation.
func Reconcile(d InvoiceDraft) Errors {
	errs := Errors{}

	for i, it := range d.Items {
		expected := LineItemInput{Quantity: it.Quantity, Rate: it.Rate}.Amount()
		if math.Abs(it.Amount-expected) > ReconcileTolerance {
			errs.Addf(fmt.Sprintf("items[%d].amount", i),
				"amount %.2f does not match quantity * rate (%.2f)", it.Amount, expected)
		}
	}

	if d.Totals != nil {
		computed := Compute(d.LineItems(), d.TaxRate, d.Discount)
		compare := func(field string, submitted, expected float64) {
			if math.Abs(submitted-expected) > ReconcileTolerance {
				errs.Addf("totals."+field, "submitted %s %.2f does not match recomputed %.2f",
					field, submitted, expected)
			}
		}
		compare("subtotal", d.Totals.Subtotal, computed.Subtotal)
		compare("discount_amount", d.Totals.DiscountAmount, computed.DiscountAmount)
		compare("tax_amount", d.Totals.TaxAmount, computed.TaxAmount)
		compare("total", d.Totals.Total, computed.Total)
	}

	return errs
}
