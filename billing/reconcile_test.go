package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileAcceptsMatchingAmounts(t *testing.T) {
	d := validDraft()
	d.Totals = &Totals{Subtotal: 850, DiscountAmount: 85, TaxAmount: 153, Total: 918}
	errs := Reconcile(d)
	assert.True(t, errs.Empty(), "unexpected errors: %v", errs)
}

func TestReconcileToleratesRoundingDrift(t *testing.T) {
	d := validDraft()
	d.Items[0].Amount = 850.01 // within the 0.01 tolerance
	errs := Reconcile(d)
	assert.True(t, errs.Empty(), "unexpected errors: %v", errs)
}

func TestReconcileRejectsTamperedItemAmount(t *testing.T) {
	d := validDraft()
	d.Items = append(d.Items, DraftItem{Description: "Hosting", Quantity: 2, Rate: 25, Amount: 49.90})
	errs := Reconcile(d)
	require.Len(t, errs, 1)
	assert.Contains(t, errs, "items[1].amount")
}

func TestReconcileRejectsTamperedTotals(t *testing.T) {
	d := validDraft()
	d.Totals = &Totals{Subtotal: 850, DiscountAmount: 85, TaxAmount: 153, Total: 900}
	errs := Reconcile(d)
	require.Len(t, errs, 1)
	assert.Contains(t, errs, "totals.total")
}

func TestReconcileSkipsTotalsWhenAbsent(t *testing.T) {
	d := validDraft()
	d.Totals = nil
	errs := Reconcile(d)
	assert.True(t, errs.Empty())
}

func TestErrorsMergeAndMessage(t *testing.T) {
	a := Errors{}
	a.Add("x", "first")
	a.Add("x", "second") // first message wins
	b := Errors{"y": "other"}
	a.Merge(b)
	assert.Equal(t, "first", a["x"])
	assert.Equal(t, "x: first; y: other", a.Error())
}
