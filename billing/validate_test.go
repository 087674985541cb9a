package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func validDraft() InvoiceDraft {
	return InvoiceDraft{
		ClientID:      7,
		InvoiceNumber: "INV-2025-001",
		InvoiceDate:   "2025-06-01",
		DueDate:       "2025-07-01",
		Items: []DraftItem{
			{Description: "Design work", Quantity: 10, Rate: 85, Amount: 850},
		},
		TaxRate:          20,
		Discount:         Discount{Type: DiscountPercentage, Value: 10},
		PaymentTermsDays: 30,
	}
}

func TestValidateInvoiceAcceptsValidDraft(t *testing.T) {
	errs := ValidateInvoice(validDraft(), testNow)
	assert.True(t, errs.Empty(), "unexpected errors: %v", errs)
}

func TestValidateInvoiceCollectsAllViolations(t *testing.T) {
	// Missing invoice number plus due date before invoice date must yield
	// exactly those two entries, nothing swallowed and nothing extra.
	d := validDraft()
	d.InvoiceNumber = "  "
	d.DueDate = "2025-05-01"

	errs := ValidateInvoice(d, testNow)
	require.Len(t, errs, 2)
	assert.Contains(t, errs, "invoice_number")
	assert.Contains(t, errs, "due_date")
}

func TestValidateInvoiceRequiredFields(t *testing.T) {
	errs := ValidateInvoice(InvoiceDraft{}, testNow)
	for _, field := range []string{"client_id", "invoice_number", "invoice_date", "due_date", "items", "discount.type"} {
		assert.Contains(t, errs, field)
	}
}

func TestValidateInvoiceDueDateEqualInvoiceDateRejected(t *testing.T) {
	d := validDraft()
	d.DueDate = d.InvoiceDate
	errs := ValidateInvoice(d, testNow)
	assert.Contains(t, errs, "due_date")
}

func TestValidateInvoiceItemBounds(t *testing.T) {
	d := validDraft()
	d.Items = []DraftItem{
		{Description: "ok", Quantity: 1, Rate: 10, Amount: 10},
		{Description: "", Quantity: 0, Rate: -5},
	}
	errs := ValidateInvoice(d, testNow)
	assert.Contains(t, errs, "items[1].description")
	assert.Contains(t, errs, "items[1].quantity")
	assert.Contains(t, errs, "items[1].rate")
	assert.NotContains(t, errs, "items[0].quantity")
}

func TestValidateInvoiceRateBounds(t *testing.T) {
	d := validDraft()
	d.TaxRate = 120
	d.Discount = Discount{Type: DiscountPercentage, Value: 101}
	errs := ValidateInvoice(d, testNow)
	assert.Contains(t, errs, "tax_rate")
	assert.Contains(t, errs, "discount.value")
}

func TestValidateInvoiceFixedDiscountNegative(t *testing.T) {
	d := validDraft()
	d.Discount = Discount{Type: DiscountFixed, Value: -1}
	errs := ValidateInvoice(d, testNow)
	assert.Contains(t, errs, "discount.value")
}

func TestValidateInvoiceUnknownDiscountType(t *testing.T) {
	d := validDraft()
	d.Discount = Discount{Type: "coupon", Value: 5}
	errs := ValidateInvoice(d, testNow)
	assert.Contains(t, errs, "discount.type")
}

func TestValidateInvoicePaymentTerms(t *testing.T) {
	d := validDraft()
	d.PaymentTermsDays = -10
	errs := ValidateInvoice(d, testNow)
	assert.Contains(t, errs, "payment_terms_days")
}

func TestValidateInvoiceRecurring(t *testing.T) {
	d := validDraft()
	d.Recurring = RecurringSpec{IsRecurring: true}
	errs := ValidateInvoice(d, testNow)
	assert.Contains(t, errs, "recurring.frequency")
	assert.Contains(t, errs, "recurring.next_date")

	d.Recurring = RecurringSpec{IsRecurring: true, Frequency: "monthly", NextDate: "2025-05-01"}
	errs = ValidateInvoice(d, testNow)
	assert.Contains(t, errs, "recurring.next_date") // not in the future

	d.Recurring = RecurringSpec{IsRecurring: true, Frequency: "monthly", NextDate: "2025-07-01", EndDate: "not-a-date"}
	errs = ValidateInvoice(d, testNow)
	assert.Contains(t, errs, "recurring.end_date")

	d.Recurring = RecurringSpec{IsRecurring: true, Frequency: "monthly", NextDate: "2025-07-01", EndDate: "2026-01-01"}
	errs = ValidateInvoice(d, testNow)
	assert.True(t, errs.Empty(), "unexpected errors: %v", errs)
}

func TestValidateInvoiceSkipsRecurringRulesWhenOff(t *testing.T) {
	d := validDraft()
	d.Recurring = RecurringSpec{IsRecurring: false, Frequency: "bogus", NextDate: "junk"}
	errs := ValidateInvoice(d, testNow)
	assert.True(t, errs.Empty(), "unexpected errors: %v", errs)
}
