package billing

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ValidateInvoice checks the structural correctness of a draft and returns a
// field-keyed map of every violation found. It never fails fast: the caller
// gets all problems in one pass. An empty map means the draft may proceed to
// reconciliation and persistence.
func ValidateInvoice(d InvoiceDraft, now time.Time) Errors {
	errs := Errors{}

	if d.ClientID == 0 {
		errs.Add("client_id", "client is required")
	}
	if strings.TrimSpace(d.InvoiceNumber) == "" {
		errs.Add("invoice_number", "invoice number is required")
	}

	invoiceDate, invOK := parseDate(d.InvoiceDate)
	if d.InvoiceDate == "" {
		errs.Add("invoice_date", "invoice date is required")
	} else if !invOK {
		errs.Add("invoice_date", "invoice date must be formatted as "+DateLayout)
	}
	dueDate, dueOK := parseDate(d.DueDate)
	if d.DueDate == "" {
		errs.Add("due_date", "due date is required")
	} else if !dueOK {
		errs.Add("due_date", "due date must be formatted as "+DateLayout)
	}
	if invOK && dueOK && !dueDate.After(invoiceDate) {
		errs.Add("due_date", "due date must be after the invoice date")
	}

	if len(d.Items) == 0 {
		errs.Add("items", "at least one line item is required")
	}
	for i, it := range d.Items {
		key := func(field string) string { return fmt.Sprintf("items[%d].%s", i, field) }
		if strings.TrimSpace(it.Description) == "" {
			errs.Add(key("description"), "description is required")
		}
		if !(it.Quantity > 0) {
			errs.Add(key("quantity"), "quantity must be greater than zero")
		}
		if it.Rate < 0 || math.IsNaN(it.Rate) {
			errs.Add(key("rate"), "rate must be zero or greater")
		}
	}

	if d.TaxRate < 0 || d.TaxRate > 100 || math.IsNaN(d.TaxRate) {
		errs.Add("tax_rate", "tax rate must be between 0 and 100")
	}

	switch d.Discount.Type {
	case DiscountPercentage:
		if d.Discount.Value < 0 || d.Discount.Value > 100 {
			errs.Add("discount.value", "percentage discount must be between 0 and 100")
		}
	case DiscountFixed:
		if d.Discount.Value < 0 {
			errs.Add("discount.value", "fixed discount must be zero or greater")
		}
	default:
		errs.Add("discount.type", "discount type must be percentage or fixed")
	}

	if d.PaymentTermsDays < 0 {
		errs.Add("payment_terms_days", "payment terms must be zero or more days")
	}

	if d.Recurring.IsRecurring {
		if !recurringFrequencies[d.Recurring.Frequency] {
			errs.Add("recurring.frequency", "frequency must be weekly, monthly, quarterly or yearly")
		}
		next, nextOK := parseDate(d.Recurring.NextDate)
		if d.Recurring.NextDate == "" {
			errs.Add("recurring.next_date", "next date is required for recurring invoices")
		} else if !nextOK {
			errs.Add("recurring.next_date", "next date must be formatted as "+DateLayout)
		} else if !next.After(now) {
			errs.Add("recurring.next_date", "next date must be in the future")
		}
		if d.Recurring.EndDate != "" {
			if _, ok := parseDate(d.Recurring.EndDate); !ok {
				errs.Add("recurring.end_date", "end date must be formatted as "+DateLayout)
			}
		}
	}

	return errs
}
