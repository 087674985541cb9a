package billing

import "time"

// DateLayout is the wire format for invoice dates.
const DateLayout = "2006-01-02"

// Recurring frequencies accepted on a draft.
var recurringFrequencies = map[string]bool{
	"weekly":    true,
	"monthly":   true,
	"quarterly": true,
	"yearly":    true,
}

// RecurringSpec describes the repeat schedule of a recurring invoice.
type RecurringSpec struct {
	IsRecurring bool   `json:"is_recurring"`
	Frequency   string `json:"frequency"`
	NextDate    string `json:"next_date"`
	EndDate     string `json:"end_date"`
}

// DraftItem is a line item as submitted by the client. Amount is what the
// client's form displayed; it is reconciled against the server-side
// recomputation and never trusted for persistence.
type DraftItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

// InvoiceDraft is the strongly-typed invoice payload at the system boundary.
// Anything that does not parse into this shape is rejected before it reaches
// business logic.
type InvoiceDraft struct {
	ClientID         uint          `json:"client_id"`
	InvoiceNumber    string        `json:"invoice_number"`
	InvoiceDate      string        `json:"invoice_date"`
	DueDate          string        `json:"due_date"`
	Items            []DraftItem   `json:"items"`
	TaxRate          float64       `json:"tax_rate"`
	Discount         Discount      `json:"discount"`
	PaymentTermsDays int           `json:"payment_terms_days"`
	Recurring        RecurringSpec `json:"recurring"`
	Notes            string        `json:"notes"`
	Draft            bool          `json:"draft"`

	// Client-computed totals, present so the server can detect stale or
	// tampered figures. Persisted totals always come from Compute.
	Totals *Totals `json:"totals,omitempty"`
}

// LineItems converts the submitted rows into calculator inputs.
func (d InvoiceDraft) LineItems() []LineItemInput {
	items := make([]LineItemInput, len(d.Items))
	for i, it := range d.Items {
		items[i] = LineItemInput{Description: it.Description, Quantity: it.Quantity, Rate: it.Rate}
	}
	return items
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	return t, err == nil
}
