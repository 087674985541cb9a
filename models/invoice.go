package models

import (
	"time"

	"gorm.io/datatypes"
)

// Invoice is the current/live state of an invoice. The four totals columns
// are a snapshot of the server-side computation at the last write; they are
// never taken from client input.
type Invoice struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	InvoiceNumber string `json:"invoice_number" gorm:"uniqueIndex"`
	ClientID      uint   `json:"client_id"`
	Client        Client `json:"client" gorm:"foreignKey:ClientID;references:Id"`

	InvoiceDate time.Time `json:"invoice_date"`
	DueDate     time.Time `json:"due_date"`

	// Live items (latest state)
	Items []LineItem `json:"items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	// Rate/discount parameters the totals were derived from
	TaxRate       float64 `json:"tax_rate"`
	DiscountType  string  `json:"discount_type" gorm:"type:VARCHAR(20)"`
	DiscountValue float64 `json:"discount_value" gorm:"type:numeric(12,2)"`

	// Totals snapshot
	Subtotal      float64 `json:"subtotal" gorm:"type:numeric(12,2)"`
	DiscountTotal float64 `json:"discount_total" gorm:"type:numeric(12,2)"`
	TaxTotal      float64 `json:"tax_total" gorm:"type:numeric(12,2)"`
	Total         float64 `json:"total" gorm:"type:numeric(12,2)"`

	PaymentTermsDays int    `json:"payment_terms_days"`
	Notes            string `json:"notes"`

	// Recurring schedule
	IsRecurring        bool       `json:"is_recurring"`
	RecurringFrequency string     `json:"recurring_frequency" gorm:"type:VARCHAR(20)"`
	RecurringNextDate  *time.Time `json:"recurring_next_date"`
	RecurringEndDate   *time.Time `json:"recurring_end_date"`

	// State
	Draft       bool       `json:"draft"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at"`

	// Payments rollup
	PaidTotal float64 `json:"paid_total" gorm:"type:numeric(12,2)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LineItem is one billable row. Amount is the rounded display value of
// quantity * rate, recomputed server-side on every write.
type LineItem struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	InvoiceID   uint    `json:"-" gorm:"index"`
	ItemID      *string `json:"item_id" gorm:"index"` // optional link to the saved item catalog
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate" gorm:"type:numeric(12,2)"`
	Amount      float64 `json:"amount" gorm:"type:numeric(12,2)"`
}

// InvoiceVersion is an immutable snapshot taken when an invoice is published.
type InvoiceVersion struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	InvoiceID uint           `json:"invoice_id" gorm:"index:idx_invoice_versions_invoice_id_version_no,unique,priority:1"`
	VersionNo int            `json:"version_no" gorm:"not null;index:idx_invoice_versions_invoice_id_version_no,unique,priority:2"`
	Snapshot  datatypes.JSON `json:"snapshot" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
}

// Payment is money received against an invoice.
type Payment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	InvoiceID uint      `json:"invoice_id" gorm:"index:idx_payments_invoice_paid_at,priority:1"`
	Amount    float64   `json:"amount" gorm:"type:numeric(12,2)"`
	Method    string    `json:"method"`
	Reference string    `json:"reference"`
	Note      string    `json:"note"`
	PaidAt    time.Time `json:"paid_at" gorm:"index:idx_payments_invoice_paid_at,priority:2"`
	CreatedAt time.Time `json:"created_at"`
}
