package database

import (
	"fmt"

	"zynvoice-backend/models"

	"gorm.io/gorm"
)

// MigrateTenantSchema applies (idempotent) schema migrations for a single tenant schema.
// It pins search_path to the tenant and performs:
//   - AutoMigrate (tables/columns)
//   - Money column types (NUMERIC(12,2))
//   - Unique index on invoices.invoice_number, the source of truth for
//     invoice-number uniqueness; the handler pre-check only exists to produce
//     a friendlier error without a round trip to insert
//   - Indexes (versions, payments, line items)
//   - Basic CHECK constraints mirroring the structural validation bounds
//   - Idempotency keys table + unique index
func MigrateTenantSchema(schema string) error {
	if schema == "" {
		return fmt.Errorf("schema name is empty")
	}

	return DB.Transaction(func(tx *gorm.DB) error {
		// Pin the tenant schema for this transaction
		if err := tx.Exec(`SET search_path = "` + schema + `", public`).Error; err != nil {
			return fmt.Errorf("set search_path failed: %w", err)
		}

		// --- AutoMigrate tables/columns/index tags (non-destructive) ---
		if err := tx.AutoMigrate(
			&models.Item{},
			&models.Client{},
			&models.Invoice{},
			&models.LineItem{},
			&models.InvoiceVersion{},
			&models.Payment{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("tenant automigrate failed: %w", err)
		}

		// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE items       ALTER COLUMN rate           TYPE numeric(12,2)`,
			`ALTER TABLE invoices    ALTER COLUMN discount_value TYPE numeric(12,2)`,
			`ALTER TABLE invoices    ALTER COLUMN subtotal       TYPE numeric(12,2)`,
			`ALTER TABLE invoices    ALTER COLUMN discount_total TYPE numeric(12,2)`,
			`ALTER TABLE invoices    ALTER COLUMN tax_total      TYPE numeric(12,2)`,
			`ALTER TABLE invoices    ALTER COLUMN total          TYPE numeric(12,2)`,
			`ALTER TABLE invoices    ALTER COLUMN paid_total     TYPE numeric(12,2)`,
			`ALTER TABLE line_items  ALTER COLUMN rate           TYPE numeric(12,2)`,
			`ALTER TABLE line_items  ALTER COLUMN amount         TYPE numeric(12,2)`,
			`ALTER TABLE payments    ALTER COLUMN amount         TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_invoice_number ON invoices (invoice_number)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_invoice_versions_invoice_id_version_no ON invoice_versions (invoice_id, version_no)`,
			`CREATE INDEX IF NOT EXISTS idx_payments_invoice_paid_at ON payments (invoice_id, paid_at)`,
			`CREATE INDEX IF NOT EXISTS idx_line_items_invoice ON line_items (invoice_id)`,
			`CREATE INDEX IF NOT EXISTS idx_line_items_item ON line_items (item_id)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			// Saved catalog rate >= 0
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'items'::regclass
					  AND conname  = 'chk_items_rate_nonneg'
				) THEN
					ALTER TABLE items
					ADD CONSTRAINT chk_items_rate_nonneg
					CHECK (rate >= 0);
				END IF;
			END $$;`,
			// Payments.amount >= 0
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'payments'::regclass
					  AND conname  = 'chk_payments_amount_nonneg'
				) THEN
					ALTER TABLE payments
					ADD CONSTRAINT chk_payments_amount_nonneg
					CHECK (amount >= 0);
				END IF;
			END $$;`,
			// Line items: quantity > 0, rate >= 0
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'line_items'::regclass
					  AND conname  = 'chk_line_items_quantity_pos'
				) THEN
					ALTER TABLE line_items
					ADD CONSTRAINT chk_line_items_quantity_pos
					CHECK (quantity > 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'line_items'::regclass
					  AND conname  = 'chk_line_items_rate_nonneg'
				) THEN
					ALTER TABLE line_items
					ADD CONSTRAINT chk_line_items_rate_nonneg
					CHECK (rate >= 0);
				END IF;
			END $$;`,
			// Invoices: tax rate within [0,100]
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoices'::regclass
					  AND conname  = 'chk_invoices_tax_rate_range'
				) THEN
					ALTER TABLE invoices
					ADD CONSTRAINT chk_invoices_tax_rate_range
					CHECK (tax_rate >= 0 AND tax_rate <= 100);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
