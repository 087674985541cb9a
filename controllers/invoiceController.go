package controllers

import (
	"encoding/json"
	"time"

	"zynvoice-backend/billing"
	"zynvoice-backend/database"
	"zynvoice-backend/models"
	"zynvoice-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// checkDraft runs structural validation and tamper reconciliation on an
// invoice payload. Non-empty result means 422 via the error handler.
func checkDraft(draft billing.InvoiceDraft) billing.Errors {
	errs := billing.ValidateInvoice(draft, time.Now())
	errs.Merge(billing.Reconcile(draft))
	return errs
}

// invoiceFromDraft materializes a validated draft. The totals snapshot and
// every line amount come from the billing calculator, never from the client.
func invoiceFromDraft(draft billing.InvoiceDraft) models.Invoice {
	totals := billing.Compute(draft.LineItems(), draft.TaxRate, draft.Discount)

	items := make([]models.LineItem, len(draft.Items))
	for i, it := range draft.Items {
		items[i] = models.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        utils.Round2(it.Rate),
			Amount:      billing.LineItemInput{Quantity: it.Quantity, Rate: it.Rate}.Amount(),
		}
	}

	// Dates parsed already by validation; errors cannot occur here.
	invoiceDate, _ := time.Parse(billing.DateLayout, draft.InvoiceDate)
	dueDate, _ := time.Parse(billing.DateLayout, draft.DueDate)

	inv := models.Invoice{
		InvoiceNumber:    draft.InvoiceNumber,
		ClientID:         draft.ClientID,
		InvoiceDate:      invoiceDate,
		DueDate:          dueDate,
		Items:            items,
		TaxRate:          draft.TaxRate,
		DiscountType:     draft.Discount.Type,
		DiscountValue:    utils.Round2(draft.Discount.Value),
		Subtotal:         totals.Subtotal,
		DiscountTotal:    totals.DiscountAmount,
		TaxTotal:         totals.TaxAmount,
		Total:            totals.Total,
		PaymentTermsDays: draft.PaymentTermsDays,
		Notes:            draft.Notes,
		IsRecurring:      draft.Recurring.IsRecurring,
		Draft:            draft.Draft,
	}
	if draft.Recurring.IsRecurring {
		inv.RecurringFrequency = draft.Recurring.Frequency
		if next, err := time.Parse(billing.DateLayout, draft.Recurring.NextDate); err == nil {
			inv.RecurringNextDate = &next
		}
		if draft.Recurring.EndDate != "" {
			if end, err := time.Parse(billing.DateLayout, draft.Recurring.EndDate); err == nil {
				inv.RecurringEndDate = &end
			}
		}
	}
	return inv
}

func CreateInvoice(c *fiber.Ctx) error {
	var draft billing.InvoiceDraft
	if err := c.BodyParser(&draft); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := checkDraft(draft); !errs.Empty() {
		return errs
	}

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "tenant database unavailable")
	}

	// Friendly pre-check. The unique index on invoice_number is the source
	// of truth; a concurrent submission that slips past this still surfaces
	// as 409 when the insert hits the index.
	var count int64
	if err := tenantDB.Model(&models.Invoice{}).
		Where("invoice_number = ?", draft.InvoiceNumber).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusConflict, "invoice number already exists")
	}

	invoice := invoiceFromDraft(draft)
	if err := tenantDB.Create(&invoice).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(invoice)
}

func UpdateInvoice(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}

	var draft billing.InvoiceDraft
	if err := c.BodyParser(&draft); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := checkDraft(draft); !errs.Empty() {
		return errs
	}

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "tenant database unavailable")
	}

	var existing models.Invoice
	if err := tenantDB.First(&existing, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "invoice not found")
	}
	if existing.Published {
		return fiber.NewError(fiber.StatusConflict, "published invoices are immutable; create a new version instead")
	}

	fresh := invoiceFromDraft(draft)
	fresh.ID = existing.ID
	fresh.CreatedAt = existing.CreatedAt
	fresh.PaidTotal = existing.PaidTotal

	// Replace line items wholesale; partial item patches invite drift
	// between items and the stored totals snapshot.
	if err := tenantDB.Where("invoice_id = ?", existing.ID).Delete(&models.LineItem{}).Error; err != nil {
		return err
	}
	if err := tenantDB.Session(&gorm.Session{FullSaveAssociations: true}).Save(&fresh).Error; err != nil {
		return err
	}

	return c.JSON(fresh)
}

// PreviewInvoice computes live totals for the invoice form without touching
// persistence. It is the same calculator the create/update path uses, so the
// preview can never disagree with what gets stored.
func PreviewInvoice(c *fiber.Ctx) error {
	var draft billing.InvoiceDraft
	if err := c.BodyParser(&draft); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	totals := billing.Compute(draft.LineItems(), draft.TaxRate, draft.Discount)
	amounts := make([]float64, len(draft.Items))
	for i, it := range draft.Items {
		amounts[i] = billing.LineItemInput{Quantity: it.Quantity, Rate: it.Rate}.Amount()
	}

	return c.JSON(fiber.Map{
		"totals":       totals,
		"item_amounts": amounts,
	})
}

func GetInvoices(c *fiber.Ctx) error {
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "tenant database unavailable")
	}

	page := utils.ParseIntDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	limit := utils.ParseIntDefault(c.Query("limit"), 25)
	if limit < 1 || limit > 100 {
		limit = 25
	}

	var total int64
	if err := tenantDB.Model(&models.Invoice{}).Count(&total).Error; err != nil {
		return err
	}

	var invoices []models.Invoice
	if err := tenantDB.Preload("Client").Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&invoices).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"invoices": invoices,
		"page":     page,
		"limit":    limit,
		"total":    total,
	})
}

func GetInvoice(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "tenant database unavailable")
	}

	var invoice models.Invoice
	if err := tenantDB.Preload("Client").Preload("Items").First(&invoice, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "invoice not found")
	}
	return c.JSON(invoice)
}

// PublishInvoice freezes the invoice: it flips the draft flag and stores an
// immutable snapshot (items, parameters and the totals as computed at publish
// time) as a new version row.
func PublishInvoice(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "tenant database unavailable")
	}

	var invoice models.Invoice
	if err := tenantDB.Preload("Client").Preload("Items").First(&invoice, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "invoice not found")
	}
	if invoice.Published {
		return fiber.NewError(fiber.StatusConflict, "invoice already published")
	}

	now := time.Now().UTC()
	invoice.Draft = false
	invoice.Published = true
	invoice.PublishedAt = &now

	snapshot, err := json.Marshal(invoice)
	if err != nil {
		return err
	}

	var lastVersion int
	row := tenantDB.Model(&models.InvoiceVersion{}).
		Where("invoice_id = ?", invoice.ID).
		Select("COALESCE(MAX(version_no), 0)").Row()
	if err := row.Scan(&lastVersion); err != nil {
		return err
	}

	version := models.InvoiceVersion{
		InvoiceID: invoice.ID,
		VersionNo: lastVersion + 1,
		Snapshot:  snapshot,
	}
	if err := tenantDB.Create(&version).Error; err != nil {
		return err
	}
	if err := tenantDB.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
		Updates(map[string]any{
			"draft":        false,
			"published":    true,
			"published_at": &now,
		}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"invoice": invoice,
		"version": version.VersionNo,
	})
}

func GetInvoiceVersions(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "tenant database unavailable")
	}

	var versions []models.InvoiceVersion
	if err := tenantDB.Where("invoice_id = ?", id).Order("version_no ASC").Find(&versions).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"versions": versions})
}
