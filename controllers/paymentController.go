package controllers

import (
	"time"

	"zynvoice-backend/billing"
	"zynvoice-backend/database"
	"zynvoice-backend/middlewares"
	"zynvoice-backend/models"
	"zynvoice-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type PaymentInput struct {
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Method    string  `json:"method" validate:"required"`
	Reference string  `json:"reference"`
	Note      string  `json:"note"`
	PaidAt    string  `json:"paid_at"` // optional, defaults to now
}

func CreatePayment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}

	var input PaymentInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	paidAt := time.Now().UTC()
	if input.PaidAt != "" {
		t, err := time.Parse(billing.DateLayout, input.PaidAt)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "paid_at must be formatted as "+billing.DateLayout)
		}
		paidAt = t
	}

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "tenant database unavailable")
	}

	var invoice models.Invoice
	if err := tenantDB.First(&invoice, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "invoice not found")
	}

	payment := models.Payment{
		InvoiceID: invoice.ID,
		Amount:    utils.Round2(input.Amount),
		Method:    input.Method,
		Reference: input.Reference,
		Note:      input.Note,
		PaidAt:    paidAt,
	}
	if err := tenantDB.Create(&payment).Error; err != nil {
		return err
	}

	// Recompute the rollup from the payments table instead of incrementing,
	// so a replayed or concurrent write cannot skew it.
	var paidTotal float64
	row := tenantDB.Model(&models.Payment{}).
		Where("invoice_id = ?", invoice.ID).
		Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&paidTotal); err != nil {
		return err
	}
	if err := tenantDB.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
		Update("paid_total", utils.Round2(paidTotal)).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(payment)
}

func ListPayments(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "tenant database unavailable")
	}

	var payments []models.Payment
	if err := tenantDB.Where("invoice_id = ?", id).Order("paid_at ASC").Find(&payments).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"payments": payments})
}
