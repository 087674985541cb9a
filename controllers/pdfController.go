package controllers

import (
	"bytes"
	"fmt"
	"strconv"

	"zynvoice-backend/database"
	"zynvoice-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jung-kurt/gofpdf"
)

// ExportInvoicePDF renders the stored invoice, including its persisted
// totals snapshot, as a PDF. It deliberately does not recompute anything:
// the figures on the document are exactly the ones the billing calculator
// produced at the last write.
func ExportInvoicePDF(c *fiber.Ctx) error {
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

	company, err := currentCompany(c)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Invoice "+invoice.InvoiceNumber)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(95, 5, company.CompanyName)
	pdf.Cell(0, 5, "Bill to: "+invoice.Client.CompanyName)
	pdf.Ln(5)
	pdf.Cell(95, 5, company.Address+", "+company.Zip+" "+company.City)
	pdf.Cell(0, 5, invoice.Client.Address+", "+invoice.Client.Zip+" "+invoice.Client.City)
	pdf.Ln(5)
	pdf.Cell(95, 5, company.Email)
	pdf.Cell(0, 5, invoice.Client.Email)
	pdf.Ln(10)

	pdf.Cell(95, 5, "Invoice date: "+invoice.InvoiceDate.Format("2006-01-02"))
	pdf.Cell(0, 5, "Due date: "+invoice.DueDate.Format("2006-01-02"))
	pdf.Ln(10)

	// Item table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Rate", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range invoice.Items {
		pdf.CellFormat(90, 7, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, trimFloat(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, money(item.Rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, money(item.Amount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// Totals block: the persisted snapshot, verbatim.
	totals := []struct {
		label string
		value float64
	}{
		{"Subtotal", invoice.Subtotal},
		{discountLabel(invoice), -invoice.DiscountTotal},
		{fmt.Sprintf("Tax (%s%%)", trimFloat(invoice.TaxRate)), invoice.TaxTotal},
		{"Total", invoice.Total},
	}
	for i, row := range totals {
		style := ""
		if i == len(totals)-1 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(150, 6, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, money(row.value), "", 1, "R", false, 0, "")
	}

	if invoice.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, invoice.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		`attachment; filename="invoice-`+invoice.InvoiceNumber+`.pdf"`)
	return c.Send(buf.Bytes())
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func discountLabel(inv models.Invoice) string {
	if inv.DiscountType == "percentage" {
		return fmt.Sprintf("Discount (%s%%)", trimFloat(inv.DiscountValue))
	}
	return "Discount"
}
