package routes

import (
	"github.com/gofiber/fiber/v2"

	"zynvoice-backend/controllers"
	"zynvoice-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Then per-request tenant transaction (pins search_path and commits/rolls back)
	protected.Use(middlewares.TenantTx())

	// Company profile (sender details on invoices)
	protected.Get("/company", controllers.GetCompany)
	protected.Put("/company", controllers.UpdateCompany)

	// Clients
	protected.Post("/client", controllers.CreateClient)
	protected.Get("/clients", controllers.GetClients)
	protected.Get("/client/:id", controllers.GetClient)
	protected.Put("/client/:id", controllers.UpdateClient)

	// Saved item catalog
	protected.Post("/item", controllers.CreateItems) // batch create
	protected.Get("/items", controllers.GetItems)
	protected.Put("/items/:id", controllers.UpdateItem)

	// Invoices
	protected.Post("/invoice", controllers.CreateInvoice)
	protected.Post("/invoices/preview", controllers.PreviewInvoice)
	protected.Get("/invoices", controllers.GetInvoices)
	protected.Get("/invoice/:id", controllers.GetInvoice)
	protected.Put("/invoices/:id", controllers.UpdateInvoice)
	protected.Put("/invoices/:id/publish", controllers.PublishInvoice)
	protected.Get("/invoices/:id/versions", controllers.GetInvoiceVersions)
	protected.Get("/invoices/:id/pdf", controllers.ExportInvoicePDF)
	protected.Post("/invoices/:id/payments", controllers.CreatePayment)
	protected.Get("/invoices/:id/payments", controllers.ListPayments)
}
