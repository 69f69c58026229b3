package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler of the invoicing module
type Handlers struct {
	Health    *HealthHandler
	Invoices  *InvoiceHandler
	Catalog   *CatalogHandler
	Settings  *SettingsHandler
	Reports   *ReportHandler
	Exports   *ExportHandler
	Assistant *AssistantHandler
}

// RegisterRoutes mounts the module routes on r
func RegisterRoutes(r fiber.Router, h Handlers) {
	r.Get("/health", h.Health.GetHealth)

	r.Get("/invoice", h.Invoices.GetActiveInvoice)
	r.Patch("/invoice", h.Invoices.UpdateInvoice)
	r.Post("/invoice/new", h.Invoices.NewInvoice)
	r.Post("/invoice/draft", h.Invoices.SaveDraft)
	r.Post("/invoice/save", h.Invoices.SaveInvoice)
	r.Get("/invoice/pdf", h.Invoices.DownloadPDF)
	r.Post("/invoice/items", h.Invoices.AddItem)
	r.Post("/invoice/items/product", h.Invoices.AddProductItem)
	r.Patch("/invoice/items/:id", h.Invoices.UpdateItem)
	r.Delete("/invoice/items/:id", h.Invoices.RemoveItem)
	r.Patch("/invoice/client", h.Invoices.UpdateClient)
	r.Put("/invoice/client", h.Invoices.SelectClient)
	r.Post("/invoice/client/save", h.Invoices.SaveClient)

	r.Get("/invoices", h.Invoices.ListInvoices)
	r.Get("/invoices/:id", h.Invoices.GetInvoice)
	r.Delete("/invoices/:id", h.Invoices.DeleteInvoice)
	r.Post("/invoices/:id/load", h.Invoices.LoadInvoice)
	r.Get("/invoices/:id/pdf", h.Invoices.DownloadPDF)

	r.Get("/clients", h.Catalog.ListClients)
	r.Post("/clients", h.Catalog.CreateClient)
	r.Put("/clients/:id", h.Catalog.UpdateClient)
	r.Delete("/clients/:id", h.Catalog.DeleteClient)

	r.Get("/products", h.Catalog.ListProducts)
	r.Get("/products/categories", h.Catalog.ListCategories)
	r.Post("/products", h.Catalog.CreateProduct)
	r.Put("/products/:id", h.Catalog.UpdateProduct)
	r.Delete("/products/:id", h.Catalog.DeleteProduct)

	r.Get("/settings", h.Settings.GetSettings)
	r.Put("/settings", h.Settings.ReplaceSettings)
	r.Patch("/settings", h.Settings.UpdateSettings)
	r.Post("/settings/invoice-number", h.Settings.AllocateInvoiceNumber)
	r.Post("/settings/logo", h.Settings.UploadLogo)
	r.Delete("/settings/logo", h.Settings.DeleteLogo)

	r.Get("/reports", h.Reports.GetReport)
	r.Get("/dashboard", h.Reports.GetDashboard)
	r.Get("/calendar", h.Reports.GetCalendar)

	r.Get("/exports/history", h.Exports.ExportHistory)
	r.Get("/backup", h.Exports.DownloadBackup)
	r.Post("/backup", h.Exports.ImportBackup)
	r.Post("/backup/snapshot", h.Exports.WriteBackup)

	r.Get("/assistant/messages", h.Assistant.GetTranscript)
	r.Post("/assistant/messages", h.Assistant.SendMessage)
}
