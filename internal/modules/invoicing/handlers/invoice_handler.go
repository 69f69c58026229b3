package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/search"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/services"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
)

// DefaultInvoiceSearchFields are used when the request names none
var DefaultInvoiceSearchFields = []string{"id", "client.name", "status", "date"}

type InvoiceHandler struct {
	store   *services.Store
	exports *export.Service
}

func NewInvoiceHandler(store *services.Store, exports *export.Service) *InvoiceHandler {
	return &InvoiceHandler{store: store, exports: exports}
}

// ActiveInvoiceResponse is the invoice under edit with its derived totals
type ActiveInvoiceResponse struct {
	Invoice models.Invoice  `json:"invoice"`
	Totals  services.Totals `json:"totals"`
}

// AddProductItemRequest adds a catalog product as a line item
type AddProductItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"gte=0"`
}

// SelectClientRequest copies a saved client onto the active invoice
type SelectClientRequest struct {
	ClientID string `json:"clientId" validate:"required"`
}

func (h *InvoiceHandler) active(c *fiber.Ctx, inv models.Invoice) error {
	t := services.ComputeTotals(inv, h.store.CompanySettings())
	return c.JSON(ActiveInvoiceResponse{Invoice: inv, Totals: t})
}

// GetActiveInvoice godoc
// @Summary Get the invoice under edit
// @Tags Editor
// @Produce json
// @Success 200 {object} ActiveInvoiceResponse
// @Router /invoice [get]
func (h *InvoiceHandler) GetActiveInvoice(c *fiber.Ctx) error {
	inv, err := h.store.ActiveInvoice(c.UserContext())
	if err != nil && !ierr.IsPersistence(err) {
		return respondError(c, err)
	}
	return h.active(c, inv)
}

// NewInvoice godoc
// @Summary Start a blank invoice
// @Description Allocates the next invoice number and makes a blank invoice active
// @Tags Editor
// @Produce json
// @Success 201 {object} ActiveInvoiceResponse
// @Router /invoice/new [post]
func (h *InvoiceHandler) NewInvoice(c *fiber.Ctx) error {
	inv, err := h.store.CreateNewInvoice(c.UserContext())
	if err != nil && !ierr.IsPersistence(err) {
		return respondError(c, err)
	}
	c.Status(fiber.StatusCreated)
	return h.active(c, inv)
}

// UpdateInvoice godoc
// @Summary Update an invoice field
// @Description Patches id, date, dueDate, notes, currency, taxRate or discountRate
// @Tags Editor
// @Accept json
// @Produce json
// @Param patch body models.FieldPatch true "Field and value"
// @Success 200 {object} ActiveInvoiceResponse
// @Failure 400 {object} ErrorResponse
// @Router /invoice [patch]
func (h *InvoiceHandler) UpdateInvoice(c *fiber.Ctx) error {
	var req models.FieldPatch
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	inv, err := h.store.UpdateSettings(c.UserContext(), req.Field, req.Value)
	if err != nil {
		return respondError(c, err)
	}
	return h.active(c, inv)
}

// SaveDraft godoc
// @Summary Save the active invoice as a draft
// @Tags Editor
// @Produce json
// @Success 200 {object} services.SaveResult
// @Failure 500 {object} services.SaveResult
// @Router /invoice/draft [post]
func (h *InvoiceHandler) SaveDraft(c *fiber.Ctx) error {
	return saveResult(c, h.store.SaveDraft(c.UserContext()))
}

// SaveInvoice godoc
// @Summary Save the active invoice
// @Tags Editor
// @Produce json
// @Success 200 {object} services.SaveResult
// @Failure 500 {object} services.SaveResult
// @Router /invoice/save [post]
func (h *InvoiceHandler) SaveInvoice(c *fiber.Ctx) error {
	return saveResult(c, h.store.SaveInvoiceFinal(c.UserContext()))
}

func saveResult(c *fiber.Ctx, result services.SaveResult) error {
	if !result.OK {
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}
	return c.JSON(result)
}

// AddItem godoc
// @Summary Append a line item
// @Tags Editor
// @Accept json
// @Produce json
// @Param item body models.AddItemRequest true "Line item"
// @Success 201 {object} models.LineItem
// @Router /invoice/items [post]
func (h *InvoiceHandler) AddItem(c *fiber.Ctx) error {
	var req models.AddItemRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	item, err := h.store.AddItem(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// AddProductItem godoc
// @Summary Append a catalog product as a line item
// @Tags Editor
// @Accept json
// @Produce json
// @Param item body AddProductItemRequest true "Product and quantity"
// @Success 201 {object} models.LineItem
// @Failure 404 {object} ErrorResponse
// @Router /invoice/items/product [post]
func (h *InvoiceHandler) AddProductItem(c *fiber.Ctx) error {
	var req AddProductItemRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	item, err := h.store.AddProductItem(c.UserContext(), req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateItem godoc
// @Summary Update a line item field
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "Line item ID"
// @Param patch body models.FieldPatch true "Field and value"
// @Success 200 {object} models.LineItem
// @Router /invoice/items/{id} [patch]
func (h *InvoiceHandler) UpdateItem(c *fiber.Ctx) error {
	var req models.FieldPatch
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	item, err := h.store.UpdateItem(c.Params("id"), req.Field, req.Value)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// RemoveItem godoc
// @Summary Remove a line item
// @Tags Editor
// @Param id path string true "Line item ID"
// @Success 204
// @Router /invoice/items/{id} [delete]
func (h *InvoiceHandler) RemoveItem(c *fiber.Ctx) error {
	if err := h.store.RemoveItem(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateClient godoc
// @Summary Update a client field on the active invoice
// @Tags Editor
// @Accept json
// @Produce json
// @Param patch body models.FieldPatch true "Field and value"
// @Success 200 {object} models.Client
// @Router /invoice/client [patch]
func (h *InvoiceHandler) UpdateClient(c *fiber.Ctx) error {
	var req models.FieldPatch
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	client, err := h.store.UpdateClient(c.UserContext(), req.Field, req.Value)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(client)
}

// SelectClient godoc
// @Summary Copy a saved client onto the active invoice
// @Tags Editor
// @Accept json
// @Produce json
// @Param client body SelectClientRequest true "Client ID"
// @Success 200 {object} models.Client
// @Router /invoice/client [put]
func (h *InvoiceHandler) SelectClient(c *fiber.Ctx) error {
	var req SelectClientRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	client, err := h.store.SelectClientByID(c.UserContext(), req.ClientID)
	if err != nil && !ierr.IsPersistence(err) {
		return respondError(c, err)
	}
	return c.JSON(client)
}

// SaveClient godoc
// @Summary Save the active invoice's client to the client list
// @Tags Editor
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /invoice/client/save [post]
func (h *InvoiceHandler) SaveClient(c *fiber.Ctx) error {
	added, err := h.store.SaveClientFromInvoice(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	if !added {
		return c.JSON(MessageResponse{Message: "Client already saved."})
	}
	return c.JSON(MessageResponse{Message: "Client saved."})
}

// ListInvoices godoc
// @Summary List invoices
// @Description Lists invoices newest first, optionally filtered by status and a fuzzy search
// @Tags Invoices
// @Produce json
// @Param status query string false "draft or saved"
// @Param q query string false "Search text"
// @Param fields query string false "Comma separated JSON paths to search"
// @Param client query string false "Exact client name"
// @Success 200 {array} models.Invoice
// @Router /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *fiber.Ctx) error {
	var invoices []models.Invoice
	switch {
	case c.Query("client") != "":
		invoices = h.store.InvoicesForClient(c.Query("client"))
	case c.Query("status") == string(models.StatusDraft):
		invoices = h.store.Drafts()
	case c.Query("status") == string(models.StatusSaved):
		invoices = h.store.History()
	case c.Query("status") == "":
		invoices = h.store.Invoices()
	default:
		return respondError(c, ierr.NewErrorf("unknown status %q", c.Query("status")).
			WithHint("Status must be draft or saved.").
			Mark(ierr.ErrValidation))
	}

	fields := search.ParseFields(c.Query("fields"))
	if len(fields) == 0 {
		fields = DefaultInvoiceSearchFields
	}
	return c.JSON(search.Filter(invoices, fields, c.Query("q")))
}

// GetInvoice godoc
// @Summary Get a persisted invoice
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} models.Invoice
// @Failure 404 {object} ErrorResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *fiber.Ctx) error {
	inv, err := h.store.FindInvoice(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// LoadInvoice godoc
// @Summary Open a persisted invoice in the editor
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} ActiveInvoiceResponse
// @Failure 404 {object} ErrorResponse
// @Router /invoices/{id}/load [post]
func (h *InvoiceHandler) LoadInvoice(c *fiber.Ctx) error {
	inv, err := h.store.LoadInvoiceByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return h.active(c, inv)
}

// DeleteInvoice godoc
// @Summary Delete an invoice
// @Tags Invoices
// @Param id path string true "Invoice ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *fiber.Ctx) error {
	if err := h.store.DeleteInvoice(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadPDF godoc
// @Summary Render an invoice as PDF
// @Description Renders the invoice with the given id, or the active invoice for /invoice/pdf
// @Tags Invoices
// @Produce application/pdf
// @Param id path string true "Invoice ID"
// @Success 200 {file} file
// @Router /invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdf, name, err := h.store.RenderInvoicePDF(c.UserContext(), h.exports, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(name)
	return c.Send(pdf)
}
