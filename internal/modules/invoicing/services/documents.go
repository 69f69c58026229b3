package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/samber/lo"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
)

// FindInvoice returns a copy of a persisted invoice without activating it
func (s *Store) FindInvoice(id string) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := lo.Find(s.invoices, func(i models.Invoice) bool { return i.ID == id })
	if !ok {
		return models.Invoice{}, ierr.NewErrorf("invoice %s not found", id).
			WithHintf("Invoice %s does not exist.", id).
			Mark(ierr.ErrNotFound)
	}
	return inv.Clone(), nil
}

// InvoiceDocument prepares inv for printing with the current company
// settings. Discount and tax rows follow the feature flags.
func (s *Store) InvoiceDocument(inv models.Invoice) export.InvoiceDocument {
	settings := s.CompanySettings()

	code := inv.Currency
	if code == "" {
		code = models.DefaultCurrency
	}
	money := func(v float64) string { return FormatCurrency(v, code, s.locale) }
	t := ComputeTotals(inv, settings)

	totals := []export.TotalLine{{Label: "Subtotal", Value: money(t.Subtotal)}}
	if settings.EnableDiscount {
		totals = append(totals, export.TotalLine{
			Label: fmt.Sprintf("Discount (%s%%)", formatNumber(inv.DiscountRate.Float())),
			Value: "-" + money(t.DiscountAmount),
		})
	}
	if settings.EnableTax {
		totals = append(totals, export.TotalLine{
			Label: fmt.Sprintf("Tax (%s%%)", formatNumber(inv.TaxRate.Float())),
			Value: money(t.TaxAmount),
		})
	}
	totals = append(totals, export.TotalLine{Label: "Total", Value: money(t.Total), Emphasis: true})

	billTo := export.Party{
		Name:    inv.Client.Name,
		Address: inv.Client.Address,
		Phone:   inv.Client.Phone,
		Email:   inv.Client.Email,
	}
	if settings.EnableGST {
		billTo.TaxID = inv.Client.GSTIN
	}

	return export.InvoiceDocument{
		Number:      inv.ID,
		Date:        inv.DateOnly(),
		DueDate:     inv.DueDate,
		ShowCompany: settings.ShowInPreview,
		Company: export.Party{
			Name:    settings.Name,
			Address: settings.Address,
			Phone:   settings.Phone,
			Email:   settings.Email,
		},
		Logo:   settings.Logo,
		BillTo: billTo,
		Lines: lo.Map(inv.Items, func(it models.LineItem, _ int) export.DocumentLine {
			return export.DocumentLine{
				Description: it.Description,
				Quantity:    formatNumber(it.Quantity.Float()),
				Price:       money(it.Price.Float()),
				Amount:      money(it.Amount()),
			}
		}),
		Totals:    totals,
		Notes:     inv.Notes,
		QRPayload: fmt.Sprintf("Invoice %s\nDate %s\nTotal %s", inv.ID, inv.DateOnly(), money(t.Total)),
	}
}

// RenderInvoicePDF renders the invoice with the given id, or the active
// invoice when id is empty.
func (s *Store) RenderInvoicePDF(ctx context.Context, exports *export.Service, id string) ([]byte, string, error) {
	var (
		inv models.Invoice
		err error
	)
	if id == "" {
		inv, err = s.ActiveInvoice(ctx)
		if err != nil && !ierr.IsPersistence(err) {
			return nil, "", err
		}
	} else if inv, err = s.FindInvoice(id); err != nil {
		return nil, "", err
	}

	pdf, err := exports.RenderInvoice(ctx, s.InvoiceDocument(inv))
	if err != nil {
		return nil, "", ierr.WithError(err).
			WithHint("Failed to generate PDF.").
			Mark(ierr.ErrPersistence)
	}
	return pdf, fmt.Sprintf("Invoice-%s.pdf", inv.ID), nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
