package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
)

func TestInvoiceDocumentFollowsFlags(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	inv, err := s.StartInvoice(ctx, InvoiceDraft{
		Client: models.Client{Name: "Acme", Address: "1 Main St", GSTIN: "27ABCDE1234F1Z5"},
		Items:  []models.LineItem{{Description: "Consulting", Quantity: 2, Price: 100}},
	})
	require.NoError(t, err)

	doc := s.InvoiceDocument(inv)
	assert.Equal(t, inv.ID, doc.Number)
	assert.Equal(t, "2024-01-05", doc.Date)
	assert.True(t, doc.ShowCompany)
	assert.Empty(t, doc.BillTo.TaxID)
	require.Len(t, doc.Lines, 1)
	assert.Equal(t, export.DocumentLine{Description: "Consulting", Quantity: "2", Price: "₹100.00", Amount: "₹200.00"}, doc.Lines[0])
	assert.Equal(t, []export.TotalLine{
		{Label: "Subtotal", Value: "₹200.00"},
		{Label: "Tax (10%)", Value: "₹20.00"},
		{Label: "Total", Value: "₹220.00", Emphasis: true},
	}, doc.Totals)
	assert.Contains(t, doc.QRPayload, "Total ₹220.00")

	require.NoError(t, s.UpdateCompanySettings(ctx, "enableGST", true))
	require.NoError(t, s.UpdateCompanySettings(ctx, "enableDiscount", true))
	require.NoError(t, s.UpdateCompanySettings(ctx, "enableTax", false))
	inv, err = s.UpdateSettings(ctx, "discountRate", 12.5)
	require.NoError(t, err)

	doc = s.InvoiceDocument(inv)
	assert.Equal(t, "27ABCDE1234F1Z5", doc.BillTo.TaxID)
	assert.Equal(t, []export.TotalLine{
		{Label: "Subtotal", Value: "₹200.00"},
		{Label: "Discount (12.5%)", Value: "-₹25.00"},
		{Label: "Total", Value: "₹175.00", Emphasis: true},
	}, doc.Totals)
}

func TestFindInvoice(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.FindInvoice("INV-missing")
	assert.True(t, ierr.IsNotFound(err))

	inv, err := s.StartInvoice(ctx, InvoiceDraft{Client: models.Client{Name: "Acme"}})
	require.NoError(t, err)
	require.True(t, s.SaveDraft(ctx).OK)

	found, err := s.FindInvoice(inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", found.Client.Name)
}

func TestRenderInvoicePDF(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	exports := export.NewService(nil)

	active, err := s.ActiveInvoice(ctx)
	require.NoError(t, err)

	pdf, name, err := s.RenderInvoicePDF(ctx, exports, "")
	require.NoError(t, err)
	assert.Equal(t, "Invoice-"+active.ID+".pdf", name)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	_, _, err = s.RenderInvoicePDF(ctx, exports, "INV-missing")
	assert.True(t, ierr.IsNotFound(err))
}
