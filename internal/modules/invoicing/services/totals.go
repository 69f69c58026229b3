package services

import "github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"

// Totals are the derived amounts of an invoice. Values are not rounded;
// rounding happens only when formatting for display.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	TaxableAmount  float64 `json:"taxableAmount"`
	TaxAmount      float64 `json:"taxAmount"`
	Total          float64 `json:"total"`
}

// Subtotal is the sum of quantity times price over all items
func Subtotal(items []models.LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Amount()
	}
	return sum
}

// ComputeTotals derives invoice totals. Discount and tax only apply while
// their feature flags are enabled; the rates themselves are left untouched.
func ComputeTotals(inv models.Invoice, settings models.CompanySettings) Totals {
	subtotal := Subtotal(inv.Items)

	var discount float64
	if settings.EnableDiscount {
		discount = subtotal * inv.DiscountRate.Float() / 100
	}
	taxable := subtotal - discount

	var tax float64
	if settings.EnableTax {
		tax = taxable * inv.TaxRate.Float() / 100
	}

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxableAmount:  taxable,
		TaxAmount:      tax,
		Total:          taxable + tax,
	}
}
