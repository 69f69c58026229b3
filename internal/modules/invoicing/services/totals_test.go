package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
)

func TestComputeTotals(t *testing.T) {
	inv := models.Invoice{
		Items: []models.LineItem{
			{Quantity: 2, Price: 100},
			{Quantity: 1.5, Price: 40},
		},
		TaxRate:      10,
		DiscountRate: 20,
	}

	tests := []struct {
		name     string
		tax      bool
		discount bool
		want     Totals
	}{
		{
			name: "both disabled",
			want: Totals{Subtotal: 260, TaxableAmount: 260, Total: 260},
		},
		{
			name: "tax only",
			tax:  true,
			want: Totals{Subtotal: 260, TaxableAmount: 260, TaxAmount: 26, Total: 286},
		},
		{
			name:     "discount only",
			discount: true,
			want:     Totals{Subtotal: 260, DiscountAmount: 52, TaxableAmount: 208, Total: 208},
		},
		{
			name:     "both enabled",
			tax:      true,
			discount: true,
			want:     Totals{Subtotal: 260, DiscountAmount: 52, TaxableAmount: 208, TaxAmount: 20.8, Total: 228.8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(inv, models.CompanySettings{EnableTax: tt.tax, EnableDiscount: tt.discount})
			assert.InDelta(t, tt.want.Subtotal, got.Subtotal, 1e-9)
			assert.InDelta(t, tt.want.DiscountAmount, got.DiscountAmount, 1e-9)
			assert.InDelta(t, tt.want.TaxableAmount, got.TaxableAmount, 1e-9)
			assert.InDelta(t, tt.want.TaxAmount, got.TaxAmount, 1e-9)
			assert.InDelta(t, tt.want.Total, got.Total, 1e-9)
			assert.InDelta(t, got.Subtotal-got.DiscountAmount+got.TaxAmount, got.Total, 1e-9)
		})
	}
}

func TestSubtotalDeltaIsOrderIndependent(t *testing.T) {
	items := []models.LineItem{
		{ID: "a", Quantity: 3, Price: 7},
		{ID: "b", Quantity: -1, Price: 4},
		{ID: "c", Quantity: 0.5, Price: 10},
	}
	base := Subtotal(items)
	assert.InDelta(t, 22.0, base, 1e-9)

	reversed := []models.LineItem{items[2], items[1], items[0]}
	assert.InDelta(t, base, Subtotal(reversed), 1e-9)

	changed := append([]models.LineItem(nil), items...)
	changed[1].Quantity = 4
	assert.InDelta(t, base+5*4, Subtotal(changed), 1e-9)
}

func TestConsultingScenario(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	p, err := s.AddProduct(ctx, models.Product{Name: "Consulting", Price: 100})
	require.NoError(t, err)

	_, err = s.CreateNewInvoice(ctx)
	require.NoError(t, err)
	blank := mustActive(t, s).Items[0].ID
	require.NoError(t, s.RemoveItem(blank))
	_, err = s.AddProductItem(ctx, p.ID, 2)
	require.NoError(t, err)

	totals, err := s.Totals(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, totals.Subtotal, 1e-9)
	assert.InDelta(t, 220.0, totals.Total, 1e-9)

	require.NoError(t, s.UpdateCompanySettings(ctx, "enableTax", false))
	totals, err = s.Totals(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, totals.Total, 1e-9)
	assert.Equal(t, models.Number(10), mustActive(t, s).TaxRate)
}

func TestFormatCurrency(t *testing.T) {
	en := language.AmericanEnglish
	tests := []struct {
		amount float64
		code   string
		want   string
	}{
		{1234.5, "INR", "₹1,234.50"},
		{1234.5, "USD", "$1,234.50"},
		{0.005, "EUR", "€0.01"},
		{1234.5, "JPY", "¥1,235"},
		{-20, "GBP", "-£20.00"},
		{99.999, "CHF", "CHF 100.00"},
		{5, "BHD", "BHD 5.000"},
		{-5, "BHD", "-BHD 5.000"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(tt.amount, tt.code, en))
		})
	}
}

func TestRoundCurrencyDoesNotTouchTotals(t *testing.T) {
	assert.Equal(t, 0.33, RoundCurrency(1.0/3.0, "USD"))
	assert.Equal(t, 0.0, RoundCurrency(0.4, "JPY"))
	assert.Equal(t, 2, CurrencyScale("not-a-code"))
}
