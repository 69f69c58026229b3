package services

import (
	"time"

	"github.com/samber/lo"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/utils"
)

// revenueEntries converts saved invoices into analytics entries. Revenue per
// invoice is the item subtotal; invoices with unreadable dates are skipped.
func revenueEntries(invoices []models.Invoice) []analytics.Entry {
	return lo.FilterMap(invoices, func(inv models.Invoice, _ int) (analytics.Entry, bool) {
		day, err := analytics.ParseDay(inv.Date)
		if err != nil {
			utils.LogWarn("skipping invoice with invalid date", map[string]interface{}{
				"invoice_id": inv.ID,
				"date":       inv.Date,
			})
			return analytics.Entry{}, false
		}
		return analytics.Entry{
			ID:     inv.ID,
			Date:   day,
			Client: inv.Client.Name,
			Amount: Subtotal(inv.Items),
			Status: string(inv.Status),
			Lines: lo.Map(inv.Items, func(it models.LineItem, _ int) analytics.Line {
				return analytics.Line{Category: it.Category, Amount: it.Amount()}
			}),
		}, true
	})
}

// Report aggregates saved invoices inside r (all when nil)
func (s *Store) Report(r *analytics.DateRange) analytics.Report {
	return analytics.BuildReport(revenueEntries(s.History()), r)
}

// Dashboard builds the landing screen stats
func (s *Store) Dashboard() analytics.DashboardData {
	history := s.History()
	counts := analytics.DashboardCounts{
		Drafts:   len(s.Drafts()),
		Clients:  len(s.Clients()),
		Products: len(s.Products()),
	}
	return analytics.Dashboard(revenueEntries(history), counts, s.now(), s.FormatCurrency)
}

// Calendar lays out saved invoices for one month
func (s *Store) Calendar(year int, month time.Month) analytics.Calendar {
	return analytics.CalendarMonth(revenueEntries(s.History()), year, month, s.now())
}
