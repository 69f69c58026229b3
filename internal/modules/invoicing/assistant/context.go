package assistant

import (
	"github.com/samber/lo"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/services"
)

type ClientRef struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProductRef struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type Activity struct {
	ID     string               `json:"id"`
	Client string               `json:"client"`
	Total  string               `json:"total"`
	Status models.InvoiceStatus `json:"status"`
	Date   string               `json:"date"`
}

type Financials struct {
	TotalRevenue string `json:"totalRevenue"`
	Count        int    `json:"count"`
}

// Snapshot is the read-only context sent with every utterance
type Snapshot struct {
	CurrentDate    string       `json:"currentDate"`
	Clients        []ClientRef  `json:"clients"`
	Products       []ProductRef `json:"products"`
	RecentActivity []Activity   `json:"recentActivity"`
	Financials     Financials   `json:"financials"`
}

// BuildSnapshot collects the minimal listings the model needs. Recent
// activity covers saved invoices dated today or yesterday.
func BuildSnapshot(store *services.Store) Snapshot {
	now := store.Now()
	today := now.Format("2006-01-02")
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")

	history := store.History()

	recent := lo.FilterMap(history, func(inv models.Invoice, _ int) (Activity, bool) {
		d := inv.DateOnly()
		if d != today && d != yesterday {
			return Activity{}, false
		}
		return Activity{
			ID:     inv.ID,
			Client: inv.Client.Name,
			Total:  store.FormatCurrency(services.Subtotal(inv.Items)),
			Status: inv.Status,
			Date:   inv.Date,
		}, true
	})

	revenue := lo.SumBy(history, func(inv models.Invoice) float64 {
		return services.Subtotal(inv.Items)
	})

	return Snapshot{
		CurrentDate: today,
		Clients: lo.Map(store.Clients(), func(c models.Client, _ int) ClientRef {
			return ClientRef{Name: c.Name, Email: c.Email}
		}),
		Products: lo.Map(store.Products(), func(p models.Product, _ int) ProductRef {
			return ProductRef{Name: p.Label(), Price: p.Price.Float()}
		}),
		RecentActivity: recent,
		Financials: Financials{
			TotalRevenue: store.FormatCurrency(revenue),
			Count:        len(history),
		},
	}
}
