package analytics

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	dailyWindow   = 30
	monthlyWindow = 12
	topN          = 5
	recentN       = 5

	Uncategorized = "Uncategorized"
	UnknownClient = "Unknown"
)

// tally groups amounts by key
type tally map[string]*Bucket

func (t tally) add(key string, amount float64) {
	b, ok := t[key]
	if !ok {
		b = &Bucket{Key: key}
		t[key] = b
	}
	b.Total += amount
	b.Count++
}

// byKey returns buckets in ascending key order
func (t tally) byKey() []Bucket {
	keys := lo.Keys(t)
	sort.Strings(keys)
	return lo.Map(keys, func(k string, _ int) Bucket { return *t[k] })
}

// top returns the n largest buckets; ties keep key order
func (t tally) top(n int) []Bucket {
	buckets := t.byKey()
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].Total > buckets[j].Total })
	if len(buckets) > n {
		buckets = buckets[:n]
	}
	return buckets
}

func last(buckets []Bucket, n int) []Bucket {
	if len(buckets) > n {
		return buckets[len(buckets)-n:]
	}
	return buckets
}

// BuildReport aggregates entries inside r (all entries when r is nil)
func BuildReport(entries []Entry, r *DateRange) Report {
	daily, monthly, yearly := tally{}, tally{}, tally{}
	clients, categories := tally{}, tally{}

	report := Report{Range: r}
	for _, e := range entries {
		if !r.Contains(e.Date) {
			continue
		}
		report.TotalRevenue += e.Amount
		report.InvoiceCount++

		daily.add(e.Date.Format(dayLayout), e.Amount)
		monthly.add(e.Date.Format("2006-01"), e.Amount)
		yearly.add(strconv.Itoa(e.Date.Year()), e.Amount)

		client := strings.TrimSpace(e.Client)
		if client == "" {
			client = UnknownClient
		}
		clients.add(client, e.Amount)

		for _, line := range e.Lines {
			category := strings.TrimSpace(line.Category)
			if category == "" {
				category = Uncategorized
			}
			categories.add(category, line.Amount)
		}
	}

	report.Daily = last(daily.byKey(), dailyWindow)
	report.Monthly = last(monthly.byKey(), monthlyWindow)
	report.Yearly = yearly.byKey()
	report.TopClients = clients.top(topN)
	report.TopCategories = categories.top(topN)
	return report
}

// DashboardCounts are the collection sizes shown on the dashboard
type DashboardCounts struct {
	Drafts   int
	Clients  int
	Products int
}

var dashboardCards = []StatCardConfig{
	{Key: "total", Title: "Total Revenue", Format: "currency", Icon: "dollar-sign"},
	{Key: "month", Title: "This Month", Format: "currency", Icon: "trending-up", ChangeLabel: "vs last month", PreviousKey: "last_month"},
	{Key: "invoices", Title: "Invoices", Format: "number", Icon: "file-text"},
	{Key: "drafts", Title: "Drafts", Format: "number", Icon: "clock"},
	{Key: "clients", Title: "Clients", Format: "number", Icon: "users"},
	{Key: "products", Title: "Products", Format: "number", Icon: "package"},
}

// Dashboard summarises revenue entries and collection sizes
func Dashboard(entries []Entry, counts DashboardCounts, now time.Time, money Formatter) DashboardData {
	thisMonth := GetDateRange("this_month", now)
	lastMonth := GetDateRange("last_month", now)
	// compare against the whole of this month, not only up to now
	thisMonth.End = time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location()).Add(-time.Nanosecond)

	values := map[string]float64{
		"invoices": float64(len(entries)),
		"drafts":   float64(counts.Drafts),
		"clients":  float64(counts.Clients),
		"products": float64(counts.Products),
	}
	for _, e := range entries {
		values["total"] += e.Amount
		if thisMonth.Contains(e.Date) {
			values["month"] += e.Amount
		}
		if lastMonth.Contains(e.Date) {
			values["last_month"] += e.Amount
		}
	}

	recent := append([]Entry(nil), entries...)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Date.After(recent[j].Date) })
	if len(recent) > recentN {
		recent = recent[:recentN]
	}
	if recent == nil {
		recent = []Entry{}
	}

	return DashboardData{
		Stats:  ToStatCards(values, dashboardCards, money),
		Recent: recent,
	}
}

// CalendarMonth lays out a 42-cell grid for the month with entries grouped
// by day. Leading and trailing cells belong to the neighbouring months.
func CalendarMonth(entries []Entry, year int, month time.Month, today time.Time) Calendar {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	daysInPrev := first.AddDate(0, 0, -1).Day()
	lead := int(first.Weekday())

	byDay := lo.GroupBy(lo.Filter(entries, func(e Entry, _ int) bool {
		return e.Date.Year() == year && e.Date.Month() == month
	}), func(e Entry) int { return e.Date.Day() })

	days := make([]CalendarDay, 0, 42)
	for i := lead - 1; i >= 0; i-- {
		days = append(days, CalendarDay{Day: daysInPrev - i, Entries: []Entry{}})
	}
	for d := 1; d <= daysInMonth; d++ {
		dayEntries := byDay[d]
		if dayEntries == nil {
			dayEntries = []Entry{}
		}
		days = append(days, CalendarDay{
			Day:     d,
			InMonth: true,
			Today:   today.Year() == year && today.Month() == month && today.Day() == d,
			Entries: dayEntries,
		})
	}
	for d := 1; len(days) < 42; d++ {
		days = append(days, CalendarDay{Day: d, Entries: []Entry{}})
	}

	return Calendar{
		Year:  year,
		Month: month,
		Title: first.Format("January 2006"),
		Days:  days,
	}
}
