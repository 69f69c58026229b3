package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleEntries() []Entry {
	return []Entry{
		{ID: "INV-1", Date: day("2023-12-20"), Client: "Acme", Amount: 300,
			Lines: []Line{{Category: "Design", Amount: 300}}},
		{ID: "INV-2", Date: day("2024-01-03"), Client: "Acme", Amount: 200,
			Lines: []Line{{Category: "Design", Amount: 150}, {Amount: 50}}},
		{ID: "INV-3", Date: day("2024-01-05"), Client: "Globex", Amount: 100,
			Lines: []Line{{Category: "Hosting", Amount: 100}}},
		{ID: "INV-4", Date: day("2024-01-05"), Client: "", Amount: 40},
	}
}

func TestBuildReport_All(t *testing.T) {
	r := BuildReport(sampleEntries(), nil)

	assert.Equal(t, 640.0, r.TotalRevenue)
	assert.Equal(t, 4, r.InvoiceCount)

	assert.Equal(t, []Bucket{
		{Key: "2023-12-20", Total: 300, Count: 1},
		{Key: "2024-01-03", Total: 200, Count: 1},
		{Key: "2024-01-05", Total: 140, Count: 2},
	}, r.Daily)
	assert.Equal(t, []Bucket{
		{Key: "2023-12", Total: 300, Count: 1},
		{Key: "2024-01", Total: 340, Count: 3},
	}, r.Monthly)
	assert.Equal(t, []Bucket{
		{Key: "2023", Total: 300, Count: 1},
		{Key: "2024", Total: 340, Count: 3},
	}, r.Yearly)

	assert.Equal(t, []Bucket{
		{Key: "Acme", Total: 500, Count: 2},
		{Key: "Globex", Total: 100, Count: 1},
		{Key: UnknownClient, Total: 40, Count: 1},
	}, r.TopClients)
	assert.Equal(t, []Bucket{
		{Key: "Design", Total: 450, Count: 2},
		{Key: "Hosting", Total: 100, Count: 1},
		{Key: Uncategorized, Total: 50, Count: 1},
	}, r.TopCategories)
}

func TestBuildReport_RangeIsInclusive(t *testing.T) {
	rng, err := ParseDateRange("2024-01-01", "2024-01-05")
	require.NoError(t, err)

	r := BuildReport(sampleEntries(), rng)
	assert.Equal(t, 340.0, r.TotalRevenue)
	assert.Equal(t, 3, r.InvoiceCount)
	assert.Same(t, rng, r.Range)
}

func TestBuildReport_Windows(t *testing.T) {
	var entries []Entry
	start := day("2022-01-01")
	for i := 0; i < 40; i++ {
		entries = append(entries, Entry{
			ID:     fmt.Sprintf("INV-%d", i),
			Date:   start.AddDate(0, i, i),
			Client: fmt.Sprintf("client-%02d", i),
			Amount: float64(i + 1),
		})
	}

	r := BuildReport(entries, nil)
	require.Len(t, r.Daily, 30)
	require.Len(t, r.Monthly, 12)
	require.Len(t, r.TopClients, 5)
	assert.Equal(t, "client-39", r.TopClients[0].Key)
	assert.Equal(t, entries[39].Date.Format("2006-01"), r.Monthly[11].Key)
}

func TestBuildReport_Empty(t *testing.T) {
	r := BuildReport(nil, nil)
	assert.Zero(t, r.TotalRevenue)
	assert.Empty(t, r.Daily)
	assert.Empty(t, r.TopClients)
}

func TestGetDateRange(t *testing.T) {
	// Friday
	now := time.Date(2024, 1, 5, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		period string
		start  string
		end    string
	}{
		{"today", "2024-01-05", "2024-01-05"},
		{"yesterday", "2024-01-04", "2024-01-04"},
		{"this_week", "2024-01-01", "2024-01-05"},
		{"last_week", "2023-12-25", "2023-12-31"},
		{"this_month", "2024-01-01", "2024-01-05"},
		{"month", "2024-01-01", "2024-01-05"},
		{"last_month", "2023-12-01", "2023-12-31"},
		{"this_year", "2024-01-01", "2024-01-05"},
		{"last_30_days", "2023-12-06", "2024-01-05"},
		{"bogus", "2024-01-05", "2024-01-05"},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			r := GetDateRange(tt.period, now)
			require.NotNil(t, r)
			assert.Equal(t, tt.start, r.Start.Format(dayLayout))
			assert.Equal(t, tt.end, r.End.Format(dayLayout))
		})
	}

	assert.Nil(t, GetDateRange("all", now))
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.True(t, r.Contains(day("2024-01-31").Add(23*time.Hour)))
	assert.False(t, r.Contains(day("2024-02-01")))

	_, err = ParseDateRange("2024-02-01", "2024-01-01")
	assert.Error(t, err)
	_, err = ParseDateRange("yesterday", "2024-01-01")
	assert.Error(t, err)
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-01-05T10:00:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, day("2024-01-05"), d)

	_, err = ParseDay("")
	assert.Error(t, err)
}

func TestDashboard(t *testing.T) {
	now := time.Date(2024, 1, 5, 15, 0, 0, 0, time.UTC)
	money := func(v float64) string { return fmt.Sprintf("$%.2f", v) }

	d := Dashboard(sampleEntries(), DashboardCounts{Drafts: 2, Clients: 3, Products: 1500}, now, money)

	require.Len(t, d.Stats, 6)
	assert.Equal(t, "Total Revenue", d.Stats[0].Title)
	assert.Equal(t, "$640.00", d.Stats[0].Value)

	month := d.Stats[1]
	assert.Equal(t, "$340.00", month.Value)
	assert.InDelta(t, 13.33, month.Change, 0.01)
	assert.Equal(t, "up", month.Trend)

	assert.Equal(t, "4", d.Stats[2].Value)
	assert.Equal(t, "2", d.Stats[3].Value)
	assert.Equal(t, "3", d.Stats[4].Value)
	assert.Equal(t, "1.5K", d.Stats[5].Value)

	require.Len(t, d.Recent, 4)
	assert.Equal(t, "INV-3", d.Recent[0].ID)
	assert.Equal(t, "INV-1", d.Recent[3].ID)
}

func TestCalendarMonth(t *testing.T) {
	today := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	cal := CalendarMonth(sampleEntries(), 2024, time.January, today)

	assert.Equal(t, "January 2024", cal.Title)
	require.Len(t, cal.Days, 42)

	// January 2024 starts on a Monday
	assert.Equal(t, CalendarDay{Day: 31, Entries: []Entry{}}, cal.Days[0])
	assert.Equal(t, 1, cal.Days[1].Day)
	assert.True(t, cal.Days[1].InMonth)

	fifth := cal.Days[5]
	assert.Equal(t, 5, fifth.Day)
	assert.True(t, fifth.Today)
	assert.Len(t, fifth.Entries, 2)

	assert.Len(t, cal.Days[3].Entries, 1)
	assert.False(t, cal.Days[41].InMonth)
	assert.Equal(t, 10, cal.Days[41].Day)
}

func TestRevenueChart(t *testing.T) {
	r := BuildReport(sampleEntries(), nil)

	monthly := RevenueChart(r, "month")
	assert.Equal(t, "bar", monthly.Type)
	assert.Equal(t, []string{"Dec 2023", "Jan 2024"}, monthly.Labels)
	assert.Equal(t, []float64{300, 340}, monthly.Data[0].Values)

	daily := ToLineChartData(r.Daily, "Daily", "Revenue")
	assert.Equal(t, "line", daily.Type)
	assert.Equal(t, "Jan 5, 2024", daily.Labels[2])

	yearly := RevenueChart(r, "year")
	assert.Equal(t, []string{"2023", "2024"}, yearly.Labels)

	pie := ToPieChartData(r.TopCategories)
	assert.Equal(t, []string{"Design", "Hosting", Uncategorized}, pie.Labels)
}
