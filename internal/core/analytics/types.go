package analytics

import "time"

// DateRange is an inclusive time window
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the range (nil matches everything)
func (r *DateRange) Contains(t time.Time) bool {
	if r == nil {
		return true
	}
	return !t.Before(r.Start) && !t.After(r.End)
}

// Entry is one revenue-bearing record, typically a saved invoice
type Entry struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	Client string    `json:"client"`
	Amount float64   `json:"amount"`
	Status string    `json:"status,omitempty"`
	Lines  []Line    `json:"-"`
}

// Line is a categorised part of an entry's amount
type Line struct {
	Category string
	Amount   float64
}

// Bucket is a grouped total
type Bucket struct {
	Key   string  `json:"key"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// Report is the revenue breakdown shown on the reports screen
type Report struct {
	Range         *DateRange `json:"range,omitempty"`
	TotalRevenue  float64    `json:"totalRevenue"`
	InvoiceCount  int        `json:"invoiceCount"`
	Daily         []Bucket   `json:"daily"`
	Monthly       []Bucket   `json:"monthly"`
	Yearly        []Bucket   `json:"yearly"`
	TopClients    []Bucket   `json:"topClients"`
	TopCategories []Bucket   `json:"topCategories"`
}

// ChartData represents generic chart data format
type ChartData struct {
	Type   string        `json:"type"`   // "line", "bar"
	Title  string        `json:"title,omitempty"`
	Labels []string      `json:"labels"`
	Data   []ChartSeries `json:"data"`
}

// ChartSeries represents a data series in a chart
type ChartSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	Color  string    `json:"color,omitempty"`
}

// PieChartData represents pie chart specific data
type PieChartData struct {
	Type   string    `json:"type"` // "pie" or "donut"
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors,omitempty"`
}

// StatCard represents a summary statistic card
type StatCard struct {
	Title       string  `json:"title"`
	Value       string  `json:"value"`
	Change      float64 `json:"change"`       // Percentage change
	ChangeLabel string  `json:"change_label"` // "vs last month"
	Trend       string  `json:"trend"`        // "up", "down", "neutral"
	Icon        string  `json:"icon,omitempty"`
}

// DashboardData is the landing screen summary
type DashboardData struct {
	Stats  []StatCard `json:"stats"`
	Recent []Entry    `json:"recent"`
}

// CalendarDay is one cell of the month grid
type CalendarDay struct {
	Day     int     `json:"day"`
	InMonth bool    `json:"inMonth"`
	Today   bool    `json:"today"`
	Entries []Entry `json:"entries"`
}

// Calendar is a 6x7 month grid starting on Sunday
type Calendar struct {
	Year  int           `json:"year"`
	Month time.Month    `json:"month"`
	Title string        `json:"title"`
	Days  []CalendarDay `json:"days"`
}
