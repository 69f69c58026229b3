package analytics

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

// Formatter renders a money amount for display
type Formatter func(float64) string

// RevenueChart picks the time series for a reports period ("day", "month", "year")
func RevenueChart(report Report, period string) ChartData {
	switch period {
	case "day":
		return ToBarChartData(report.Daily, "Daily Revenue (Last 30 Days)", "Revenue")
	case "month":
		return ToBarChartData(report.Monthly, "Monthly Revenue (Last 12 Months)", "Revenue")
	default:
		return ToBarChartData(report.Yearly, "Yearly Revenue", "Revenue")
	}
}

// ToLineChartData converts buckets to a single-series line chart
func ToLineChartData(buckets []Bucket, title, series string) ChartData {
	chart := ToBarChartData(buckets, title, series)
	chart.Type = "line"
	return chart
}

// ToBarChartData converts buckets to a single-series bar chart
func ToBarChartData(buckets []Bucket, title, series string) ChartData {
	return ChartData{
		Type:   "bar",
		Title:  title,
		Labels: lo.Map(buckets, func(b Bucket, _ int) string { return formatLabel(b.Key) }),
		Data: []ChartSeries{
			{
				Name:   series,
				Values: lo.Map(buckets, func(b Bucket, _ int) float64 { return b.Total }),
			},
		},
	}
}

// ToPieChartData converts buckets to pie chart format
func ToPieChartData(buckets []Bucket) PieChartData {
	return PieChartData{
		Type:   "pie",
		Labels: lo.Map(buckets, func(b Bucket, _ int) string { return b.Key }),
		Values: lo.Map(buckets, func(b Bucket, _ int) float64 { return b.Total }),
	}
}

// StatCardConfig represents configuration for a stat card
type StatCardConfig struct {
	Key         string
	Title       string
	Format      string // "number", "currency", "percentage"
	Icon        string
	ChangeLabel string
	PreviousKey string // Key for previous value to calculate change
}

// ToStatCards builds cards in config order
func ToStatCards(values map[string]float64, configs []StatCardConfig, money Formatter) []StatCard {
	cards := make([]StatCard, 0, len(configs))

	for _, cfg := range configs {
		value := values[cfg.Key]
		card := StatCard{
			Title:       cfg.Title,
			Value:       formatStatValue(value, cfg.Format, money),
			Icon:        cfg.Icon,
			ChangeLabel: cfg.ChangeLabel,
			Trend:       "neutral",
		}

		// Calculate change if previous value provided
		if previous, ok := values[cfg.PreviousKey]; ok && cfg.PreviousKey != "" && previous > 0 {
			card.Change = ((value - previous) / previous) * 100
			if card.Change > 0 {
				card.Trend = "up"
			} else if card.Change < 0 {
				card.Trend = "down"
			}
		}

		cards = append(cards, card)
	}

	return cards
}

// formatLabel turns bucket keys into display labels
func formatLabel(key string) string {
	if t, err := time.Parse(dayLayout, key); err == nil {
		return t.Format("Jan 2, 2006")
	}
	if t, err := time.Parse("2006-01", key); err == nil {
		return t.Format("Jan 2006")
	}
	return key
}

func formatStatValue(num float64, format string, money Formatter) string {
	switch format {
	case "currency":
		if money != nil {
			return money(num)
		}
		return fmt.Sprintf("%.2f", num)
	case "percentage":
		return fmt.Sprintf("%.1f%%", num)
	case "number":
		if num >= 1000000 {
			return fmt.Sprintf("%.1fM", num/1000000)
		} else if num >= 1000 {
			return fmt.Sprintf("%.1fK", num/1000)
		}
		return fmt.Sprintf("%.0f", num)
	default:
		return fmt.Sprintf("%.2f", num)
	}
}
