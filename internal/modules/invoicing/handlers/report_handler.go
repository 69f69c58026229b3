package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/services"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
)

type ReportHandler struct {
	store *services.Store
}

func NewReportHandler(store *services.Store) *ReportHandler {
	return &ReportHandler{store: store}
}

// ReportResponse is a revenue report with its chart views
type ReportResponse struct {
	analytics.Report
	Revenue    analytics.ChartData    `json:"revenueChart"`
	Clients    analytics.ChartData    `json:"clientChart"`
	Categories analytics.PieChartData `json:"categoryChart"`
}

// GetReport godoc
// @Summary Revenue report
// @Description Aggregates saved invoices over a named period or an explicit inclusive date range
// @Tags Reports
// @Produce json
// @Param period query string false "today, this_month, last_30_days, all, ..."
// @Param start query string false "YYYY-MM-DD"
// @Param end query string false "YYYY-MM-DD"
// @Param granularity query string false "day, month or year"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} ErrorResponse
// @Router /reports [get]
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	var r *analytics.DateRange
	if start, end := c.Query("start"), c.Query("end"); start != "" || end != "" {
		var err error
		if r, err = analytics.ParseDateRange(start, end); err != nil {
			return respondError(c, ierr.WithError(err).
				WithHint("Start and end must be YYYY-MM-DD dates with end not before start.").
				Mark(ierr.ErrValidation))
		}
	} else {
		r = analytics.GetDateRange(c.Query("period", "all"), h.store.Now())
	}

	report := h.store.Report(r)
	return c.JSON(ReportResponse{
		Report:     report,
		Revenue:    analytics.RevenueChart(report, c.Query("granularity", "day")),
		Clients:    analytics.ToBarChartData(report.TopClients, "Top Clients", "Revenue"),
		Categories: analytics.ToPieChartData(report.TopCategories),
	})
}

// GetDashboard godoc
// @Summary Dashboard cards and recent invoices
// @Tags Reports
// @Produce json
// @Success 200 {object} analytics.DashboardData
// @Router /dashboard [get]
func (h *ReportHandler) GetDashboard(c *fiber.Ctx) error {
	return c.JSON(h.store.Dashboard())
}

// GetCalendar godoc
// @Summary Saved invoices laid out on a month grid
// @Tags Reports
// @Produce json
// @Param year query int false "Year (defaults to the current year)"
// @Param month query int false "Month 1-12 (defaults to the current month)"
// @Success 200 {object} analytics.Calendar
// @Failure 400 {object} ErrorResponse
// @Router /calendar [get]
func (h *ReportHandler) GetCalendar(c *fiber.Ctx) error {
	now := h.store.Now()
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))
	if month < 1 || month > 12 {
		return respondError(c, ierr.NewErrorf("month %d out of range", month).
			WithHint("Month must be between 1 and 12.").
			Mark(ierr.ErrValidation))
	}
	return c.JSON(h.store.Calendar(year, time.Month(month)))
}
